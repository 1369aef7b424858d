package transport_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/tpm2net/tpm2net-go/pkg/tpm2"
	"github.com/tpm2net/tpm2net-go/pkg/transport"
)

// TestReceiverDeliversPackets verifies the receiver hands each datagram
// to the packet handler and counts it.
func TestReceiverDeliversPackets(t *testing.T) {
	var mu sync.Mutex
	var received [][]byte

	receiver := transport.NewReceiver(transport.ReceiverConfig{
		Address: "127.0.0.1:0",
		OnPacket: func(src net.Addr, packet []byte) {
			mu.Lock()
			received = append(received, packet)
			mu.Unlock()
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := receiver.Start(ctx); err != nil {
		t.Fatalf("Failed to start receiver: %v", err)
	}
	defer receiver.Stop()

	addr := receiver.Addr()
	if addr == nil {
		t.Fatal("Expected bound address after Start")
	}

	udp := transport.NewUDP()
	port := addr.(*net.UDPAddr).Port
	if err := udp.Initialize("127.0.0.1", port); err != nil {
		t.Fatalf("Failed to initialize sender: %v", err)
	}
	defer udp.Close()

	packet, err := tpm2.DataFrame(2, 4, []byte{0x10, 0x20, 0x30})
	if err != nil {
		t.Fatalf("Failed to build frame: %v", err)
	}
	if err := udp.Send(packet); err != nil {
		t.Fatalf("Failed to send: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(received)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("Expected 1 packet, got %d", len(received))
	}
	if len(received[0]) != len(packet) {
		t.Errorf("Expected %d bytes, got %d", len(packet), len(received[0]))
	}
	if received[0][0] != tpm2.StartByte {
		t.Errorf("Expected start byte 0x%02X, got 0x%02X", tpm2.StartByte, received[0][0])
	}
	if receiver.PacketCount() != 1 {
		t.Errorf("Expected packet count 1, got %d", receiver.PacketCount())
	}
}

// TestReceiverStopIdempotent verifies Stop can be called multiple times.
func TestReceiverStopIdempotent(t *testing.T) {
	receiver := transport.NewReceiver(transport.ReceiverConfig{
		Address: "127.0.0.1:0",
	})

	if err := receiver.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start receiver: %v", err)
	}

	if err := receiver.Stop(); err != nil {
		t.Errorf("First stop failed: %v", err)
	}
	if err := receiver.Stop(); err != nil {
		t.Errorf("Second stop failed: %v", err)
	}
}

// TestReceiverStopBeforeStart verifies stopping a receiver that never
// ran is safe.
func TestReceiverStopBeforeStart(t *testing.T) {
	receiver := transport.NewReceiver(transport.ReceiverConfig{
		Address: "127.0.0.1:0",
	})
	if err := receiver.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

// TestReceiverDoubleStart verifies a running receiver rejects a second
// Start.
func TestReceiverDoubleStart(t *testing.T) {
	receiver := transport.NewReceiver(transport.ReceiverConfig{
		Address: "127.0.0.1:0",
	})

	ctx := context.Background()
	if err := receiver.Start(ctx); err != nil {
		t.Fatalf("Failed to start receiver: %v", err)
	}
	defer receiver.Stop()

	if err := receiver.Start(ctx); err == nil {
		t.Error("Expected error starting a running receiver")
	}
}
