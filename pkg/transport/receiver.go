package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/tpm2net/tpm2net-go/pkg/log"
	"github.com/tpm2net/tpm2net-go/pkg/tpm2"
)

// PacketHandler is called for every received datagram. The packet
// slice is owned by the handler and not reused by the receiver.
type PacketHandler func(src net.Addr, packet []byte)

// ReceiverConfig configures a Receiver.
type ReceiverConfig struct {
	// Address to listen on (e.g. ":65506" or "127.0.0.1:0").
	// Defaults to the TPM2.net port on all interfaces.
	Address string

	// Logger for protocol logging (optional).
	Logger log.Logger

	// OnPacket is called for each received datagram.
	OnPacket PacketHandler

	// OnError is called when a read error occurs.
	OnError func(err error)
}

// Receiver listens for TPM2.net packets on a UDP port. It is used by
// the monitor and by hardware simulators.
type Receiver struct {
	config ReceiverConfig
	conn   *net.UDPConn
	id     string

	packets atomic.Uint64
	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewReceiver creates a new Receiver.
func NewReceiver(config ReceiverConfig) *Receiver {
	if config.Address == "" {
		config.Address = fmt.Sprintf(":%d", tpm2.NetPort)
	}
	return &Receiver{
		config: config,
		id:     uuid.New().String(),
	}
}

// Start binds the socket and begins processing packets. The receiver
// stops when ctx is canceled or Stop is called.
func (r *Receiver) Start(ctx context.Context) error {
	if r.running.Load() {
		return fmt.Errorf("receiver already running")
	}

	addr, err := net.ResolveUDPAddr("udp", r.config.Address)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", r.config.Address, err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	r.conn = conn

	ctx, r.cancel = context.WithCancel(ctx)
	r.running.Store(true)

	r.wg.Add(2)
	go r.watchContext(ctx)
	go r.readLoop()

	return nil
}

// Stop stops the receiver and releases the socket.
// It is safe to call Stop multiple times.
func (r *Receiver) Stop() error {
	if !r.running.Load() {
		return nil
	}
	r.cancel()
	r.wg.Wait()
	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (r *Receiver) Addr() net.Addr {
	if r.conn != nil {
		return r.conn.LocalAddr()
	}
	return nil
}

// PacketCount returns the number of datagrams received since Start.
func (r *Receiver) PacketCount() uint64 {
	return r.packets.Load()
}

// ID returns the receiver instance identifier used in protocol logs.
func (r *Receiver) ID() string {
	return r.id
}

// watchContext closes the socket when the context ends, unblocking
// the read loop.
func (r *Receiver) watchContext(ctx context.Context) {
	defer r.wg.Done()
	<-ctx.Done()
	r.running.Store(false)
	r.conn.Close()
}

// readLoop receives datagrams until the receiver stops.
func (r *Receiver) readLoop() {
	defer r.wg.Done()

	buf := make([]byte, tpm2.FrameSize(tpm2.MaxPayload))
	for r.running.Load() {
		n, src, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if r.running.Load() && r.config.OnError != nil {
				r.config.OnError(fmt.Errorf("read error: %w", err))
			}
			continue
		}

		packet := make([]byte, n)
		copy(packet, buf[:n])
		r.packets.Add(1)

		if r.config.Logger != nil {
			r.config.Logger.Log(makePacketEvent(r.id, src.String(), packet, log.DirectionIn))
		}
		if r.config.OnPacket != nil {
			r.config.OnPacket(src, packet)
		}
	}
}
