package transport

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/tpm2net/tpm2net-go/pkg/log"
	"github.com/tpm2net/tpm2net-go/pkg/output"
	"github.com/tpm2net/tpm2net-go/pkg/tpm2"
)

// MaxLogPacketDataSize is the maximum packet data size to include in
// logs (4 KB). Larger packets are truncated in log events to avoid
// excessive memory usage.
const MaxLogPacketDataSize = 4096

// Transport errors.
var (
	// ErrNotInitialized indicates Send was called before Initialize.
	ErrNotInitialized = errors.New("transport not initialized")

	// ErrClosed indicates the transport has been closed.
	ErrClosed = errors.New("transport closed")
)

// UDP sends TPM2.net packets over a connected UDP socket.
// It is safe for concurrent use.
type UDP struct {
	conn   *net.UDPConn
	remote *net.UDPAddr

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeCh   chan struct{}

	// Logging support (optional)
	logger   log.Logger
	driverID string
}

// NewUDP creates an unconnected UDP transport. Call Initialize to
// resolve and connect to the target.
func NewUDP() *UDP {
	return &UDP{closeCh: make(chan struct{})}
}

// SetLogger configures protocol logging for this transport.
// Pass nil to disable logging.
func (u *UDP) SetLogger(logger log.Logger, driverID string) {
	u.logger = logger
	u.driverID = driverID
}

// Initialize resolves the target address and connects the socket.
// UDP "connecting" sets the default destination; no packets are
// exchanged, so an unreachable target is only detected on Send.
func (u *UDP) Initialize(host string, port int) error {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("failed to resolve %s:%d: %w", host, port, err)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	u.conn = conn
	u.remote = addr
	return nil
}

// Send transmits one framed packet.
// Thread-safe: can be called from multiple goroutines.
func (u *UDP) Send(packet []byte) error {
	select {
	case <-u.closeCh:
		return ErrClosed
	default:
	}
	if u.conn == nil {
		return ErrNotInitialized
	}

	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	if _, err := u.conn.Write(packet); err != nil {
		return fmt.Errorf("failed to send packet: %w", err)
	}

	// Log the packet if logger is configured
	if u.logger != nil {
		u.logger.Log(makePacketEvent(u.driverID, u.remote.String(), packet, log.DirectionOut))
	}

	return nil
}

// RemoteAddr returns the resolved target address, or nil before
// Initialize.
func (u *UDP) RemoteAddr() net.Addr {
	if u.remote == nil {
		return nil
	}
	return u.remote
}

// Close closes the socket.
// It is safe to call Close multiple times.
func (u *UDP) Close() error {
	var err error
	u.closeOnce.Do(func() {
		close(u.closeCh)
		if u.conn != nil {
			err = u.conn.Close()
		}
	})
	return err
}

// makePacketEvent creates a transport-layer log event for a packet.
// The panel index is recovered from the packet-number byte when the
// packet parses as a TPM2.net frame.
func makePacketEvent(driverID, remote string, packet []byte, direction log.Direction) log.Event {
	panel := -1
	var packetNumber, totalPackets uint8
	if frame, err := tpm2.Parse(packet); err == nil {
		panel = int(frame.PacketNumber)
		packetNumber = frame.PacketNumber
		totalPackets = frame.TotalPackets
	}

	data := packet
	truncated := false
	if len(packet) > MaxLogPacketDataSize {
		data = packet[:MaxLogPacketDataSize]
		truncated = true
	}

	return log.Event{
		Timestamp:  time.Now(),
		DriverID:   driverID,
		Direction:  direction,
		Layer:      log.LayerTransport,
		Category:   log.CategoryPacket,
		RemoteAddr: remote,
		Packet: &log.PacketEvent{
			Panel:        panel,
			PacketNumber: packetNumber,
			TotalPackets: totalPackets,
			Size:         len(packet),
			Data:         data,
			Truncated:    truncated,
		},
	}
}

// Compile-time interface satisfaction check.
var _ output.Transport = (*UDP)(nil)
