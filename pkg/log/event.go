package log

import (
	"time"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// DriverID uniquely identifies the driver or receiver instance (UUID).
	DriverID string `cbor:"2,keyasint"`

	// Direction indicates packet flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the peer address (IP:port or serial device name).
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Packet      *PacketEvent      `cbor:"7,keyasint,omitempty"`  // Transport layer
	Cache       *CacheEvent       `cbor:"8,keyasint,omitempty"`  // Change detection
	StateChange *StateChangeEvent `cbor:"9,keyasint,omitempty"`  // Connection state
	Error       *ErrorEventData   `cbor:"10,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of packet flow.
type Direction uint8

const (
	// DirectionIn indicates a received packet.
	DirectionIn Direction = 0
	// DirectionOut indicates a transmitted packet.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the socket/serial layer (raw bytes).
	LayerTransport Layer = 0
	// LayerProtocol is the framing and change-detection layer.
	LayerProtocol Layer = 1
	// LayerDriver is the output driver orchestration layer.
	LayerDriver Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerProtocol:
		return "PROTOCOL"
	case LayerDriver:
		return "DRIVER"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryPacket indicates a wire packet was sent or received.
	CategoryPacket Category = 0
	// CategoryCache indicates a change-detection decision.
	CategoryCache Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryPacket:
		return "PACKET"
	case CategoryCache:
		return "CACHE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// PacketEvent captures raw packet data at the transport layer.
type PacketEvent struct {
	// Panel is the panel index the packet carries data for (-1 if unknown).
	Panel int `cbor:"1,keyasint"`

	// PacketNumber is the packet-number byte from the frame header.
	PacketNumber uint8 `cbor:"2,keyasint"`

	// TotalPackets is the total-packets byte from the frame header.
	TotalPackets uint8 `cbor:"3,keyasint"`

	// Size is the full packet size in bytes (including framing).
	Size int `cbor:"4,keyasint"`

	// Data is the raw packet bytes (may be truncated for large packets).
	Data []byte `cbor:"5,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"6,keyasint,omitempty"`
}

// CacheEvent captures a change-detection decision for one panel.
type CacheEvent struct {
	// Panel is the panel index that was checked.
	Panel int `cbor:"1,keyasint"`

	// Changed is true if the buffer differed from the last sent one.
	Changed bool `cbor:"2,keyasint"`

	// Size is the compared buffer size in bytes.
	Size int `cbor:"3,keyasint"`
}

// StateChangeEvent captures driver and connection lifecycle events.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
