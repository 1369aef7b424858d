package tpm2

import (
	"errors"
	"fmt"
)

// Protocol constants.
const (
	// NetPort is the well-known UDP port for TPM2.net receivers.
	NetPort = 65506

	// StartByte opens every TPM2.net packet.
	StartByte = 0x9C

	// SerialStartByte opens every serial TPM2 packet.
	SerialStartByte = 0xC9

	// EndByte closes every packet in both protocol flavors.
	EndByte = 0x36

	// HeaderSize is the TPM2.net overhead per packet: start byte, block
	// type, two size bytes, packet number, total packets, end byte.
	HeaderSize = 7

	// SerialHeaderSize is the serial TPM2 overhead per packet. The packet
	// counter bytes are omitted on the wire.
	SerialHeaderSize = 5

	// MaxPayload is the largest payload the two size bytes can describe.
	MaxPayload = 65535
)

// Framing errors.
var (
	// ErrPayloadEmpty indicates an empty payload.
	ErrPayloadEmpty = errors.New("payload is empty")

	// ErrPayloadTooLarge indicates the payload exceeds MaxPayload.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrTotalPacketsZero indicates a zero total-packets count.
	ErrTotalPacketsZero = errors.New("total packets must be at least 1")
)

// BlockType identifies the content of a TPM2 packet.
type BlockType uint8

// Block types defined by the TPM2 protocol family.
const (
	// BlockData is a data frame carrying pixel bytes.
	BlockData BlockType = 0xDA
	// BlockCommand is a command frame.
	BlockCommand BlockType = 0xC0
	// BlockResponse is a response requested from the receiver.
	BlockResponse BlockType = 0xAA
)

// String returns the block type name.
func (b BlockType) String() string {
	switch b {
	case BlockData:
		return "DATA"
	case BlockCommand:
		return "COMMAND"
	case BlockResponse:
		return "RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether b is a known block type.
func (b BlockType) Valid() bool {
	switch b {
	case BlockData, BlockCommand, BlockResponse:
		return true
	}
	return false
}

// DataFrame builds a TPM2.net data packet around payload.
//
// packetNumber selects one packet of a logical frame (0-255) and
// totalPackets is the frame's packet count (1-255). Callers that send
// one panel per packet pass the panel's display offset and the panel
// count.
func DataFrame(packetNumber, totalPackets uint8, payload []byte) ([]byte, error) {
	return buildNetFrame(BlockData, packetNumber, totalPackets, payload)
}

// CommandFrame builds a TPM2.net command packet around payload.
func CommandFrame(payload []byte) ([]byte, error) {
	return buildNetFrame(BlockCommand, 0, 1, payload)
}

func buildNetFrame(block BlockType, packetNumber, totalPackets uint8, payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrPayloadEmpty
	}
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(payload), MaxPayload)
	}
	if totalPackets == 0 {
		return nil, ErrTotalPacketsZero
	}

	frame := make([]byte, FrameSize(len(payload)))
	frame[0] = StartByte
	frame[1] = byte(block)
	frame[2] = byte(len(payload) >> 8)
	frame[3] = byte(len(payload))
	frame[4] = packetNumber
	frame[5] = totalPackets
	copy(frame[6:], payload)
	frame[len(frame)-1] = EndByte
	return frame, nil
}

// SerialFrame builds a serial TPM2 data packet around payload: start
// byte 0xC9, block type, two size bytes, payload, end byte.
func SerialFrame(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrPayloadEmpty
	}
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(payload), MaxPayload)
	}

	frame := make([]byte, SerialFrameSize(len(payload)))
	frame[0] = SerialStartByte
	frame[1] = byte(BlockData)
	frame[2] = byte(len(payload) >> 8)
	frame[3] = byte(len(payload))
	copy(frame[4:], payload)
	frame[len(frame)-1] = EndByte
	return frame, nil
}

// Split chunks payload into slices of at most max bytes, preserving
// order. The returned slices alias payload. Use it to spread one
// logical frame across multiple data packets when a payload exceeds
// MaxPayload.
func Split(payload []byte, max int) [][]byte {
	if max <= 0 || len(payload) == 0 {
		return nil
	}
	chunks := make([][]byte, 0, (len(payload)+max-1)/max)
	for len(payload) > max {
		chunks = append(chunks, payload[:max])
		payload = payload[max:]
	}
	return append(chunks, payload)
}

// FrameSize returns the on-wire size of a TPM2.net packet for a payload.
func FrameSize(payloadSize int) int {
	return payloadSize + HeaderSize
}

// SerialFrameSize returns the on-wire size of a serial TPM2 packet.
func SerialFrameSize(payloadSize int) int {
	return payloadSize + SerialHeaderSize
}
