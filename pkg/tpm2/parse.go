package tpm2

import (
	"errors"
	"fmt"
)

// Parsing errors.
var (
	// ErrFrameTooShort indicates the packet is smaller than the minimum
	// valid frame.
	ErrFrameTooShort = errors.New("frame too short")

	// ErrBadStartByte indicates the packet does not begin with StartByte.
	ErrBadStartByte = errors.New("bad start byte")

	// ErrBadEndByte indicates the packet does not end with EndByte.
	ErrBadEndByte = errors.New("bad end byte")

	// ErrBadBlockType indicates an unknown block type byte.
	ErrBadBlockType = errors.New("bad block type")

	// ErrSizeMismatch indicates the declared payload size does not match
	// the actual packet length.
	ErrSizeMismatch = errors.New("payload size mismatch")
)

// Frame is a parsed TPM2.net packet.
type Frame struct {
	// Type is the packet's block type.
	Type BlockType

	// PacketNumber selects one packet of a logical frame (0-255).
	PacketNumber uint8

	// TotalPackets is the logical frame's packet count (1-255).
	TotalPackets uint8

	// Payload is the packet payload. It aliases the parsed packet.
	Payload []byte
}

// Parse validates and decodes a TPM2.net packet.
func Parse(packet []byte) (Frame, error) {
	if len(packet) < HeaderSize+1 {
		return Frame{}, fmt.Errorf("%w: %d bytes", ErrFrameTooShort, len(packet))
	}
	if packet[0] != StartByte {
		return Frame{}, fmt.Errorf("%w: 0x%02X", ErrBadStartByte, packet[0])
	}
	if packet[len(packet)-1] != EndByte {
		return Frame{}, fmt.Errorf("%w: 0x%02X", ErrBadEndByte, packet[len(packet)-1])
	}

	block := BlockType(packet[1])
	if !block.Valid() {
		return Frame{}, fmt.Errorf("%w: 0x%02X", ErrBadBlockType, packet[1])
	}

	size := int(packet[2])<<8 | int(packet[3])
	if size != len(packet)-HeaderSize {
		return Frame{}, fmt.Errorf("%w: declared %d, have %d",
			ErrSizeMismatch, size, len(packet)-HeaderSize)
	}

	return Frame{
		Type:         block,
		PacketNumber: packet[4],
		TotalPackets: packet[5],
		Payload:      packet[6 : len(packet)-1],
	}, nil
}
