package tpm2

import (
	"bytes"
	"errors"
	"testing"
)

func TestDataFrame(t *testing.T) {
	tests := []struct {
		name         string
		packetNumber uint8
		totalPackets uint8
		payload      []byte
	}{
		{
			name:         "single byte",
			packetNumber: 0,
			totalPackets: 1,
			payload:      []byte{0x42},
		},
		{
			name:         "one panel of pixels",
			packetNumber: 2,
			totalPackets: 4,
			payload:      bytes.Repeat([]byte{0xFF, 0x00, 0x7F}, 64),
		},
		{
			name:         "payload above 255",
			packetNumber: 0,
			totalPackets: 1,
			payload:      bytes.Repeat([]byte{0xAB}, 300),
		},
		{
			name:         "max payload",
			packetNumber: 255,
			totalPackets: 255,
			payload:      bytes.Repeat([]byte{0x01}, MaxPayload),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := DataFrame(tt.packetNumber, tt.totalPackets, tt.payload)
			if err != nil {
				t.Fatalf("DataFrame failed: %v", err)
			}

			if len(frame) != FrameSize(len(tt.payload)) {
				t.Errorf("frame length = %d, want %d", len(frame), FrameSize(len(tt.payload)))
			}
			if frame[0] != StartByte {
				t.Errorf("start byte = 0x%02X, want 0x%02X", frame[0], StartByte)
			}
			if frame[1] != byte(BlockData) {
				t.Errorf("block type = 0x%02X, want 0x%02X", frame[1], byte(BlockData))
			}
			if got := int(frame[2])<<8 | int(frame[3]); got != len(tt.payload) {
				t.Errorf("declared size = %d, want %d", got, len(tt.payload))
			}
			if frame[4] != tt.packetNumber {
				t.Errorf("packet number = %d, want %d", frame[4], tt.packetNumber)
			}
			if frame[5] != tt.totalPackets {
				t.Errorf("total packets = %d, want %d", frame[5], tt.totalPackets)
			}
			if !bytes.Equal(frame[6:len(frame)-1], tt.payload) {
				t.Error("payload bytes differ")
			}
			if frame[len(frame)-1] != EndByte {
				t.Errorf("end byte = 0x%02X, want 0x%02X", frame[len(frame)-1], EndByte)
			}
		})
	}
}

func TestDataFrameExactBytes(t *testing.T) {
	frame, err := DataFrame(3, 8, []byte{0x11, 0x22, 0x33})
	if err != nil {
		t.Fatalf("DataFrame failed: %v", err)
	}

	want := []byte{0x9C, 0xDA, 0x00, 0x03, 0x03, 0x08, 0x11, 0x22, 0x33, 0x36}
	if !bytes.Equal(frame, want) {
		t.Errorf("frame = % X, want % X", frame, want)
	}
}

func TestDataFrameDoesNotAliasPayload(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	frame, err := DataFrame(0, 1, payload)
	if err != nil {
		t.Fatalf("DataFrame failed: %v", err)
	}

	payload[0] = 0xFF
	if frame[6] != 0x01 {
		t.Error("frame aliases the caller's payload")
	}
}

func TestDataFrameErrors(t *testing.T) {
	tests := []struct {
		name         string
		packetNumber uint8
		totalPackets uint8
		payload      []byte
		wantErr      error
	}{
		{
			name:         "empty payload",
			totalPackets: 1,
			payload:      nil,
			wantErr:      ErrPayloadEmpty,
		},
		{
			name:         "oversized payload",
			totalPackets: 1,
			payload:      bytes.Repeat([]byte{0x00}, MaxPayload+1),
			wantErr:      ErrPayloadTooLarge,
		},
		{
			name:         "zero total packets",
			totalPackets: 0,
			payload:      []byte{0x01},
			wantErr:      ErrTotalPacketsZero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DataFrame(tt.packetNumber, tt.totalPackets, tt.payload)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCommandFrame(t *testing.T) {
	frame, err := CommandFrame([]byte{0xDE, 0xAD})
	if err != nil {
		t.Fatalf("CommandFrame failed: %v", err)
	}

	want := []byte{0x9C, 0xC0, 0x00, 0x02, 0x00, 0x01, 0xDE, 0xAD, 0x36}
	if !bytes.Equal(frame, want) {
		t.Errorf("frame = % X, want % X", frame, want)
	}
}

func TestSerialFrame(t *testing.T) {
	frame, err := SerialFrame([]byte{0x11, 0x22, 0x33})
	if err != nil {
		t.Fatalf("SerialFrame failed: %v", err)
	}

	want := []byte{0xC9, 0xDA, 0x00, 0x03, 0x11, 0x22, 0x33, 0x36}
	if !bytes.Equal(frame, want) {
		t.Errorf("frame = % X, want % X", frame, want)
	}
	if len(frame) != SerialFrameSize(3) {
		t.Errorf("frame length = %d, want %d", len(frame), SerialFrameSize(3))
	}
}

func TestSerialFrameErrors(t *testing.T) {
	if _, err := SerialFrame(nil); !errors.Is(err, ErrPayloadEmpty) {
		t.Errorf("expected ErrPayloadEmpty, got %v", err)
	}

	big := bytes.Repeat([]byte{0x00}, MaxPayload+1)
	if _, err := SerialFrame(big); !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		payloadLen int
		max        int
		wantChunks int
	}{
		{name: "smaller than max", payloadLen: 10, max: 100, wantChunks: 1},
		{name: "exact multiple", payloadLen: 300, max: 100, wantChunks: 3},
		{name: "with remainder", payloadLen: 250, max: 100, wantChunks: 3},
		{name: "single byte chunks", payloadLen: 4, max: 1, wantChunks: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := make([]byte, tt.payloadLen)
			for i := range payload {
				payload[i] = byte(i)
			}

			chunks := Split(payload, tt.max)
			if len(chunks) != tt.wantChunks {
				t.Fatalf("chunk count = %d, want %d", len(chunks), tt.wantChunks)
			}

			var joined []byte
			for _, c := range chunks {
				if len(c) > tt.max {
					t.Errorf("chunk of %d bytes exceeds max %d", len(c), tt.max)
				}
				joined = append(joined, c...)
			}
			if !bytes.Equal(joined, payload) {
				t.Error("joined chunks differ from payload")
			}
		})
	}
}

func TestSplitEmpty(t *testing.T) {
	if got := Split(nil, 100); got != nil {
		t.Errorf("Split(nil) = %v, want nil", got)
	}
	if got := Split([]byte{0x01}, 0); got != nil {
		t.Errorf("Split with max=0 = %v, want nil", got)
	}
}

func TestBlockTypeString(t *testing.T) {
	tests := []struct {
		block BlockType
		want  string
	}{
		{BlockData, "DATA"},
		{BlockCommand, "COMMAND"},
		{BlockResponse, "RESPONSE"},
		{BlockType(0x00), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.block.String(); got != tt.want {
			t.Errorf("BlockType(0x%02X).String() = %q, want %q", uint8(tt.block), got, tt.want)
		}
	}
}

func BenchmarkDataFrame(b *testing.B) {
	payload := bytes.Repeat([]byte{0x7F}, 8*8*3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DataFrame(0, 1, payload); err != nil {
			b.Fatal(err)
		}
	}
}
