package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpm2net/tpm2net-go/pkg/tpm2"
)

func dataFrame(packetNumber, totalPackets uint8, payload []byte) tpm2.Frame {
	return tpm2.Frame{
		Type:         tpm2.BlockData,
		PacketNumber: packetNumber,
		TotalPackets: totalPackets,
		Payload:      payload,
	}
}

func TestReassemblerSinglePacketFrame(t *testing.T) {
	r := NewReassembler()

	complete := r.Add("10.0.0.1:5000", dataFrame(0, 1, []byte{1, 2, 3}))
	require.NotNil(t, complete)
	assert.Equal(t, "10.0.0.1:5000", complete.Source)
	assert.Equal(t, [][]byte{{1, 2, 3}}, complete.Payloads)
	assert.Equal(t, []byte{1, 2, 3}, complete.Pixels())
	assert.Equal(t, 0, r.PendingSources())
}

func TestReassemblerMultiPacketFrame(t *testing.T) {
	r := NewReassembler()

	assert.Nil(t, r.Add("src", dataFrame(1, 3, []byte{0xBB})))
	assert.Nil(t, r.Add("src", dataFrame(0, 3, []byte{0xAA})))
	assert.Equal(t, 1, r.PendingSources())

	complete := r.Add("src", dataFrame(2, 3, []byte{0xCC}))
	require.NotNil(t, complete)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, complete.Pixels())
}

func TestReassemblerIndependentSources(t *testing.T) {
	r := NewReassembler()

	assert.Nil(t, r.Add("a", dataFrame(0, 2, []byte{1})))
	assert.Nil(t, r.Add("b", dataFrame(0, 2, []byte{2})))
	assert.Equal(t, 2, r.PendingSources())

	complete := r.Add("a", dataFrame(1, 2, []byte{3}))
	require.NotNil(t, complete)
	assert.Equal(t, []byte{1, 3}, complete.Pixels())
	assert.Equal(t, 1, r.PendingSources())
}

func TestReassemblerTotalChangeDiscardsPartial(t *testing.T) {
	r := NewReassembler()

	assert.Nil(t, r.Add("src", dataFrame(0, 3, []byte{1})))

	// The sender restarted with a different packet count; the stale
	// partial frame must not leak into the new one.
	assert.Nil(t, r.Add("src", dataFrame(0, 2, []byte{9})))
	complete := r.Add("src", dataFrame(1, 2, []byte{8}))
	require.NotNil(t, complete)
	assert.Equal(t, []byte{9, 8}, complete.Pixels())
}

func TestReassemblerDuplicatePacket(t *testing.T) {
	r := NewReassembler()

	assert.Nil(t, r.Add("src", dataFrame(0, 2, []byte{1})))
	assert.Nil(t, r.Add("src", dataFrame(0, 2, []byte{7})), "duplicate must not complete the frame")

	complete := r.Add("src", dataFrame(1, 2, []byte{2}))
	require.NotNil(t, complete)
	assert.Equal(t, []byte{7, 2}, complete.Pixels(), "latest duplicate wins")
}

func TestReassemblerIgnoresNonData(t *testing.T) {
	r := NewReassembler()

	cmd := tpm2.Frame{Type: tpm2.BlockCommand, TotalPackets: 1, Payload: []byte{1}}
	assert.Nil(t, r.Add("src", cmd))
	assert.Equal(t, 0, r.PendingSources())
}

func TestReassemblerIgnoresOutOfRangePacketNumber(t *testing.T) {
	r := NewReassembler()

	assert.Nil(t, r.Add("src", dataFrame(2, 2, []byte{1})))
	assert.Equal(t, 0, r.PendingSources())
}

func TestReassemblerReset(t *testing.T) {
	r := NewReassembler()

	r.Add("src", dataFrame(0, 2, []byte{1}))
	r.Reset()
	assert.Equal(t, 0, r.PendingSources())
}

func TestReassemblerCopiesPayload(t *testing.T) {
	r := NewReassembler()

	payload := []byte{1, 2, 3}
	r.Add("src", dataFrame(0, 2, payload))
	payload[0] = 0xFF

	complete := r.Add("src", dataFrame(1, 2, []byte{4}))
	require.NotNil(t, complete)
	assert.Equal(t, byte(1), complete.Payloads[0][0], "reassembler must store its own copy")
}
