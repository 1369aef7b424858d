package monitor

import (
	"sync"

	"github.com/tpm2net/tpm2net-go/pkg/tpm2"
)

// CompleteFrame is one fully received logical frame: the payloads of
// all its packets in packet-number order. For the panel driver's
// one-packet-per-panel scheme each payload is one panel's pixel data.
type CompleteFrame struct {
	// Source identifies the sender (remote address string).
	Source string

	// Payloads holds the packet payloads indexed by packet number.
	Payloads [][]byte
}

// Pixels returns all payloads concatenated in packet order.
func (f *CompleteFrame) Pixels() []byte {
	size := 0
	for _, p := range f.Payloads {
		size += len(p)
	}
	out := make([]byte, 0, size)
	for _, p := range f.Payloads {
		out = append(out, p...)
	}
	return out
}

// pending tracks a partially received logical frame.
type pending struct {
	total    uint8
	payloads [][]byte
	received int
}

// Reassembler collects TPM2.net data packets into logical frames,
// tracked independently per source address. A packet whose
// total-packets byte disagrees with the packets collected so far
// discards the partial frame and starts over; UDP loss therefore
// costs at most one logical frame.
//
// Reassembler is safe for concurrent use.
type Reassembler struct {
	mu      sync.Mutex
	sources map[string]*pending
}

// NewReassembler creates an empty Reassembler.
func NewReassembler() *Reassembler {
	return &Reassembler{sources: make(map[string]*pending)}
}

// Add feeds one parsed data frame. It returns the completed logical
// frame when this packet was the last missing piece, nil otherwise.
// Non-data frames are ignored.
func (r *Reassembler) Add(source string, frame tpm2.Frame) *CompleteFrame {
	if frame.Type != tpm2.BlockData || frame.TotalPackets == 0 {
		return nil
	}
	if frame.PacketNumber >= frame.TotalPackets {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.sources[source]
	if !ok || p.total != frame.TotalPackets {
		p = &pending{
			total:    frame.TotalPackets,
			payloads: make([][]byte, frame.TotalPackets),
		}
		r.sources[source] = p
	}

	idx := int(frame.PacketNumber)
	if p.payloads[idx] == nil {
		p.received++
	}
	p.payloads[idx] = append([]byte(nil), frame.Payload...)

	if p.received < int(p.total) {
		return nil
	}

	delete(r.sources, source)
	return &CompleteFrame{Source: source, Payloads: p.payloads}
}

// Reset discards all partial frames.
func (r *Reassembler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = make(map[string]*pending)
}

// PendingSources returns the number of sources with an incomplete
// frame.
func (r *Reassembler) PendingSources() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sources)
}
