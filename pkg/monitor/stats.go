package monitor

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of the collected statistics.
type Snapshot struct {
	// Packets is the number of valid data packets seen.
	Packets uint64

	// Frames is the number of completed logical frames.
	Frames uint64

	// Bytes is the total payload bytes of valid packets.
	Bytes uint64

	// ParseErrors counts packets that failed to parse.
	ParseErrors uint64

	// Sources is the number of distinct sender addresses seen.
	Sources int

	// Since is when collection started.
	Since time.Time
}

// Stats accumulates traffic counters for a receiver. It is safe for
// concurrent use.
type Stats struct {
	mu          sync.Mutex
	packets     uint64
	frames      uint64
	bytes       uint64
	parseErrors uint64
	sources     map[string]struct{}
	since       time.Time
}

// NewStats creates a Stats collector starting now.
func NewStats() *Stats {
	return &Stats{
		sources: make(map[string]struct{}),
		since:   time.Now(),
	}
}

// CountPacket records one valid data packet from source carrying
// payloadSize payload bytes.
func (s *Stats) CountPacket(source string, payloadSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packets++
	s.bytes += uint64(payloadSize)
	s.sources[source] = struct{}{}
}

// CountFrame records one completed logical frame.
func (s *Stats) CountFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
}

// CountParseError records one malformed packet.
func (s *Stats) CountParseError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parseErrors++
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Packets:     s.packets,
		Frames:      s.frames,
		Bytes:       s.bytes,
		ParseErrors: s.parseErrors,
		Sources:     len(s.sources),
		Since:       s.since,
	}
}
