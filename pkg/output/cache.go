package output

import "bytes"

// FrameCache remembers the last transmitted byte buffer per panel and
// decides whether a freshly transformed buffer needs to be sent again.
// Unchanged panels are common on mostly-static displays and skipping
// them reduces network load on the receiving hardware.
type FrameCache struct {
	last map[int][]byte
}

// NewFrameCache creates an empty cache.
func NewFrameCache() *FrameCache {
	return &FrameCache{last: make(map[int][]byte)}
}

// Changed reports whether buf differs from the last buffer seen for
// the panel. The first call for a panel always reports true. Buffers
// of different length always count as changed. When a change is
// detected the cache stores its own copy of buf, so the caller may
// reuse the slice.
func (c *FrameCache) Changed(panel int, buf []byte) bool {
	prev, ok := c.last[panel]
	if ok && bytes.Equal(prev, buf) {
		return false
	}
	c.last[panel] = append([]byte(nil), buf...)
	return true
}

// Reset forgets all stored buffers. The next Changed call for every
// panel reports true.
func (c *FrameCache) Reset() {
	c.last = make(map[int][]byte)
}

// Len returns the number of panels with a stored buffer.
func (c *FrameCache) Len() int {
	return len(c.last)
}
