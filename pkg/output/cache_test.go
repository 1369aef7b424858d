package output

import "testing"

func TestFrameCacheFirstCallChanges(t *testing.T) {
	cache := NewFrameCache()

	if !cache.Changed(0, []byte{1, 2, 3}) {
		t.Error("first call for a panel must report changed")
	}
	if !cache.Changed(7, []byte{}) {
		t.Error("first call must report changed even for an empty buffer")
	}
}

func TestFrameCacheSuppressesIdentical(t *testing.T) {
	cache := NewFrameCache()

	buf := []byte{0xAA, 0xBB, 0xCC}
	cache.Changed(0, buf)

	if cache.Changed(0, []byte{0xAA, 0xBB, 0xCC}) {
		t.Error("identical buffer must not report changed")
	}
	if cache.Changed(0, buf) {
		t.Error("same buffer again must not report changed")
	}
}

func TestFrameCacheDetectsSingleByteChange(t *testing.T) {
	cache := NewFrameCache()

	buf := make([]byte, 192)
	cache.Changed(0, buf)

	modified := make([]byte, 192)
	modified[191] = 0x01
	if !cache.Changed(0, modified) {
		t.Error("single differing byte must report changed")
	}

	// The modified buffer is now the baseline.
	if cache.Changed(0, modified) {
		t.Error("baseline was not replaced after change")
	}
}

func TestFrameCacheLengthChange(t *testing.T) {
	cache := NewFrameCache()

	cache.Changed(0, []byte{1, 2, 3})
	if !cache.Changed(0, []byte{1, 2, 3, 4}) {
		t.Error("longer buffer must report changed")
	}
	if !cache.Changed(0, []byte{1, 2}) {
		t.Error("shorter buffer must report changed")
	}
}

func TestFrameCachePanelsIndependent(t *testing.T) {
	cache := NewFrameCache()

	buf := []byte{1, 2, 3}
	cache.Changed(0, buf)

	// Same bytes for a different panel still count as changed.
	if !cache.Changed(1, buf) {
		t.Error("panels must have independent baselines")
	}

	// Changing panel 1 must not disturb panel 0.
	cache.Changed(1, []byte{9, 9, 9})
	if cache.Changed(0, []byte{1, 2, 3}) {
		t.Error("panel 0 baseline was disturbed by panel 1")
	}
}

func TestFrameCacheStoresOwnCopy(t *testing.T) {
	cache := NewFrameCache()

	buf := []byte{1, 2, 3}
	cache.Changed(0, buf)

	// Mutating the caller's slice must not affect the stored baseline.
	buf[0] = 0xFF
	if cache.Changed(0, []byte{1, 2, 3}) {
		t.Error("cache retained a reference to the caller's buffer")
	}
}

func TestFrameCacheReset(t *testing.T) {
	cache := NewFrameCache()

	cache.Changed(0, []byte{1})
	cache.Changed(1, []byte{2})
	if cache.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cache.Len())
	}

	cache.Reset()
	if cache.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", cache.Len())
	}
	if !cache.Changed(0, []byte{1}) {
		t.Error("first call after Reset must report changed")
	}
}

func BenchmarkFrameCacheChanged(b *testing.B) {
	cache := NewFrameCache()
	buf := make([]byte, 32*32*3)
	cache.Changed(0, buf)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Changed(0, buf)
	}
}
