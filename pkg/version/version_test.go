package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, Library) {
		t.Errorf("String() = %q, want it to contain %q", s, Library)
	}
	if !strings.Contains(s, "revision 2") {
		t.Errorf("String() = %q, want it to contain the protocol revision", s)
	}
}
