package pixmap

import (
	"reflect"
	"testing"
)

func TestFlipSecondScanline(t *testing.T) {
	// 3x4 grid, odd rows reversed.
	src := []uint32{
		0, 1, 2,
		3, 4, 5,
		6, 7, 8,
		9, 10, 11,
	}
	want := []uint32{
		0, 1, 2,
		5, 4, 3,
		6, 7, 8,
		11, 10, 9,
	}

	got := FlipSecondScanline(src, 3, 4)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FlipSecondScanline = %v, want %v", got, want)
	}
}

func TestFlipSecondScanlineInvolution(t *testing.T) {
	src := make([]uint32, 8*8)
	for i := range src {
		src[i] = uint32(i)
	}

	got := FlipSecondScanline(FlipSecondScanline(src, 8, 8), 8, 8)
	if !reflect.DeepEqual(got, src) {
		t.Error("applying the flip twice did not restore the buffer")
	}
}

func TestFlipSecondScanlineDoesNotMutateSource(t *testing.T) {
	src := []uint32{0, 1, 2, 3, 4, 5}
	FlipSecondScanline(src, 3, 2)
	if !reflect.DeepEqual(src, []uint32{0, 1, 2, 3, 4, 5}) {
		t.Error("FlipSecondScanline mutated its source buffer")
	}
}

func TestApplyMapping(t *testing.T) {
	src := []uint32{10, 20, 30, 40}

	tests := []struct {
		name    string
		mapping []int
		want    []uint32
	}{
		{name: "identity", mapping: []int{0, 1, 2, 3}, want: []uint32{10, 20, 30, 40}},
		{name: "reversed", mapping: []int{3, 2, 1, 0}, want: []uint32{40, 30, 20, 10}},
		{name: "duplicate source", mapping: []int{0, 0, 3, 3}, want: []uint32{10, 10, 40, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyMapping(src, tt.mapping)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ApplyMapping = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyMappingEmpty(t *testing.T) {
	src := []uint32{1, 2, 3}
	got := ApplyMapping(src, nil)
	if !reflect.DeepEqual(got, src) {
		t.Errorf("ApplyMapping with empty table = %v, want %v", got, src)
	}
}
