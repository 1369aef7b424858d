package pixmap

import (
	"fmt"
	"strings"
)

// Orientation describes how a panel is physically mounted relative to
// the rendered image. Rotations are clockwise.
type Orientation uint8

const (
	// NoRotate leaves the buffer unchanged.
	NoRotate Orientation = 0

	// Rotate90 rotates the buffer 90 degrees clockwise.
	// Width and height swap.
	Rotate90 Orientation = 1

	// Rotate90FlippedY rotates 90 degrees clockwise, then mirrors
	// vertically.
	Rotate90FlippedY Orientation = 2

	// Rotate180 rotates the buffer 180 degrees.
	Rotate180 Orientation = 3

	// Rotate180FlippedY rotates 180 degrees, then mirrors vertically.
	Rotate180FlippedY Orientation = 4

	// Rotate270 rotates the buffer 270 degrees clockwise.
	// Width and height swap.
	Rotate270 Orientation = 5

	// FlippedY mirrors the buffer vertically (reverses row order).
	FlippedY Orientation = 6
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case NoRotate:
		return "NO_ROTATE"
	case Rotate90:
		return "ROTATE_90"
	case Rotate90FlippedY:
		return "ROTATE_90_FLIPPED_Y"
	case Rotate180:
		return "ROTATE_180"
	case Rotate180FlippedY:
		return "ROTATE_180_FLIPPED_Y"
	case Rotate270:
		return "ROTATE_270"
	case FlippedY:
		return "FLIPPED_Y"
	default:
		return "UNKNOWN"
	}
}

// Valid returns true for a known orientation value.
func (o Orientation) Valid() bool {
	return o <= FlippedY
}

// ParseOrientation parses an orientation name (case-insensitive).
// Accepted names match the configuration file format: "no-rotate",
// "rotate-90", "rotate-90-flipped-y", "rotate-180",
// "rotate-180-flipped-y", "rotate-270", "flipped-y".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "no-rotate", "":
		return NoRotate, nil
	case "rotate-90":
		return Rotate90, nil
	case "rotate-90-flipped-y":
		return Rotate90FlippedY, nil
	case "rotate-180":
		return Rotate180, nil
	case "rotate-180-flipped-y":
		return Rotate180FlippedY, nil
	case "rotate-270":
		return Rotate270, nil
	case "flipped-y":
		return FlippedY, nil
	default:
		return 0, fmt.Errorf("invalid orientation: %s (must be no-rotate, rotate-90, rotate-90-flipped-y, rotate-180, rotate-180-flipped-y, rotate-270, or flipped-y)", s)
	}
}

// Transform remaps src according to the orientation. src is row-major
// with the given width and height and is never mutated. For Rotate90
// and Rotate270 variants the result's width is the input height and
// vice versa. NoRotate returns src unchanged without copying.
func Transform(src []uint32, o Orientation, width, height int) []uint32 {
	switch o {
	case Rotate90:
		return rotate90(src, width, height)
	case Rotate90FlippedY:
		return flipY(rotate90(src, width, height), height, width)
	case Rotate180:
		return rotate180(src)
	case Rotate180FlippedY:
		return flipY(rotate180(src), width, height)
	case Rotate270:
		return rotate270(src, width, height)
	case FlippedY:
		return flipY(src, width, height)
	default:
		return src
	}
}

// rotate90 rotates clockwise. The result is row-major with width
// height and height width.
func rotate90(src []uint32, width, height int) []uint32 {
	dst := make([]uint32, len(src))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dst[x*height+(height-1-y)] = src[y*width+x]
		}
	}
	return dst
}

func rotate180(src []uint32) []uint32 {
	dst := make([]uint32, len(src))
	for i, v := range src {
		dst[len(src)-1-i] = v
	}
	return dst
}

// rotate270 rotates counterclockwise. The result is row-major with
// width height and height width.
func rotate270(src []uint32, width, height int) []uint32 {
	dst := make([]uint32, len(src))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dst[(width-1-x)*height+y] = src[y*width+x]
		}
	}
	return dst
}

func flipY(src []uint32, width, height int) []uint32 {
	dst := make([]uint32, len(src))
	for y := 0; y < height; y++ {
		copy(dst[(height-1-y)*width:(height-y)*width], src[y*width:(y+1)*width])
	}
	return dst
}
