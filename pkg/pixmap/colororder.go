package pixmap

import (
	"fmt"
	"strings"
)

// ColorOrder is the channel sequence the receiving hardware expects
// for each pixel.
type ColorOrder uint8

const (
	RGB ColorOrder = 0
	RBG ColorOrder = 1
	GRB ColorOrder = 2
	GBR ColorOrder = 3
	BRG ColorOrder = 4
	BGR ColorOrder = 5
)

// String returns the color order name.
func (c ColorOrder) String() string {
	switch c {
	case RGB:
		return "RGB"
	case RBG:
		return "RBG"
	case GRB:
		return "GRB"
	case GBR:
		return "GBR"
	case BRG:
		return "BRG"
	case BGR:
		return "BGR"
	default:
		return "UNKNOWN"
	}
}

// Valid returns true for a known color order value.
func (c ColorOrder) Valid() bool {
	return c <= BGR
}

// ParseColorOrder parses a color order name (case-insensitive).
func ParseColorOrder(s string) (ColorOrder, error) {
	switch strings.ToLower(s) {
	case "rgb", "":
		return RGB, nil
	case "rbg":
		return RBG, nil
	case "grb":
		return GRB, nil
	case "gbr":
		return GBR, nil
	case "brg":
		return BRG, nil
	case "bgr":
		return BGR, nil
	default:
		return 0, fmt.Errorf("invalid color order: %s (must be rgb, rbg, grb, gbr, brg, or bgr)", s)
	}
}

// Pack expands each 0xRRGGBB pixel into 3 bytes in the given channel
// order. The result has exactly 3*len(src) bytes.
func Pack(src []uint32, order ColorOrder) []byte {
	dst := make([]byte, 0, len(src)*3)
	for _, px := range src {
		r := byte(px >> 16)
		g := byte(px >> 8)
		b := byte(px)
		switch order {
		case RBG:
			dst = append(dst, r, b, g)
		case GRB:
			dst = append(dst, g, r, b)
		case GBR:
			dst = append(dst, g, b, r)
		case BRG:
			dst = append(dst, b, r, g)
		case BGR:
			dst = append(dst, b, g, r)
		default:
			dst = append(dst, r, g, b)
		}
	}
	return dst
}
