package pattern

import (
	"math"

	"github.com/tpm2net/tpm2net-go/pkg/output"
)

// Geometry describes the wall a source renders for: identical panels
// side by side, left to right.
type Geometry struct {
	PanelWidth  int
	PanelHeight int
	PanelCount  int
}

// WallWidth returns the total wall width in pixels.
func (g Geometry) WallWidth() int {
	return g.PanelWidth * g.PanelCount
}

// PanelPixels returns the pixel count of one panel.
func (g Geometry) PanelPixels() int {
	return g.PanelWidth * g.PanelHeight
}

// panelSlice extracts one panel's row-major buffer from a wall-sized
// row-major buffer.
func (g Geometry) panelSlice(wall []uint32, index int) []uint32 {
	dst := make([]uint32, g.PanelPixels())
	wallW := g.WallWidth()
	x0 := index * g.PanelWidth
	for y := 0; y < g.PanelHeight; y++ {
		copy(dst[y*g.PanelWidth:(y+1)*g.PanelWidth], wall[y*wallW+x0:y*wallW+x0+g.PanelWidth])
	}
	return dst
}

// Solid fills every panel with a single color.
type Solid struct {
	geom  Geometry
	color uint32
}

// NewSolid creates a solid source with a 0xRRGGBB color.
func NewSolid(geom Geometry, color uint32) *Solid {
	return &Solid{geom: geom, color: color}
}

// SetColor changes the fill color for subsequent frames.
func (s *Solid) SetColor(color uint32) {
	s.color = color
}

// PanelBuffer returns the panel filled with the current color.
func (s *Solid) PanelBuffer(index int) []uint32 {
	buf := make([]uint32, s.geom.PanelPixels())
	for i := range buf {
		buf[i] = s.color
	}
	return buf
}

// Gradient blends horizontally from one color to another across the
// whole wall.
type Gradient struct {
	geom Geometry
	from uint32
	to   uint32
}

// NewGradient creates a horizontal gradient source between two
// 0xRRGGBB colors.
func NewGradient(geom Geometry, from, to uint32) *Gradient {
	return &Gradient{geom: geom, from: from, to: to}
}

// PanelBuffer returns the panel's slice of the wall gradient.
func (g *Gradient) PanelBuffer(index int) []uint32 {
	wallW := g.geom.WallWidth()
	buf := make([]uint32, g.geom.PanelPixels())
	for y := 0; y < g.geom.PanelHeight; y++ {
		for x := 0; x < g.geom.PanelWidth; x++ {
			wx := index*g.geom.PanelWidth + x
			t := 0.0
			if wallW > 1 {
				t = float64(wx) / float64(wallW-1)
			}
			buf[y*g.geom.PanelWidth+x] = lerpColor(g.from, g.to, t)
		}
	}
	return buf
}

// Rainbow cycles hue across the wall. Advance steps the animation;
// PanelBuffer does not mutate state, so repeated calls within one
// update cycle see the same frame.
type Rainbow struct {
	geom  Geometry
	phase float64
	step  float64
}

// NewRainbow creates a rainbow source. step is the phase increment
// per Advance; zero selects a slow default.
func NewRainbow(geom Geometry, step float64) *Rainbow {
	if step == 0 {
		step = 0.01
	}
	return &Rainbow{geom: geom, step: step}
}

// Advance moves the animation forward one frame.
func (r *Rainbow) Advance() {
	r.phase = math.Mod(r.phase+r.step, 1.0)
}

// PanelBuffer returns the panel's slice of the current rainbow frame.
func (r *Rainbow) PanelBuffer(index int) []uint32 {
	wallW := r.geom.WallWidth()
	buf := make([]uint32, r.geom.PanelPixels())
	for y := 0; y < r.geom.PanelHeight; y++ {
		for x := 0; x < r.geom.PanelWidth; x++ {
			wx := index*r.geom.PanelWidth + x
			h := math.Mod(float64(wx)/float64(wallW)+r.phase, 1.0)
			buf[y*r.geom.PanelWidth+x] = hsvToColor(h, 1.0, 1.0)
		}
	}
	return buf
}

// Stripes draws vertical color bands that shift one pixel per
// Advance.
type Stripes struct {
	geom   Geometry
	colors []uint32
	width  int
	offset int
}

// NewStripes creates a striped source. width is the band width in
// pixels (minimum 1). An empty color list falls back to white/black.
func NewStripes(geom Geometry, colors []uint32, width int) *Stripes {
	if len(colors) == 0 {
		colors = []uint32{0xFFFFFF, 0x000000}
	}
	if width < 1 {
		width = 1
	}
	return &Stripes{geom: geom, colors: colors, width: width}
}

// Advance shifts the stripes one pixel to the right.
func (s *Stripes) Advance() {
	s.offset = (s.offset + 1) % (s.width * len(s.colors))
}

// PanelBuffer returns the panel's slice of the current stripe frame.
func (s *Stripes) PanelBuffer(index int) []uint32 {
	buf := make([]uint32, s.geom.PanelPixels())
	for y := 0; y < s.geom.PanelHeight; y++ {
		for x := 0; x < s.geom.PanelWidth; x++ {
			wx := index*s.geom.PanelWidth + x
			band := ((wx + s.offset) / s.width) % len(s.colors)
			buf[y*s.geom.PanelWidth+x] = s.colors[band]
		}
	}
	return buf
}

// lerpColor blends two 0xRRGGBB colors channel-wise. t is clamped to
// [0, 1].
func lerpColor(from, to uint32, t float64) uint32 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	lerp := func(a, b uint32) uint32 {
		return uint32(float64(a) + (float64(b)-float64(a))*t)
	}
	r := lerp(from>>16&0xFF, to>>16&0xFF)
	g := lerp(from>>8&0xFF, to>>8&0xFF)
	b := lerp(from&0xFF, to&0xFF)
	return r<<16 | g<<8 | b
}

// hsvToColor converts HSV (each in [0, 1]) to a 0xRRGGBB pixel.
func hsvToColor(h, s, v float64) uint32 {
	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - f*s)
	t := v * (1.0 - (1.0-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return uint32(r*255)<<16 | uint32(g*255)<<8 | uint32(b*255)
}

// Compile-time interface satisfaction checks.
var (
	_ output.FrameSource = (*Solid)(nil)
	_ output.FrameSource = (*Gradient)(nil)
	_ output.FrameSource = (*Rainbow)(nil)
	_ output.FrameSource = (*Stripes)(nil)
)
