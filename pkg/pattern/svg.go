package pattern

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/tpm2net/tpm2net-go/pkg/output"
)

// SVG rasterizes a vector image to wall size once at construction and
// serves per-panel slices of the result. The rendered frame is
// static, which makes it a natural fit for the driver's change
// suppression: after the first update nothing is resent.
type SVG struct {
	geom Geometry
	wall []uint32
}

// NewSVGFromFile loads and renders an SVG file.
func NewSVGFromFile(geom Geometry, path string) (*SVG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewSVG(geom, f)
}

// NewSVG renders SVG markup from r, scaled to the wall dimensions.
func NewSVG(geom Geometry, r io.Reader) (*SVG, error) {
	if geom.PanelWidth <= 0 || geom.PanelHeight <= 0 || geom.PanelCount <= 0 {
		return nil, fmt.Errorf("invalid wall geometry %dx%d x%d panels",
			geom.PanelWidth, geom.PanelHeight, geom.PanelCount)
	}

	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}

	w, h := geom.WallWidth(), geom.PanelHeight
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	wall := make([]uint32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := img.PixOffset(x, y)
			wall[y*w+x] = uint32(img.Pix[o])<<16 | uint32(img.Pix[o+1])<<8 | uint32(img.Pix[o+2])
		}
	}

	return &SVG{geom: geom, wall: wall}, nil
}

// PanelBuffer returns the panel's slice of the rendered image.
func (s *SVG) PanelBuffer(index int) []uint32 {
	return s.geom.panelSlice(s.wall, index)
}

// Compile-time interface satisfaction check.
var _ output.FrameSource = (*SVG)(nil)
