package output

import "github.com/tpm2net/tpm2net-go/pkg/pixmap"

// transformPanel runs one panel's raw buffer through the transform
// pipeline: orientation, then snake flip or manual mapping, then
// color packing. Snake cabling takes priority over a configured
// mapping table.
func transformPanel(cfg *Config, panelNr int, buf []uint32) []byte {
	px := pixmap.Transform(buf, cfg.Panels[panelNr].Orientation, cfg.PanelWidth, cfg.PanelHeight)
	if cfg.Snake {
		px = pixmap.FlipSecondScanline(px, cfg.PanelWidth, cfg.PanelHeight)
	} else if len(cfg.Mapping) > 0 {
		px = pixmap.ApplyMapping(px, cfg.Mapping)
	}
	return pixmap.Pack(px, cfg.Panels[panelNr].ColorOrder)
}
