// Package config loads and stores wall configuration files. A wall
// file describes one chained LED display: target address, panel
// geometry, display order, cabling, and per-panel settings. Parsed
// configurations convert into the immutable driver configuration
// consumed by pkg/output.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tpm2net/tpm2net-go/pkg/output"
	"github.com/tpm2net/tpm2net-go/pkg/pixmap"
	"github.com/tpm2net/tpm2net-go/pkg/tpm2"
)

// Validation errors.
var (
	ErrNoPanels      = errors.New("no panels configured")
	ErrBadGeometry   = errors.New("invalid panel geometry")
	ErrBadOrder      = errors.New("display order entry out of range")
	ErrBadMapping    = errors.New("invalid manual mapping")
	ErrOrderMismatch = errors.New("display order size does not match panel count")
)

// Panel holds per-panel settings in file format. Orientation and
// color order use the names accepted by pixmap.ParseOrientation and
// pixmap.ParseColorOrder.
type Panel struct {
	Orientation string `yaml:"orientation,omitempty"`
	ColorOrder  string `yaml:"color_order,omitempty"`
}

// Wall is one display configuration file.
type Wall struct {
	// Target is the receiver address (IP or hostname).
	Target string `yaml:"target"`

	// Port is the receiver UDP port. Zero selects the TPM2.net
	// default.
	Port int `yaml:"port,omitempty"`

	// SerialDevice selects the serial TPM2 flavor instead of UDP
	// when set (e.g. /dev/ttyACM0).
	SerialDevice string `yaml:"serial_device,omitempty"`

	// SerialBaud is the serial baud rate. Zero selects the
	// transport default.
	SerialBaud int `yaml:"serial_baud,omitempty"`

	// PanelWidth and PanelHeight are the per-panel dimensions in
	// pixels.
	PanelWidth  int `yaml:"panel_width"`
	PanelHeight int `yaml:"panel_height"`

	// Panels holds per-panel settings, indexed by panel number.
	Panels []Panel `yaml:"panels"`

	// Order lists panel numbers in display order. When empty the
	// panels display in configured order.
	Order []int `yaml:"order,omitempty"`

	// Snake reverses every second scan line for snake-cabled
	// panels. Takes priority over Mapping.
	Snake bool `yaml:"snake,omitempty"`

	// Mapping is an optional manual wiring table with one entry
	// per pixel.
	Mapping []int `yaml:"mapping,omitempty"`
}

// Default returns a single-panel 8x8 wall aimed at localhost, the
// smallest configuration that streams somewhere visible.
func Default() *Wall {
	return &Wall{
		Target:      "127.0.0.1",
		Port:        tpm2.NetPort,
		PanelWidth:  8,
		PanelHeight: 8,
		Panels:      []Panel{{Orientation: "no-rotate", ColorOrder: "rgb"}},
	}
}

// Load reads and validates a wall file.
func Load(path string) (*Wall, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var w Wall
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &w, nil
}

// Save writes the wall file atomically: the content goes to a
// temporary file in the target directory which then replaces the
// destination, so a crash mid-write never leaves a truncated file.
func Save(path string, w *Wall) error {
	if err := w.Validate(); err != nil {
		return err
	}

	b, err := yaml.Marshal(w)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".wall-*.yaml")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// Validate checks the wall for configuration errors: geometry, order
// indices, mapping size and entries, and enum names. The driver
// treats these as caller preconditions, so they are enforced here
// where the configuration enters the system.
func (w *Wall) Validate() error {
	if w.PanelWidth <= 0 || w.PanelHeight <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadGeometry, w.PanelWidth, w.PanelHeight)
	}
	if len(w.Panels) == 0 {
		return ErrNoPanels
	}

	for i, p := range w.Panels {
		if _, err := pixmap.ParseOrientation(p.Orientation); err != nil {
			return fmt.Errorf("panel %d: %w", i, err)
		}
		if _, err := pixmap.ParseColorOrder(p.ColorOrder); err != nil {
			return fmt.Errorf("panel %d: %w", i, err)
		}
	}

	if len(w.Order) > 0 {
		if len(w.Order) != len(w.Panels) {
			return fmt.Errorf("%w: %d entries for %d panels", ErrOrderMismatch, len(w.Order), len(w.Panels))
		}
		for i, panelNr := range w.Order {
			if panelNr < 0 || panelNr >= len(w.Panels) {
				return fmt.Errorf("%w: offset %d references panel %d of %d", ErrBadOrder, i, panelNr, len(w.Panels))
			}
		}
	}

	if len(w.Mapping) > 0 {
		pixels := w.PanelWidth * w.PanelHeight
		if len(w.Mapping) != pixels {
			return fmt.Errorf("%w: %d entries for %d pixels", ErrBadMapping, len(w.Mapping), pixels)
		}
		for i, m := range w.Mapping {
			if m < 0 || m >= pixels {
				return fmt.Errorf("%w: entry %d references pixel %d of %d", ErrBadMapping, i, m, pixels)
			}
		}
	}

	return nil
}

// PanelCount returns the number of configured panels.
func (w *Wall) PanelCount() int {
	return len(w.Panels)
}

// DriverConfig converts the wall into the driver configuration. The
// wall must have passed Validate; enum names that fail to parse here
// fall back to their zero values.
func (w *Wall) DriverConfig() output.Config {
	panels := make([]output.PanelConfig, len(w.Panels))
	for i, p := range w.Panels {
		o, _ := pixmap.ParseOrientation(p.Orientation)
		c, _ := pixmap.ParseColorOrder(p.ColorOrder)
		panels[i] = output.PanelConfig{Orientation: o, ColorOrder: c}
	}

	order := w.Order
	if len(order) == 0 {
		order = make([]int, len(w.Panels))
		for i := range order {
			order[i] = i
		}
	}

	return output.Config{
		TargetHost:  w.Target,
		TargetPort:  w.Port,
		PanelWidth:  w.PanelWidth,
		PanelHeight: w.PanelHeight,
		Panels:      panels,
		Order:       append([]int(nil), order...),
		Snake:       w.Snake,
		Mapping:     append([]int(nil), w.Mapping...),
	}
}
