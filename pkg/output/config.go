package output

import (
	"errors"
	"fmt"

	"github.com/tpm2net/tpm2net-go/pkg/log"
	"github.com/tpm2net/tpm2net-go/pkg/pixmap"
	"github.com/tpm2net/tpm2net-go/pkg/tpm2"
)

// Configuration errors.
var (
	// ErrNoPanels indicates an empty display order.
	ErrNoPanels = errors.New("no panels configured")

	// ErrTooManyPanels indicates more panels than the protocol's
	// total-packets byte can express.
	ErrTooManyPanels = errors.New("too many panels")

	// ErrBadGeometry indicates a non-positive panel dimension.
	ErrBadGeometry = errors.New("invalid panel geometry")

	// ErrBadOrder indicates a display order entry outside the
	// configured panel range.
	ErrBadOrder = errors.New("display order entry out of range")

	// ErrBadMapping indicates a manual mapping table whose size or
	// entries do not fit the panel geometry.
	ErrBadMapping = errors.New("invalid manual mapping")
)

// PanelConfig holds the per-panel settings, indexed by panel number.
type PanelConfig struct {
	// Orientation is the panel's physical mounting orientation.
	Orientation pixmap.Orientation

	// ColorOrder is the channel sequence the panel expects.
	ColorOrder pixmap.ColorOrder
}

// Config holds the immutable driver configuration. All fields are
// fixed at construction; the driver never modifies them.
type Config struct {
	// TargetHost is the receiver's address (IP or hostname).
	TargetHost string

	// TargetPort is the receiver's UDP port.
	// Defaults to tpm2.NetPort when zero.
	TargetPort int

	// PanelWidth and PanelHeight are the per-panel dimensions in
	// pixels. All panels share one geometry.
	PanelWidth  int
	PanelHeight int

	// Panels holds per-panel settings, indexed by panel number.
	Panels []PanelConfig

	// Order lists panel numbers in display order: entry i is the
	// panel shown at display offset i. Offsets double as TPM2.net
	// packet numbers.
	Order []int

	// Snake reverses every second scan line for snake-cabled panels.
	// Takes priority over Mapping when both are configured.
	Snake bool

	// Mapping is an optional manual wiring table with one entry per
	// pixel. Ignored when Snake is set.
	Mapping []int

	// ID identifies this driver instance in protocol log events.
	// A random UUID is generated when empty.
	ID string

	// Logger receives protocol events. nil disables protocol logging.
	Logger log.Logger
}

// validate checks the configuration for structural misuse. Geometry,
// order, and mapping consistency are checked once here so the update
// path can index without bounds checks failing.
func (c *Config) validate() error {
	if c.PanelWidth <= 0 || c.PanelHeight <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadGeometry, c.PanelWidth, c.PanelHeight)
	}
	if len(c.Order) == 0 {
		return ErrNoPanels
	}
	if len(c.Order) > 255 {
		return fmt.Errorf("%w: %d > 255", ErrTooManyPanels, len(c.Order))
	}

	pixels := c.PanelWidth * c.PanelHeight
	if pixels*3 > tpm2.MaxPayload {
		return fmt.Errorf("%w: %d pixels exceed one packet", ErrBadGeometry, pixels)
	}

	for i, panelNr := range c.Order {
		if panelNr < 0 || panelNr >= len(c.Panels) {
			return fmt.Errorf("%w: offset %d references panel %d of %d", ErrBadOrder, i, panelNr, len(c.Panels))
		}
	}

	for i, p := range c.Panels {
		if !p.Orientation.Valid() {
			return fmt.Errorf("panel %d: invalid orientation %d", i, p.Orientation)
		}
		if !p.ColorOrder.Valid() {
			return fmt.Errorf("panel %d: invalid color order %d", i, p.ColorOrder)
		}
	}

	if len(c.Mapping) > 0 {
		if len(c.Mapping) != pixels {
			return fmt.Errorf("%w: %d entries for %d pixels", ErrBadMapping, len(c.Mapping), pixels)
		}
		for i, m := range c.Mapping {
			if m < 0 || m >= pixels {
				return fmt.Errorf("%w: entry %d references pixel %d of %d", ErrBadMapping, i, m, pixels)
			}
		}
	}

	return nil
}
