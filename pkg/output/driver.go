package output

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tpm2net/tpm2net-go/pkg/log"
	"github.com/tpm2net/tpm2net-go/pkg/tpm2"
)

// Driver state names used in protocol log events.
const (
	stateUninitialized = "uninitialized"
	stateReady         = "ready"
	stateClosed        = "closed"
)

// Construction errors.
var (
	// ErrNilTransport indicates a nil transport collaborator.
	ErrNilTransport = errors.New("transport is nil")

	// ErrNilSource indicates a nil frame source collaborator.
	ErrNilSource = errors.New("frame source is nil")
)

// Driver streams per-panel pixel data as TPM2.net packets over an
// injected transport.
//
// Driver is not safe for concurrent use: Update and Close must be
// called from a single goroutine.
type Driver struct {
	cfg       Config
	transport Transport
	source    FrameSource
	cache     *FrameCache
	logger    log.Logger

	initialized bool
	closed      bool
	errorCount  uint64
}

// New creates a Driver and initializes its transport. A configuration
// error (bad geometry, out-of-range order or mapping entries, nil
// collaborators) fails construction. A transport initialization
// failure does not: the driver is returned permanently uninitialized,
// the failure is logged once, and every Update is a no-op. Retrying
// requires constructing a fresh driver.
func New(cfg Config, tr Transport, src FrameSource) (*Driver, error) {
	if tr == nil {
		return nil, ErrNilTransport
	}
	if src == nil {
		return nil, ErrNilSource
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.TargetPort == 0 {
		cfg.TargetPort = tpm2.NetPort
	}
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}

	d := &Driver{
		cfg:       cfg,
		transport: tr,
		source:    src,
		cache:     NewFrameCache(),
		logger:    cfg.Logger,
	}

	if err := tr.Initialize(cfg.TargetHost, cfg.TargetPort); err != nil {
		d.logError(err, fmt.Sprintf("initialize %s:%d", cfg.TargetHost, cfg.TargetPort))
		return d, nil
	}

	d.initialized = true
	d.logState(stateUninitialized, stateReady, "target resolved")
	return d, nil
}

// Update runs one output cycle: for each panel in display order it
// pulls the raw buffer, transforms it, and sends a TPM2.net data
// packet if the bytes changed since the last send. The packet number
// is the display offset and the total-packets byte is the panel
// count. Send failures increment the error counter and processing
// continues with the remaining panels. Update is a no-op while the
// driver is uninitialized or after Close.
func (d *Driver) Update() {
	if !d.initialized || d.closed {
		return
	}

	total := uint8(len(d.cfg.Order))
	for ofs, panelNr := range d.cfg.Order {
		packed := transformPanel(&d.cfg, panelNr, d.source.PanelBuffer(ofs))

		changed := d.cache.Changed(ofs, packed)
		d.logCache(ofs, changed, len(packed))
		if !changed {
			continue
		}

		packet, err := tpm2.DataFrame(uint8(ofs), total, packed)
		if err != nil {
			d.errorCount++
			d.logError(err, fmt.Sprintf("frame panel %d", ofs))
			continue
		}
		if err := d.transport.Send(packet); err != nil {
			d.errorCount++
			d.logError(err, fmt.Sprintf("send panel %d", ofs))
		}
	}
}

// IsConnected reports whether the driver is ready to send.
func (d *Driver) IsConnected() bool {
	return d.initialized && !d.closed
}

// ConnectionStatus returns a human-readable connection summary.
func (d *Driver) ConnectionStatus() string {
	if !d.IsConnected() {
		return "Not connected!"
	}
	return fmt.Sprintf("Target IP %s:%d", d.cfg.TargetHost, d.cfg.TargetPort)
}

// ErrorCount returns the cumulative number of send failures since
// construction.
func (d *Driver) ErrorCount() uint64 {
	return d.errorCount
}

// ID returns the driver instance identifier used in protocol logs.
func (d *Driver) ID() string {
	return d.cfg.ID
}

// Close releases the transport. It is safe to call multiple times;
// subsequent Update calls are no-ops.
func (d *Driver) Close() error {
	if d.closed {
		return nil
	}
	old := stateUninitialized
	if d.initialized {
		old = stateReady
	}
	d.closed = true
	d.logState(old, stateClosed, "")
	return d.transport.Close()
}

func (d *Driver) logState(old, newState, reason string) {
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		DriverID:  d.cfg.ID,
		Direction: log.DirectionOut,
		Layer:     log.LayerDriver,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: old,
			NewState: newState,
			Reason:   reason,
		},
	})
}

func (d *Driver) logCache(panel int, changed bool, size int) {
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		DriverID:  d.cfg.ID,
		Direction: log.DirectionOut,
		Layer:     log.LayerProtocol,
		Category:  log.CategoryCache,
		Cache: &log.CacheEvent{
			Panel:   panel,
			Changed: changed,
			Size:    size,
		},
	})
}

func (d *Driver) logError(err error, context string) {
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		DriverID:  d.cfg.ID,
		Direction: log.DirectionOut,
		Layer:     log.LayerDriver,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerDriver,
			Message: err.Error(),
			Context: context,
		},
	})
}
