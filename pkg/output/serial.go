package output

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tpm2net/tpm2net-go/pkg/log"
	"github.com/tpm2net/tpm2net-go/pkg/tpm2"
)

// SerialDriver streams the whole wall as a single TPM2 serial frame
// per update. The serial protocol variant carries no packet counters,
// so all panels are concatenated in display order into one payload.
//
// Like Driver, it is not safe for concurrent use.
type SerialDriver struct {
	cfg        Config
	port       SerialPort
	source     FrameSource
	cache      *FrameCache
	logger     log.Logger
	deviceName string

	closed     bool
	errorCount uint64
}

// NewSerial creates a SerialDriver writing to an already-open serial
// port. deviceName is used only for status reporting.
func NewSerial(cfg Config, port SerialPort, deviceName string, src FrameSource) (*SerialDriver, error) {
	if port == nil {
		return nil, ErrNilTransport
	}
	if src == nil {
		return nil, ErrNilSource
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if pixels := cfg.PanelWidth * cfg.PanelHeight; pixels*3*len(cfg.Order) > tpm2.MaxPayload {
		return nil, fmt.Errorf("%w: %d panels of %d pixels exceed one serial frame",
			ErrBadGeometry, len(cfg.Order), pixels)
	}

	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}

	d := &SerialDriver{
		cfg:        cfg,
		port:       port,
		source:     src,
		cache:      NewFrameCache(),
		logger:     cfg.Logger,
		deviceName: deviceName,
	}
	d.logState(stateUninitialized, stateReady, "port open")
	return d, nil
}

// Update transforms every panel, concatenates the packed bytes in
// display order, and writes one serial frame if anything changed.
// Write failures increment the error counter. No-op after Close.
func (d *SerialDriver) Update() {
	if d.closed {
		return
	}

	payload := make([]byte, 0, len(d.cfg.Order)*d.cfg.PanelWidth*d.cfg.PanelHeight*3)
	for ofs, panelNr := range d.cfg.Order {
		payload = append(payload, transformPanel(&d.cfg, panelNr, d.source.PanelBuffer(ofs))...)
	}

	changed := d.cache.Changed(0, payload)
	d.logCache(changed, len(payload))
	if !changed {
		return
	}

	frame, err := tpm2.SerialFrame(payload)
	if err != nil {
		d.errorCount++
		d.logError(err, "frame")
		return
	}
	if _, err := d.port.Write(frame); err != nil {
		d.errorCount++
		d.logError(err, "write")
		return
	}
	if err := d.port.Flush(); err != nil {
		d.errorCount++
		d.logError(err, "flush")
	}
}

// IsConnected reports whether the port is still open.
func (d *SerialDriver) IsConnected() bool {
	return !d.closed
}

// ConnectionStatus returns a human-readable connection summary.
func (d *SerialDriver) ConnectionStatus() string {
	if d.closed {
		return "Not connected!"
	}
	return fmt.Sprintf("Serial port %s", d.deviceName)
}

// ErrorCount returns the cumulative number of write failures since
// construction.
func (d *SerialDriver) ErrorCount() uint64 {
	return d.errorCount
}

// Close closes the serial port. Safe to call multiple times.
func (d *SerialDriver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.logState(stateReady, stateClosed, "")
	return d.port.Close()
}

func (d *SerialDriver) logState(old, newState, reason string) {
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

func (d *SerialDriver) logCache(changed bool, size int) {
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		DriverID:  d.cfg.ID,
		Direction: log.DirectionOut,
		Layer:     log.LayerProtocol,
		Category:  log.CategoryCache,
		Cache: &log.CacheEvent{
			Panel:   0,
			Changed: changed,
			Size:    size,
		},
	})
}

func (d *SerialDriver) logError(err error, context string) {
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
