package transport

import (
	"fmt"

	"github.com/tarm/serial"

	"github.com/tpm2net/tpm2net-go/pkg/output"
)

// DefaultBaud is the serial baud rate used when none is configured.
// Matches the rate common TPM2 firmware ships with.
const DefaultBaud = 115200

// Serial wraps a serial port for the TPM2 serial protocol variant.
type Serial struct {
	port *serial.Port
	name string
}

// OpenSerial opens the named serial device. A baud of 0 selects
// DefaultBaud.
func OpenSerial(device string, baud int) (*Serial, error) {
	if baud == 0 {
		baud = DefaultBaud
	}

	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", device, err)
	}

	return &Serial{port: port, name: device}, nil
}

// Name returns the device path the port was opened with.
func (s *Serial) Name() string {
	return s.name
}

// Write writes raw bytes to the port.
func (s *Serial) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// Flush discards unwritten buffered data.
func (s *Serial) Flush() error {
	return s.port.Flush()
}

// Close closes the port.
func (s *Serial) Close() error {
	return s.port.Close()
}

// Compile-time interface satisfaction check.
var _ output.SerialPort = (*Serial)(nil)
