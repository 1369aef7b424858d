package output

// Transport delivers framed packets to the target hardware.
// Implemented by transport.UDP.
type Transport interface {
	// Initialize resolves the target address and opens the connection.
	Initialize(host string, port int) error

	// Send transmits one framed packet.
	Send(packet []byte) error

	// Close releases the connection.
	Close() error
}

// FrameSource produces the raw pixel buffer for each panel, called
// once per panel per update cycle.
type FrameSource interface {
	// PanelBuffer returns the 0xRRGGBB pixel buffer for the panel at
	// the given display offset. The driver borrows the slice for the
	// duration of one Update call and never retains it.
	PanelBuffer(index int) []uint32
}

// FrameSourceFunc adapts a function to the FrameSource interface.
type FrameSourceFunc func(index int) []uint32

// PanelBuffer calls f(index).
func (f FrameSourceFunc) PanelBuffer(index int) []uint32 {
	return f(index)
}

// SerialPort is the writable serial device consumed by SerialDriver.
// Implemented by transport.Serial and *serial.Port.
type SerialPort interface {
	// Write writes raw bytes to the port.
	Write(p []byte) (int, error)

	// Flush discards unwritten buffered data.
	Flush() error

	// Close closes the port.
	Close() error
}

// Compile-time interface satisfaction checks.
var _ FrameSource = FrameSourceFunc(nil)
