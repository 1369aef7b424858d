// Package output implements the TPM2.net output driver.
//
// A Driver streams per-panel pixel buffers to remote LED hardware.
// Each update cycle it pulls the raw buffer for every configured
// panel, reshapes it for the panel's physical wiring (see pixmap),
// suppresses panels whose bytes did not change since the last send,
// and transmits one TPM2.net data packet per changed panel through
// an injected Transport.
//
// The driver is constructed around already-validated configuration:
// panel geometry, display order, and per-panel orientation and color
// order are fixed for the driver's lifetime. Send failures increment
// an error counter and are logged but never abort the update cycle
// or change driver state.
//
// A SerialDriver variant streams the whole wall as a single TPM2
// serial frame to a serial port instead.
package output
