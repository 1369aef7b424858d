// Package log provides structured protocol logging for TPM2.net.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, protocol, driver).
// It is separate from operational logging (zerolog) - protocol capture
// provides a complete machine-readable event trace for debugging and
// analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/tpm2net/wall.tlog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    log.NewFileLogger("/var/log/tpm2net/wall.tlog"),
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: Raw packet bytes (PacketEvent)
//   - Protocol: Change detection decisions (CacheEvent)
//   - Driver: Connection lifecycle (StateChangeEvent)
//
// Errors have a dedicated event type usable at any layer.
//
// # File Format
//
// Log files use CBOR encoding with .tlog extension. The tpm2net-log CLI
// tool provides viewing, filtering, and export capabilities.
package log
