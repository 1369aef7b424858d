package log

// Logger receives the protocol events a driver or receiver emits:
// wire packets, change-detection decisions, state transitions, and
// errors. Pass nil or NoopLogger to disable logging.
type Logger interface {
	// Log records one event. Implementations must be safe for
	// concurrent use; drivers call Log from their update path, so
	// implementations should return quickly or queue.
	Log(event Event)
}

// NoopLogger discards all events. Use when logging is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}
