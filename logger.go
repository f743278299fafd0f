// Package logbridge defines a structured-logging bridge that turns typed
// application log calls into a bounded sequence of primitive writes against an
// external log recorder.
//
// The package provides the shared vocabulary used by every other package:
// - Severity levels, including the threshold-only Off value
// - Fixed-width context tags (at most 4 ASCII bytes)
// - Typed values with an optional display hint (plain, hex, binary)
// - The Logger interface application code logs through
// - Configuration for the bridge and the bundled reference recorders
// - The process-wide default logger
//
// Concrete implementations live in pkg/bridge (the bridge itself) and
// pkg/recorder (the recorder boundary and reference recorders).
//
// Basic usage:
//
//	rec, err := textrec.New(logbridge.DefaultConfig())
//	if err != nil {
//		panic(err)
//	}
//
//	err = recorder.Install(rec)
//	if err != nil {
//		panic(err)
//	}
//
//	log := bridge.NewBuilder().Context("APP").Build()
//	log.Info("listening on port {}", logbridge.Uint16(8080))
//	log.Warn("status register {:b}", logbridge.Uint8(0x5a))
//
// Records are handed to the recorder synchronously when each call returns, so
// Flush is a no-op kept for interface compatibility.
package logbridge

// Logger is the leveled, contextual entry point application code logs through.
type Logger interface {
	// Typed log methods. The format uses {} / {:x} / {:b} placeholders.
	Trace(format string, args ...Value)
	Debug(format string, args ...Value)
	Info(format string, args ...Value)
	Warn(format string, args ...Value)
	Error(format string, args ...Value)
	Fatal(format string, args ...Value)

	// Formatted log methods
	FormattedLogger

	Methods
}

// Methods defines the non-logging part of the Logger interface.
type Methods interface {
	// Log writes a typed record at the given level.
	Log(level Level, format string, args ...Value)
	// Logf writes a printf-style record at the given level.
	Logf(level Level, format string, args ...any)
	// Enabled reports whether a record at level would be accepted for the
	// logger's context. Use it to skip expensive argument preparation.
	Enabled(level Level) bool
	// WithContext returns a logger that tags records with a different context.
	WithContext(context string) Logger
	// Context returns the context tag records are written under.
	Context() Context
	// Flush is a no-op: records are persisted when they are closed.
	Flush() error
}

// FormattedLogger defines the printf-style logging methods. The message is
// formatted into a bounded buffer and truncated at a character boundary when
// it does not fit.
type FormattedLogger interface {
	// Tracef logs a message at the Trace level
	Tracef(format string, args ...any)
	// Debugf logs a message at the Debug level
	Debugf(format string, args ...any)
	// Infof logs a message at the Info level
	Infof(format string, args ...any)
	// Warnf logs a message at the Warn level
	Warnf(format string, args ...any)
	// Errorf logs a message at the Error level
	Errorf(format string, args ...any)
	// Fatalf logs a message at the Fatal level
	Fatalf(format string, args ...any)
}
