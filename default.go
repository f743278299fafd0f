package logbridge

import (
	"sync"
	"sync/atomic"

	"github.com/hyp3rd/ewrap"
)

var (
	// ErrDefaultAlreadySet is returned when a second default logger is installed.
	ErrDefaultAlreadySet = ewrap.New("default logger already set")
	// ErrNilLogger is returned when SetDefault is given a nil logger, including
	// a nil pointer behind the Logger interface.
	ErrNilLogger = ewrap.New("default logger is nil")
)

// DepthLogger is implemented by loggers that can attribute a record to a
// caller further up the stack. The package-level helpers use it so caller
// prefixes point at application code.
type DepthLogger interface {
	LogDepth(depth int, level Level, format string, args ...Value)
}

type defaultHolder struct {
	logger Logger
}

//nolint:gochecknoglobals
var (
	defaultLogger atomic.Pointer[defaultHolder]
	defaultMu     sync.Mutex
	noopLogger    = sync.OnceValue(NewNoop)
)

// SetDefault installs the process-wide default logger. It can succeed only
// once per process; later calls return ErrDefaultAlreadySet.
func SetDefault(logger Logger) error {
	if logger == nil || !answers(logger) {
		return ErrNilLogger
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	if current := defaultLogger.Load(); current != nil {
		return ewrap.Wrap(ErrDefaultAlreadySet, "failed to set default logger").
			WithMetadata("context", current.logger.Context().String())
	}

	defaultLogger.Store(&defaultHolder{logger: logger})

	return nil
}

// answers reports whether logger can serve a method call. A nil pointer of a
// concrete logger type panics on Context.
func answers(logger Logger) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	_ = logger.Context()

	return true
}

// Default returns the installed default logger, or a logger that discards
// everything when none was installed.
func Default() Logger {
	if holder := defaultLogger.Load(); holder != nil {
		return holder.logger
	}

	return noopLogger()
}

// HasDefault reports whether a default logger was installed.
func HasDefault() bool {
	return defaultLogger.Load() != nil
}

// ResetDefaultForTesting removes the installed default logger. It exists for
// tests only.
func ResetDefaultForTesting() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLogger.Store(nil)
}

func logDefault(level Level, format string, args []Value) {
	logger := Default()

	if depthLogger, ok := logger.(DepthLogger); ok {
		// skip logDefault and the exported helper
		depthLogger.LogDepth(2, level, format, args...)

		return
	}

	logger.Log(level, format, args...)
}

// Trace logs through the default logger.
func Trace(format string, args ...Value) { logDefault(LevelTrace, format, args) }

// Debug logs through the default logger.
func Debug(format string, args ...Value) { logDefault(LevelDebug, format, args) }

// Info logs through the default logger.
func Info(format string, args ...Value) { logDefault(LevelInfo, format, args) }

// Warn logs through the default logger.
func Warn(format string, args ...Value) { logDefault(LevelWarn, format, args) }

// Error logs through the default logger.
func Error(format string, args ...Value) { logDefault(LevelError, format, args) }

// Fatal logs through the default logger. It does not terminate the process.
func Fatal(format string, args ...Value) { logDefault(LevelFatal, format, args) }
