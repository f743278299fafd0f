package bridge

import (
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

var (
	// ErrOffIsNotALevel is raised when Off is used where a record level is required.
	ErrOffIsNotALevel = ewrap.New("off is a threshold, not a record level")
	// ErrUnknownLevel is raised for level values outside the defined range.
	ErrUnknownLevel = ewrap.New("unknown log level")
)

// ToNative maps a record level to the recorder's encoding. Records never
// carry Off, so passing it is a programming error and panics.
func ToNative(level logbridge.Level) recorder.LogLevel {
	switch level {
	case logbridge.LevelFatal:
		return recorder.LevelFatal
	case logbridge.LevelError:
		return recorder.LevelError
	case logbridge.LevelWarn:
		return recorder.LevelWarn
	case logbridge.LevelInfo:
		return recorder.LevelInfo
	case logbridge.LevelDebug:
		return recorder.LevelDebug
	case logbridge.LevelTrace:
		return recorder.LevelVerbose
	case logbridge.LevelOff:
		panic(ewrap.Wrap(ErrOffIsNotALevel, "cannot map level to a record level"))
	default:
		panic(ewrap.Wrap(ErrUnknownLevel, "cannot map level to a record level").
			WithMetadata("level", uint8(level)))
	}
}

// ToThreshold maps a threshold to the recorder's encoding. It is total: Off
// maps to the native Off.
func ToThreshold(level logbridge.Level) recorder.LogLevel {
	if level == logbridge.LevelOff {
		return recorder.LevelOff
	}

	if !level.IsValid() {
		return recorder.LevelVerbose
	}

	return ToNative(level)
}

// FromNative maps a native record level back. It is the inverse of ToNative
// and panics for Off and unknown values.
func FromNative(level recorder.LogLevel) logbridge.Level {
	switch level {
	case recorder.LevelFatal:
		return logbridge.LevelFatal
	case recorder.LevelError:
		return logbridge.LevelError
	case recorder.LevelWarn:
		return logbridge.LevelWarn
	case recorder.LevelInfo:
		return logbridge.LevelInfo
	case recorder.LevelDebug:
		return logbridge.LevelDebug
	case recorder.LevelVerbose:
		return logbridge.LevelTrace
	case recorder.LevelOff:
		panic(ewrap.Wrap(ErrOffIsNotALevel, "cannot map native level to a record level"))
	default:
		panic(ewrap.Wrap(ErrUnknownLevel, "cannot map native level to a record level").
			WithMetadata("level", uint8(level)))
	}
}

// FromThreshold maps a native threshold back. It is total: Off maps to Off
// and unknown values fall back to Info, as the recorder itself does.
func FromThreshold(level recorder.LogLevel) logbridge.Level {
	switch level {
	case recorder.LevelOff:
		return logbridge.LevelOff
	case recorder.LevelFatal, recorder.LevelError, recorder.LevelWarn,
		recorder.LevelInfo, recorder.LevelDebug, recorder.LevelVerbose:
		return FromNative(level)
	default:
		return logbridge.LevelInfo
	}
}
