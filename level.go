package logbridge

import (
	"strings"

	"github.com/hyp3rd/ewrap"
)

// Level represents the severity of a log record.
//
// Levels are ordered from "nothing passes" to "everything passes":
// LevelOff < LevelFatal < LevelError < LevelWarn < LevelInfo < LevelDebug < LevelTrace.
// LevelOff is only meaningful as a threshold and is never attached to a record.
type Level uint8

const (
	// LevelOff disables logging when used as a threshold.
	LevelOff Level = iota
	// LevelFatal represents unrecoverable errors.
	LevelFatal
	// LevelError represents error messages.
	LevelError
	// LevelWarn represents warning messages.
	LevelWarn
	// LevelInfo represents general operational information.
	LevelInfo
	// LevelDebug represents debugging information.
	LevelDebug
	// LevelTrace represents verbose debugging information.
	LevelTrace
)

// DefaultLevel is the threshold used when nothing else is configured.
const DefaultLevel = LevelInfo

// ErrInvalidLevel is returned when a level name cannot be parsed.
var ErrInvalidLevel = ewrap.New("invalid log level")

// String returns the string representation of a log level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "OFF"
	case LevelFatal:
		return "FATAL"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the level is one of the seven defined values, Off included.
func (l Level) IsValid() bool {
	return l <= LevelTrace
}

// IsActive returns true if the level can be attached to a record, i.e. it is
// valid and not LevelOff.
func (l Level) IsActive() bool {
	return l >= LevelFatal && l <= LevelTrace
}

// Enables reports whether a threshold of l lets a record at level through.
func (l Level) Enables(level Level) bool {
	return level.IsActive() && level <= l
}

// ActiveLevels returns the six levels that can be attached to a record, most
// severe first.
func ActiveLevels() []Level {
	return []Level{LevelFatal, LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}
}

// ParseLevel parses a level name. Matching is case-insensitive; "warning",
// "verbose" and "none" are accepted as aliases.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "off", "none":
		return LevelOff, nil
	case "fatal":
		return LevelFatal, nil
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace", "verbose":
		return LevelTrace, nil
	default:
		return LevelOff, ewrap.Wrap(ErrInvalidLevel, "failed to parse level").WithMetadata("level", level)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, ewrap.Wrap(ErrInvalidLevel, "cannot marshal level").WithMetadata("level", uint8(l))
	}

	return []byte(strings.ToLower(l.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = parsed

	return nil
}
