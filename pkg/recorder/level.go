package recorder

// LogLevel is the recorder's native severity encoding.
type LogLevel uint8

const (
	// LevelOff disables a context when used as a threshold.
	LevelOff LogLevel = 0x00
	// LevelFatal is the native fatal severity.
	LevelFatal LogLevel = 0x01
	// LevelError is the native error severity.
	LevelError LogLevel = 0x02
	// LevelWarn is the native warning severity.
	LevelWarn LogLevel = 0x03
	// LevelInfo is the native informational severity.
	LevelInfo LogLevel = 0x04
	// LevelDebug is the native debug severity.
	LevelDebug LogLevel = 0x05
	// LevelVerbose is the native most-verbose severity.
	LevelVerbose LogLevel = 0x06
)

// String returns the recorder's name for the level.
func (l LogLevel) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelFatal:
		return "fatal"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// IsValid reports whether l is one of the seven native values.
func (l LogLevel) IsValid() bool {
	return l <= LevelVerbose
}

// Allows reports whether a threshold of l accepts a record at level.
func (l LogLevel) Allows(level LogLevel) bool {
	return level != LevelOff && level.IsValid() && level <= l
}
