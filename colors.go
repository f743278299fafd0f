package logbridge

// ANSI escape sequences used for console levels.
const (
	Red     = "\x1b[31m"
	Green   = "\x1b[32m"
	Yellow  = "\x1b[33m"
	Blue    = "\x1b[34m"
	Magenta = "\x1b[35m"
	Cyan    = "\x1b[36m"
	BoldRed = "\x1b[31;1m"
	// Reset restores the terminal's default attributes.
	Reset = "\x1b[0m"
)

// DefaultLevelColors returns the ANSI color used for each level that can be
// attached to a record.
func DefaultLevelColors() map[Level]string {
	return map[Level]string{
		LevelTrace: Magenta,
		LevelDebug: Blue,
		LevelInfo:  Green,
		LevelWarn:  Yellow,
		LevelError: Red,
		LevelFatal: BoldRed,
	}
}

// ColorFor returns the color configured for level, falling back to the
// default palette.
func (c ColorConfig) ColorFor(level Level) (string, bool) {
	if seq, ok := c.LevelColors[level]; ok && seq != "" {
		return seq, true
	}

	seq, ok := DefaultLevelColors()[level]

	return seq, ok
}

// ColorConfig holds color-related configuration for console records.
type ColorConfig struct {
	// Enable enables colored output
	Enable bool
	// ForceTTY forces colored output even when stdout is not a terminal
	ForceTTY bool
	// LevelColors maps log levels to their ANSI color codes
	LevelColors map[Level]string
}

// DefaultColorConfig enables colors on terminals only.
func DefaultColorConfig() ColorConfig {
	return ColorConfig{
		Enable:      true,
		ForceTTY:    false,
		LevelColors: DefaultLevelColors(),
	}
}
