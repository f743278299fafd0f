package logbridge

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logbridge/internal/constants"
	"github.com/hyp3rd/logbridge/internal/utils"
)

const (
	// DefaultTimeFormat is the default time format for records.
	DefaultTimeFormat = time.RFC3339
	// DefaultAsyncBufferSize is the default size of the async record queue.
	DefaultAsyncBufferSize = 1024
	// LogFilePermissions are the default file permissions for log files.
	LogFilePermissions = 0o666
	// DefaultMaxFileSizeMB is the default maximum size in MB for log files before rotation.
	DefaultMaxFileSizeMB = 100
	// DefaultMaxBackups is the default number of rotated files kept.
	DefaultMaxBackups = 5
	// DefaultCompression determines if rotated log files are compressed by default.
	DefaultCompression = true
	// ConfigFileEnv names the environment variable that points the recorder at
	// its configuration file.
	ConfigFileEnv = "LOGBRIDGE_CONFIG_FILE"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = ewrap.New("invalid configuration")

// AsyncOverflowStrategy defines how the async writer handles a full buffer.
type AsyncOverflowStrategy uint8

const (
	// AsyncOverflowDropNewest drops the incoming record when the buffer is full.
	AsyncOverflowDropNewest AsyncOverflowStrategy = iota
	// AsyncOverflowBlock blocks until there is space in the buffer.
	AsyncOverflowBlock
	// AsyncOverflowDropOldest discards the oldest buffered record to make room for a new one.
	AsyncOverflowDropOldest
)

// IsValid reports whether the strategy value is recognised.
func (s AsyncOverflowStrategy) IsValid() bool {
	switch s {
	case AsyncOverflowDropNewest, AsyncOverflowBlock, AsyncOverflowDropOldest:
		return true
	default:
		return false
	}
}

// FileConfig holds the rotation settings of the file output.
type FileConfig struct {
	// Path is the path to the log file. Empty disables file output.
	Path string
	// MaxSizeMB is the size in megabytes a file may reach before it is rotated.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept (0 keeps all).
	MaxBackups int
	// MaxAgeDays is the number of days rotated files are kept (0 keeps all).
	MaxAgeDays int
	// Compress gzips rotated files.
	Compress bool
	// LocalTime uses local time in rotated file names.
	LocalTime bool
}

// AsyncConfig enables a queue between the recorder and its outputs.
type AsyncConfig struct {
	// Enabled turns the queue on.
	Enabled bool
	// BufferSize is the number of records the queue holds.
	BufferSize int
	// OverflowStrategy decides what happens when the queue is full.
	OverflowStrategy AsyncOverflowStrategy
	// DropHandler is invoked with every record the queue discards.
	DropHandler func([]byte)
}

// HookConfig registers a named hook with a recorder.
type HookConfig struct {
	// Name is the name of the hook.
	Name string
	// Hook is the hook to call.
	Hook Hook
}

// Config holds the configuration of a bridge and of the bundled recorders.
type Config struct {
	// Context is the tag records are written under (at most 4 ASCII bytes).
	Context string
	// ShowModule prefixes records with the calling package.
	ShowModule bool
	// ShowFile prefixes records with the calling file.
	ShowFile bool
	// ShowLine prefixes records with the calling line.
	ShowLine bool
	// ConfigPath is exported through ConfigFileEnv when the bridge becomes the default logger.
	ConfigPath string

	// Level is the recorder threshold applied to every context without an override.
	Level Level
	// ContextLevels overrides the threshold per context tag.
	ContextLevels map[string]Level
	// Output is where the recorder writes records.
	Output io.Writer
	// EnableJSON selects the JSON encoder instead of the console encoder.
	EnableJSON bool
	// TimeFormat specifies the format for timestamps.
	TimeFormat string
	// DisableTimestamp removes timestamps from records.
	DisableTimestamp bool
	// Color configures colored console output.
	Color ColorConfig
	// File configures the rotating file output.
	File FileConfig
	// Async configures the output queue.
	Async AsyncConfig
	// Encoder overrides the encoder used for records.
	Encoder Encoder
	// EncoderName refers to an encoder registered in EncoderRegistry.
	EncoderName string
	// EncoderRegistry holds available encoders for name resolution.
	EncoderRegistry *EncoderRegistry
	// Hooks are fired for every completed record.
	Hooks []HookConfig
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Context:       DefaultContext,
		Level:         DefaultLevel,
		ContextLevels: make(map[string]Level),
		Output:        os.Stdout,
		TimeFormat:    DefaultTimeFormat,
		Color:         DefaultColorConfig(),
		File: FileConfig{
			MaxSizeMB:  DefaultMaxFileSizeMB,
			MaxBackups: DefaultMaxBackups,
			Compress:   DefaultCompression,
		},
		Async: AsyncConfig{
			BufferSize:       DefaultAsyncBufferSize,
			OverflowStrategy: AsyncOverflowDropNewest,
		},
		Hooks: make([]HookConfig, 0),
	}
}

// ProductionConfig returns a configuration with JSON output and no colors.
func ProductionConfig() Config {
	config := DefaultConfig()
	config.EnableJSON = true
	config.Color.Enable = false

	return config
}

// DevelopmentConfig returns a configuration with colored console output, a
// Debug threshold, and caller prefixes.
func DevelopmentConfig() Config {
	config := DefaultConfig()
	config.EnableJSON = false
	config.Color.Enable = true
	config.Level = LevelDebug
	config.ShowFile = true
	config.ShowLine = true

	return config
}

// LevelFor returns the threshold that applies to ctx.
func (c *Config) LevelFor(ctx Context) Level {
	if level, ok := c.ContextLevels[ctx.String()]; ok {
		return level
	}

	return c.Level
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	errs := ewrap.NewErrorGroup()

	_, err := NewContext(c.Context)
	if err != nil {
		errs.Add(err)
	}

	if !c.Level.IsValid() {
		errs.Add(ewrap.Wrap(ErrInvalidLevel, "threshold out of range").WithMetadata("level", uint8(c.Level)))
	}

	for tag, level := range c.ContextLevels {
		_, err := NewContext(tag)
		if err != nil {
			errs.Add(err)
		}

		if !level.IsValid() {
			errs.Add(ewrap.Wrap(ErrInvalidLevel, "context threshold out of range").
				WithMetadata("context", tag).
				WithMetadata("level", uint8(level)))
		}
	}

	if c.Async.Enabled && c.Async.BufferSize <= 0 {
		errs.Add(ewrap.Wrap(ErrInvalidConfig, "async buffer size must be positive").
			WithMetadata("buffer_size", c.Async.BufferSize))
	}

	if !c.Async.OverflowStrategy.IsValid() {
		errs.Add(ewrap.Wrap(ErrInvalidConfig, "unknown async overflow strategy").
			WithMetadata("strategy", uint8(c.Async.OverflowStrategy)))
	}

	if c.File.Path != "" && c.File.MaxSizeMB < 0 {
		errs.Add(ewrap.Wrap(ErrInvalidConfig, "file max size cannot be negative"))
	}

	if errs.HasErrors() {
		return errs
	}

	return nil
}

// SetOutput resolves an output name. It accepts "stdout", "stderr", or a file
// path; files are created if needed and opened in append mode.
func SetOutput(output string) (io.Writer, error) {
	//nolint:exhaustive // every other name is a file path
	switch constants.ParseOutputType(output) {
	case constants.LogOutputStdout:
		return os.Stdout, nil
	case constants.LogOutputStderr:
		return os.Stderr, nil
	default:
		if strings.TrimSpace(output) == "" {
			return nil, ewrap.New("output path cannot be empty")
		}

		path := filepath.Clean(output)

		if !filepath.IsAbs(path) {
			securePath, err := utils.SecurePath(path)
			if err != nil {
				return nil, ewrap.Wrap(err, "invalid output path")
			}

			path = securePath
		}

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
		if err != nil {
			return nil, ewrap.Wrapf(err, "failed to open log file %s", path)
		}

		return file, nil
	}
}
