package logbridge

import (
	"io"
	"maps"
	"os"
)

// ConfigBuilder provides a fluent API for constructing configurations.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new builder seeded with DefaultConfig.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: DefaultConfig()}
}

// WithContext sets the tag records are written under.
// Example: builder.WithContext("HTTP").
func (b *ConfigBuilder) WithContext(context string) *ConfigBuilder {
	b.config.Context = context

	return b
}

// WithCallerPrefix toggles the module, file and line parts of the caller prefix.
func (b *ConfigBuilder) WithCallerPrefix(module, file, line bool) *ConfigBuilder {
	b.config.ShowModule = module
	b.config.ShowFile = file
	b.config.ShowLine = line

	return b
}

// WithConfigPath sets the recorder configuration file exported when the
// bridge becomes the default logger.
func (b *ConfigBuilder) WithConfigPath(path string) *ConfigBuilder {
	b.config.ConfigPath = path

	return b
}

// WithOutput sets the output destination.
// Example: builder.WithOutput(os.Stderr).
func (b *ConfigBuilder) WithOutput(output io.Writer) *ConfigBuilder {
	b.config.Output = output

	return b
}

// WithConsoleOutput is a convenience method for WithOutput(os.Stdout).
func (b *ConfigBuilder) WithConsoleOutput() *ConfigBuilder {
	b.config.Output = os.Stdout

	return b
}

// WithFileOutput adds a rotating file output at path.
// Example: builder.WithFileOutput("/var/log/my_app.log").
func (b *ConfigBuilder) WithFileOutput(path string) *ConfigBuilder {
	b.config.File.Path = path

	return b
}

// WithLevel sets the default threshold.
// Example: builder.WithLevel(logbridge.LevelDebug).
func (b *ConfigBuilder) WithLevel(level Level) *ConfigBuilder {
	b.config.Level = level

	return b
}

// WithContextLevel overrides the threshold of a single context tag.
// Example: builder.WithContextLevel("ALFA", logbridge.LevelWarn).
func (b *ConfigBuilder) WithContextLevel(context string, level Level) *ConfigBuilder {
	if b.config.ContextLevels == nil {
		b.config.ContextLevels = make(map[string]Level)
	}

	b.config.ContextLevels[context] = level

	return b
}

// WithDebugLevel is a convenience method for WithLevel(LevelDebug).
func (b *ConfigBuilder) WithDebugLevel() *ConfigBuilder {
	return b.WithLevel(LevelDebug)
}

// WithInfoLevel is a convenience method for WithLevel(LevelInfo).
func (b *ConfigBuilder) WithInfoLevel() *ConfigBuilder {
	return b.WithLevel(LevelInfo)
}

// WithTimeFormat sets the time format string.
func (b *ConfigBuilder) WithTimeFormat(format string) *ConfigBuilder {
	b.config.TimeFormat = format

	return b
}

// WithNoTimestamp disables timestamp output.
func (b *ConfigBuilder) WithNoTimestamp() *ConfigBuilder {
	b.config.DisableTimestamp = true

	return b
}

// WithJSONFormat enables JSON formatting for records.
func (b *ConfigBuilder) WithJSONFormat(enable bool) *ConfigBuilder {
	b.config.EnableJSON = enable

	return b
}

// WithColors enables or disables color output.
func (b *ConfigBuilder) WithColors(enable bool) *ConfigBuilder {
	b.config.Color.Enable = enable

	return b
}

// WithForceColors forces color output even when not writing to a terminal.
func (b *ConfigBuilder) WithForceColors(force bool) *ConfigBuilder {
	b.config.Color.ForceTTY = force

	return b
}

// WithEnableAsync enables or disables the output queue.
func (b *ConfigBuilder) WithEnableAsync(enabled bool) *ConfigBuilder {
	b.config.Async.Enabled = enabled

	return b
}

// WithAsyncBufferSize sets the capacity of the output queue.
func (b *ConfigBuilder) WithAsyncBufferSize(size int) *ConfigBuilder {
	b.config.Async.BufferSize = size

	return b
}

// WithAsyncOverflowStrategy sets the behaviour when the output queue is full.
func (b *ConfigBuilder) WithAsyncOverflowStrategy(strategy AsyncOverflowStrategy) *ConfigBuilder {
	b.config.Async.OverflowStrategy = strategy

	return b
}

// WithAsyncDropHandler sets the handler invoked when the queue drops a record.
func (b *ConfigBuilder) WithAsyncDropHandler(handler func([]byte)) *ConfigBuilder {
	b.config.Async.DropHandler = handler

	return b
}

// WithEncoder assigns a custom encoder.
func (b *ConfigBuilder) WithEncoder(encoder Encoder) *ConfigBuilder {
	b.config.Encoder = encoder

	return b
}

// WithEncoderName selects an encoder by name from the registry.
func (b *ConfigBuilder) WithEncoderName(name string) *ConfigBuilder {
	b.config.EncoderName = name

	return b
}

// WithEncoderRegistry sets the registry used when resolving named encoders.
func (b *ConfigBuilder) WithEncoderRegistry(registry *EncoderRegistry) *ConfigBuilder {
	b.config.EncoderRegistry = registry

	return b
}

// WithFileRotation configures the size limit and compression of rotated files.
// Example: builder.WithFileRotation(100, true).
func (b *ConfigBuilder) WithFileRotation(maxSizeMB int, compress bool) *ConfigBuilder {
	b.config.File.MaxSizeMB = maxSizeMB
	b.config.File.Compress = compress

	return b
}

// WithFileRetention configures retention of rotated files.
// Example: builder.WithFileRetention(7, 10) keeps files for 7 days, at most 10.
func (b *ConfigBuilder) WithFileRetention(maxAgeDays, maxBackups int) *ConfigBuilder {
	b.config.File.MaxAgeDays = maxAgeDays
	b.config.File.MaxBackups = maxBackups

	return b
}

// WithHook adds a hook fired for every completed record.
func (b *ConfigBuilder) WithHook(name string, hook Hook) *ConfigBuilder {
	b.config.Hooks = append(b.config.Hooks, HookConfig{
		Name: name,
		Hook: hook,
	})

	return b
}

// WithLocalDefaults configures colored console output at Debug with file and
// line prefixes.
func (b *ConfigBuilder) WithLocalDefaults() *ConfigBuilder {
	return b.
		WithDebugLevel().
		WithCallerPrefix(false, true, true).
		WithColors(true).
		WithJSONFormat(false)
}

// WithProductionDefaults configures JSON output at Info without colors or
// caller prefixes.
func (b *ConfigBuilder) WithProductionDefaults() *ConfigBuilder {
	return b.
		WithInfoLevel().
		WithCallerPrefix(false, false, false).
		WithColors(false).
		WithJSONFormat(true)
}

// Build returns a copy of the configuration. Later builder calls do not
// affect configurations already built.
func (b *ConfigBuilder) Build() *Config {
	config := b.config
	config.ContextLevels = maps.Clone(b.config.ContextLevels)
	config.Hooks = append([]HookConfig(nil), b.config.Hooks...)

	return &config
}
