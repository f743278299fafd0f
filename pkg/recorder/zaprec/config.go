package zaprec

import (
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/hyp3rd/ewrap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/internal/output"
)

// FromConfig builds a zap logger from the recorder section of config and
// wraps it. Outputs, rotation, encoders, colors, levels and hooks follow the
// same settings as the text recorder; async queues and custom encoders are
// not supported by zap and are ignored.
func FromConfig(config logbridge.Config) (*Recorder, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	syncers, closers, err := openSyncers(&config)
	if err != nil {
		return nil, err
	}

	colors := config.Color.Enable && !config.EnableJSON
	if colors && !config.Color.ForceTTY {
		colors = anyTerminal(&config)
	}

	level := zap.NewAtomicLevelAt(toZapLevel(config.Level))
	core := zapcore.NewCore(newEncoder(&config, colors), zapcore.NewMultiWriteSyncer(syncers...), level)

	rec := New(zap.New(core))
	rec.level = &level
	rec.closer = func() error {
		errs := ewrap.NewErrorGroup()

		for _, c := range closers {
			closeErr := c.Close()
			if closeErr != nil {
				errs.Add(closeErr)
			}
		}

		if errs.HasErrors() {
			return errs
		}

		return nil
	}

	for tag, contextLevel := range config.ContextLevels {
		err = rec.SetContextLevel(tag, contextLevel)
		if err != nil {
			return nil, err
		}
	}

	for _, hookConfig := range config.Hooks {
		err = rec.AddHook(hookConfig.Name, hookConfig.Hook)
		if err != nil {
			return nil, ewrap.Wrapf(err, "failed to register hook '%s'", hookConfig.Name)
		}
	}

	return rec, nil
}

func newEncoder(config *logbridge.Config, colors bool) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.LevelKey = "severity"
	encoderConfig.MessageKey = "message"
	encoderConfig.CallerKey = zapcore.OmitKey
	encoderConfig.StacktraceKey = zapcore.OmitKey
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	timeFormat := config.TimeFormat
	if timeFormat == "" {
		timeFormat = logbridge.DefaultTimeFormat
	}

	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timeFormat)

	if config.DisableTimestamp {
		encoderConfig.TimeKey = zapcore.OmitKey
	}

	if config.EnableJSON {
		return zapcore.NewJSONEncoder(encoderConfig)
	}

	if colors {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return zapcore.NewConsoleEncoder(encoderConfig)
}

func openSyncers(config *logbridge.Config) ([]zapcore.WriteSyncer, []io.Closer, error) {
	var (
		syncers []zapcore.WriteSyncer
		closers []io.Closer
	)

	if config.Output != nil {
		syncers = append(syncers, toSyncer(config.Output))
	}

	if config.File.Path != "" {
		fileWriter, err := output.NewFileWriter(output.FileConfig{
			Path:       config.File.Path,
			MaxSizeMB:  config.File.MaxSizeMB,
			MaxBackups: config.File.MaxBackups,
			MaxAgeDays: config.File.MaxAgeDays,
			Compress:   config.File.Compress,
			LocalTime:  config.File.LocalTime,
		})
		if err != nil {
			return nil, nil, err
		}

		syncers = append(syncers, zapcore.AddSync(fileWriter))
		closers = append(closers, fileWriter)
	}

	if len(syncers) == 0 {
		syncers = append(syncers, zapcore.Lock(os.Stdout))
	}

	return syncers, closers, nil
}

func toSyncer(w io.Writer) zapcore.WriteSyncer {
	if f, ok := w.(*os.File); ok {
		return zapcore.Lock(f)
	}

	return zapcore.AddSync(output.NewWriterAdapter(w))
}

func anyTerminal(config *logbridge.Config) bool {
	return config.Output != nil && output.HasTTY(config.Output)
}

// isInvalidSync reports the error fsync returns for terminals and pipes.
func isInvalidSync(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
