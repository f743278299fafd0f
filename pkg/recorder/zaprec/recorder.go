// Package zaprec is a recorder backed by a zap logger.
//
// Records are accumulated in the shared slot table and written to the zap
// core as one entry when the bridge closes them. The record context is
// attached as the "context" field and the non-string arguments as the "args"
// array, so structured zap encoders keep their types.
//
// Fatal records are written at zap's FatalLevel straight to the core: the
// recorder never terminates the process.
package zaprec

import (
	"sync"

	"github.com/hyp3rd/ewrap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/internal/slottable"
	"github.com/hyp3rd/logbridge/pkg/bridge"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

const (
	contextKey = "context"
	argsKey    = "args"
)

// ErrFixedLevel is returned by SetLevel when the zap logger was not built
// with an adjustable level.
var ErrFixedLevel = ewrap.New("zap logger level is not adjustable")

// Recorder implements recorder.Recorder on top of a zap core.
type Recorder struct {
	*slottable.Table

	logger *zap.Logger
	level  *zap.AtomicLevel
	hooks  *logbridge.HookRegistry
	closer func() error

	mu            sync.RWMutex
	contextLevels map[logbridge.Context]logbridge.Level
}

var _ recorder.Recorder = (*Recorder)(nil)

// New wraps logger. A nil logger records nothing.
func New(logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Recorder{
		Table:         slottable.New(slottable.DefaultCapacity),
		logger:        logger,
		hooks:         logbridge.NewHookRegistry(),
		contextLevels: make(map[logbridge.Context]logbridge.Level),
	}
}

// Install wraps logger and installs it as the process-wide recorder.
func Install(logger *zap.Logger) (*Recorder, error) {
	rec := New(logger)

	err := recorder.Install(rec)
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// Logger returns the wrapped zap logger.
func (r *Recorder) Logger() *zap.Logger {
	return r.logger
}

// Threshold implements recorder.Recorder. The level enabled on the zap core is
// probed on every call; a context override can only lower it further.
func (r *Recorder) Threshold(ctx logbridge.Context) recorder.LogLevel {
	threshold := r.coreThreshold()

	r.mu.RLock()
	override, ok := r.contextLevels[ctx]
	r.mu.RUnlock()

	if ok {
		threshold = min(threshold, bridge.ToThreshold(override))
	}

	return threshold
}

func (r *Recorder) coreThreshold() recorder.LogLevel {
	core := r.logger.Core()

	switch {
	case core.Enabled(zapcore.DebugLevel):
		return recorder.LevelVerbose
	case core.Enabled(zapcore.InfoLevel):
		return recorder.LevelInfo
	case core.Enabled(zapcore.WarnLevel):
		return recorder.LevelWarn
	case core.Enabled(zapcore.ErrorLevel):
		return recorder.LevelError
	case core.Enabled(zapcore.FatalLevel):
		return recorder.LevelFatal
	default:
		return recorder.LevelOff
	}
}

// SetLevel changes the level of a logger created by FromConfig.
func (r *Recorder) SetLevel(level logbridge.Level) error {
	if r.level == nil {
		return ErrFixedLevel
	}

	if !level.IsValid() {
		return ewrap.Wrap(logbridge.ErrInvalidLevel, "cannot set threshold").
			WithMetadata("level", uint8(level))
	}

	r.level.SetLevel(toZapLevel(level))

	return nil
}

// SetContextLevel lowers the threshold of one context.
func (r *Recorder) SetContextLevel(tag string, level logbridge.Level) error {
	ctx, err := logbridge.NewContext(tag)
	if err != nil {
		return err
	}

	if !level.IsValid() {
		return ewrap.Wrap(logbridge.ErrInvalidLevel, "cannot set context threshold").
			WithMetadata("context", tag).
			WithMetadata("level", uint8(level))
	}

	r.mu.Lock()
	r.contextLevels[ctx] = level
	r.mu.Unlock()

	return nil
}

// AddHook registers a hook fired for every completed record.
func (r *Recorder) AddHook(name string, hook logbridge.Hook) error {
	return r.hooks.AddHook(name, hook)
}

// StartRecord implements recorder.Recorder.
func (r *Recorder) StartRecord(ctx logbridge.Context, level recorder.LogLevel, slot *recorder.SlotStorage) bool {
	if !r.Threshold(ctx).Allows(level) {
		return false
	}

	return r.Acquire(ctx, level, slot)
}

// StopRecord implements recorder.Recorder.
func (r *Recorder) StopRecord(slot *recorder.SlotStorage) {
	record, ok := r.Release(slot)
	if !ok {
		return
	}

	entry := &logbridge.Entry{
		Time:    record.Started,
		Level:   bridge.FromNative(record.Level),
		Context: record.Context,
		Message: record.Message(),
		Fields:  record.Args,
	}

	for _, err := range r.hooks.FireHooks(entry) {
		if err != nil {
			r.write(&logbridge.Entry{
				Time:    entry.Time,
				Level:   logbridge.LevelError,
				Context: entry.Context,
				Message: "hook execution error: " + err.Error(),
			})
		}
	}

	r.write(entry)
}

func (r *Recorder) write(entry *logbridge.Entry) {
	checked := r.logger.Core().Check(zapcore.Entry{
		LoggerName: r.logger.Name(),
		Time:       entry.Time,
		Level:      toZapLevel(entry.Level),
		Message:    entry.Message,
	}, nil)
	if checked == nil {
		return
	}

	fields := []zap.Field{zap.String(contextKey, entry.Context.String())}
	if len(entry.Fields) > 0 {
		fields = append(fields, zap.Array(argsKey, valueArray(entry.Fields)))
	}

	checked.Write(fields...)
}

// Sync flushes the zap logger.
func (r *Recorder) Sync() error {
	return r.logger.Sync()
}

// Close syncs the logger and closes outputs opened by FromConfig.
func (r *Recorder) Close() error {
	err := r.Sync()
	if err != nil && !isInvalidSync(err) {
		return ewrap.Wrap(err, "syncing zap logger")
	}

	if r.closer != nil {
		return r.closer()
	}

	return nil
}

// toZapLevel maps bridge levels onto zap levels. Trace has no zap
// counterpart and shares DebugLevel; Off maps above FatalLevel.
func toZapLevel(level logbridge.Level) zapcore.Level {
	switch level {
	case logbridge.LevelTrace, logbridge.LevelDebug:
		return zapcore.DebugLevel
	case logbridge.LevelInfo:
		return zapcore.InfoLevel
	case logbridge.LevelWarn:
		return zapcore.WarnLevel
	case logbridge.LevelError:
		return zapcore.ErrorLevel
	case logbridge.LevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.FatalLevel + 1
	}
}

// valueArray renders record arguments with their native zap types. Hex and
// binary renderings stay strings.
type valueArray []logbridge.Value

func (a valueArray) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, v := range a {
		if v.Hint() != logbridge.HintPlain {
			enc.AppendString(v.String())

			continue
		}

		switch kind := v.Kind(); {
		case kind == logbridge.KindBool:
			enc.AppendBool(v.AsBool())
		case kind == logbridge.KindFloat32:
			enc.AppendFloat32(v.AsFloat32())
		case kind == logbridge.KindFloat64:
			enc.AppendFloat64(v.AsFloat64())
		case kind == logbridge.KindString:
			enc.AppendString(v.AsString())
		case kind.IsInteger() && kind.IsSigned():
			enc.AppendInt64(v.AsInt64())
		case kind.IsInteger():
			enc.AppendUint64(v.AsUint64())
		default:
			enc.AppendString(v.String())
		}
	}

	return nil
}
