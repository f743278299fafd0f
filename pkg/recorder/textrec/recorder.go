// Package textrec is a recorder that renders records as console text or JSON
// lines.
//
// Writes are concatenated into the record text in the order they arrive;
// StopRecord turns the record into a logbridge.Entry, fires the configured
// hooks, encodes it and hands it to the output: a console stream, a rotating
// file, both, optionally behind an asynchronous queue.
package textrec

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/internal/constants"
	"github.com/hyp3rd/logbridge/internal/output"
	"github.com/hyp3rd/logbridge/internal/slottable"
	"github.com/hyp3rd/logbridge/pkg/bridge"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

// Recorder implements recorder.Recorder.
type Recorder struct {
	*slottable.Table

	config  *logbridge.Config
	encoder logbridge.Encoder
	hooks   *logbridge.HookRegistry
	out     output.Writer
	async   *output.AsyncWriter
	buffers bufferPool

	levelMu       sync.RWMutex
	level         logbridge.Level
	contextLevels map[logbridge.Context]logbridge.Level
}

var _ recorder.Recorder = (*Recorder)(nil)

// New creates a recorder from the recorder section of config.
func New(config logbridge.Config) (*Recorder, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	if config.TimeFormat == "" {
		config.TimeFormat = logbridge.DefaultTimeFormat
	}

	out, err := prepareOutput(&config)
	if err != nil {
		return nil, err
	}

	enforceColorPolicy(&config, out)

	enc, err := resolveEncoder(&config)
	if err != nil {
		return nil, err
	}

	rec := &Recorder{
		Table:         slottable.New(slottable.DefaultCapacity),
		config:        &config,
		encoder:       enc,
		hooks:         logbridge.NewHookRegistry(),
		out:           out,
		buffers:       newBufferPool(),
		level:         config.Level,
		contextLevels: make(map[logbridge.Context]logbridge.Level, len(config.ContextLevels)),
	}

	for tag, level := range config.ContextLevels {
		rec.contextLevels[logbridge.MustContext(tag)] = level
	}

	for _, hookConfig := range config.Hooks {
		err := rec.hooks.AddHook(hookConfig.Name, hookConfig.Hook)
		if err != nil {
			return nil, ewrap.Wrapf(err, "failed to register hook '%s'", hookConfig.Name)
		}
	}

	if config.Async.Enabled {
		rec.async = output.NewAsyncWriter(out, output.AsyncConfig{
			BufferSize:       config.Async.BufferSize,
			WaitTimeout:      constants.DefaultTimeout,
			ErrorHandler:     func(err error) { fmt.Fprintf(os.Stderr, "logbridge: async output: %v\n", err) },
			OverflowStrategy: convertOverflowStrategy(config.Async.OverflowStrategy),
			DropHandler:      config.Async.DropHandler,
		})
		rec.out = rec.async
	}

	return rec, nil
}

// Install creates a recorder from config and installs it as the process-wide
// recorder.
func Install(config logbridge.Config) (*Recorder, error) {
	rec, err := New(config)
	if err != nil {
		return nil, err
	}

	err = recorder.Install(rec)
	if err != nil {
		closeErr := rec.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "logbridge: closing unused recorder: %v\n", closeErr)
		}

		return nil, err
	}

	return rec, nil
}

// Threshold implements recorder.Recorder.
func (r *Recorder) Threshold(ctx logbridge.Context) recorder.LogLevel {
	r.levelMu.RLock()
	defer r.levelMu.RUnlock()

	if level, ok := r.contextLevels[ctx]; ok {
		return bridge.ToThreshold(level)
	}

	return bridge.ToThreshold(r.level)
}

// SetLevel changes the threshold of every context without an override.
func (r *Recorder) SetLevel(level logbridge.Level) error {
	if !level.IsValid() {
		return ewrap.Wrap(logbridge.ErrInvalidLevel, "cannot set threshold").
			WithMetadata("level", uint8(level))
	}

	r.levelMu.Lock()
	r.level = level
	r.levelMu.Unlock()

	return nil
}

// SetContextLevel overrides the threshold of one context.
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

	r.levelMu.Lock()
	r.contextLevels[ctx] = level
	r.levelMu.Unlock()

	return nil
}

// AddHook registers a hook fired for every completed record.
func (r *Recorder) AddHook(name string, hook logbridge.Hook) error {
	return r.hooks.AddHook(name, hook)
}

// StartRecord implements recorder.Recorder. Records above the threshold of
// their context and records arriving while every slot is busy are refused.
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

	r.processHooks(entry)
	r.write(entry)
}

// Sync flushes queued records and syncs the outputs.
func (r *Recorder) Sync() error {
	return r.out.Sync()
}

// Close flushes and closes the outputs. Standard streams stay open.
func (r *Recorder) Close() error {
	return r.out.Close()
}

func (r *Recorder) write(entry *logbridge.Entry) {
	size := r.encoder.EstimateSize(entry)
	if size <= 0 {
		size = predictBufferSize(r.config.EnableJSON, len(entry.Message), len(entry.Fields))
	}

	buf := r.buffers.get(size)
	defer r.buffers.put(buf)

	encoded, err := r.encoder.Encode(entry, r.config, buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logbridge: failed to encode record: %v\n", err)

		return
	}

	// Error and Fatal records skip the async queue.
	if r.async != nil && entry.Level <= logbridge.LevelError {
		_, err = r.async.WriteCritical(encoded)
	} else {
		_, err = r.out.Write(encoded)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "logbridge: failed to write record: %v\n", err)
	}
}

func (r *Recorder) processHooks(entry *logbridge.Entry) {
	for _, err := range r.hooks.FireHooks(entry) {
		if err == nil {
			continue
		}

		r.write(&logbridge.Entry{
			Time:    entry.Time,
			Level:   logbridge.LevelError,
			Context: entry.Context,
			Message: fmt.Sprintf("hook execution error: %v", err),
		})
	}
}

// prepareOutput combines the configured stream and the rotating file into one
// output.Writer.
func prepareOutput(config *logbridge.Config) (output.Writer, error) {
	var writers []output.Writer

	if config.Output != nil {
		writers = append(writers, toOutputWriter(config.Output))
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
			return nil, err
		}

		writers = append(writers, fileWriter)
	}

	switch len(writers) {
	case 0:
		return output.NewConsoleWriter(os.Stdout), nil
	case 1:
		return writers[0], nil
	default:
		return output.NewMultiWriter(writers...)
	}
}

func toOutputWriter(w io.Writer) output.Writer {
	if f, ok := w.(*os.File); ok && (f == os.Stdout || f == os.Stderr) {
		return output.NewConsoleWriter(f)
	}

	return output.NewWriterAdapter(w)
}

// enforceColorPolicy turns colors off unless they are forced or a terminal
// sits behind out.
func enforceColorPolicy(config *logbridge.Config, out io.Writer) {
	if !config.Color.Enable || config.Color.ForceTTY {
		return
	}

	if output.HasTTY(out) {
		return
	}

	config.Color.Enable = false
}

func convertOverflowStrategy(strategy logbridge.AsyncOverflowStrategy) output.AsyncOverflowStrategy {
	//nolint:exhaustive // output.AsyncOverflowDropNewest is the default behavior
	switch strategy {
	case logbridge.AsyncOverflowBlock:
		return output.AsyncOverflowBlock
	case logbridge.AsyncOverflowDropOldest:
		return output.AsyncOverflowDropOldest
	default:
		return output.AsyncOverflowDropNewest
	}
}
