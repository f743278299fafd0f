// Package bridge turns leveled application log calls into primitive writes
// against the installed recorder.
//
// Every record follows the same path: the level is checked against the
// recorder's threshold for the bridge's context, a Stream is opened, the
// message and its arguments are written field by field, and the Stream is
// closed on every exit path. Records at filtered levels cost one threshold
// query and nothing else.
package bridge

import (
	"fmt"
	"os"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/internal/fmtbuf"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

// Bridge implements logbridge.Logger on top of a recorder.
type Bridge struct {
	rec        recorder.Recorder
	ctx        logbridge.Context
	showModule bool
	showFile   bool
	showLine   bool
}

var (
	_ logbridge.Logger      = (*Bridge)(nil)
	_ logbridge.DepthLogger = (*Bridge)(nil)
)

// Recorder returns the recorder records are written to.
func (b *Bridge) Recorder() recorder.Recorder {
	return b.rec
}

// Context returns the tag records are written under.
func (b *Bridge) Context() logbridge.Context {
	return b.ctx
}

// Enabled reports whether the recorder currently accepts level for the
// bridge's context.
func (b *Bridge) Enabled(level logbridge.Level) bool {
	if !level.IsActive() {
		return false
	}

	return FromThreshold(b.rec.Threshold(b.ctx)).Enables(level)
}

// WithContext returns a copy of the bridge writing under another tag. The tag
// is validated like Builder.Context and panics on non-ASCII input.
func (b *Bridge) WithContext(context string) logbridge.Logger {
	clone := *b
	clone.ctx = logbridge.MustContext(context)

	return &clone
}

// Flush is a no-op: every record reaches the recorder when it is closed.
func (*Bridge) Flush() error {
	return nil
}

// Log writes a typed record. See WriteFormat for the template syntax.
func (b *Bridge) Log(level logbridge.Level, format string, args ...logbridge.Value) {
	b.emit(1, level, format, args)
}

// LogDepth is like Log but attributes the record to the frame depth levels
// above its caller.
func (b *Bridge) LogDepth(depth int, level logbridge.Level, format string, args ...logbridge.Value) {
	b.emit(depth+1, level, format, args)
}

// Logf writes a printf-style record formatted into a MessageSize buffer.
func (b *Bridge) Logf(level logbridge.Level, format string, args ...any) {
	b.emitf(1, level, format, args)
}

// Trace logs a typed record at the Trace level.
func (b *Bridge) Trace(format string, args ...logbridge.Value) {
	b.emit(1, logbridge.LevelTrace, format, args)
}

// Debug logs a typed record at the Debug level.
func (b *Bridge) Debug(format string, args ...logbridge.Value) {
	b.emit(1, logbridge.LevelDebug, format, args)
}

// Info logs a typed record at the Info level.
func (b *Bridge) Info(format string, args ...logbridge.Value) {
	b.emit(1, logbridge.LevelInfo, format, args)
}

// Warn logs a typed record at the Warn level.
func (b *Bridge) Warn(format string, args ...logbridge.Value) {
	b.emit(1, logbridge.LevelWarn, format, args)
}

// Error logs a typed record at the Error level.
func (b *Bridge) Error(format string, args ...logbridge.Value) {
	b.emit(1, logbridge.LevelError, format, args)
}

// Fatal logs a typed record at the Fatal level. The process keeps running;
// terminating it is left to the caller.
func (b *Bridge) Fatal(format string, args ...logbridge.Value) {
	b.emit(1, logbridge.LevelFatal, format, args)
}

// Tracef logs a printf-style record at the Trace level.
func (b *Bridge) Tracef(format string, args ...any) {
	b.emitf(1, logbridge.LevelTrace, format, args)
}

// Debugf logs a printf-style record at the Debug level.
func (b *Bridge) Debugf(format string, args ...any) {
	b.emitf(1, logbridge.LevelDebug, format, args)
}

// Infof logs a printf-style record at the Info level.
func (b *Bridge) Infof(format string, args ...any) {
	b.emitf(1, logbridge.LevelInfo, format, args)
}

// Warnf logs a printf-style record at the Warn level.
func (b *Bridge) Warnf(format string, args ...any) {
	b.emitf(1, logbridge.LevelWarn, format, args)
}

// Errorf logs a printf-style record at the Error level.
func (b *Bridge) Errorf(format string, args ...any) {
	b.emitf(1, logbridge.LevelError, format, args)
}

// Fatalf logs a printf-style record at the Fatal level. The process keeps
// running.
func (b *Bridge) Fatalf(format string, args ...any) {
	b.emitf(1, logbridge.LevelFatal, format, args)
}

func (b *Bridge) showsCaller() bool {
	return b.showModule || b.showFile || b.showLine
}

// emit writes a typed record: the caller prefix as one string, then the
// expanded template.
func (b *Bridge) emit(skip int, level logbridge.Level, format string, args []logbridge.Value) {
	if !b.Enabled(level) {
		return
	}

	var prefix string

	if b.showsCaller() {
		var storage [prefixSize]byte

		buf := fmtbuf.New(storage[:])
		b.writePrefix(buf, skip+1)
		prefix = buf.String()
	}

	stream := Open(b.rec, b.ctx, level)
	defer stream.Close()

	if !stream.IsOpen() {
		return
	}

	if prefix != "" {
		stream.WriteString(prefix)
	}

	err := WriteFormat(&stream, format, args...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logbridge: record %s/%s written partially: %v\n", b.ctx, level, err)
	}
}
