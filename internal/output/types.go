package output

import (
	"io"
	"os"
	"sync"

	"github.com/hyp3rd/ewrap"
)

var (
	// ErrWriterClosed is returned by writes, flushes and rotations after Close.
	ErrWriterClosed = ewrap.New("output closed")
	// ErrBufferFull reports a record dropped by the async overflow strategy.
	ErrBufferFull = ewrap.New("async queue full")
	// ErrFlushTimeout is returned when the async queue does not drain in time.
	ErrFlushTimeout = ewrap.New("async flush timed out")
	// ErrNoWriters is returned by NewMultiWriter when no usable writer is given.
	ErrNoWriters = ewrap.New("no output writers")
)

// Writer is the destination of encoded records.
type Writer interface {
	// Write writes the given bytes to the underlying output.
	Write(p []byte) (n int, err error)
	// Sync ensures that all data has been written.
	Sync() error
	// Close closes the writer and releases any resources.
	Close() error
}

type writerAdapter struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewWriterAdapter wraps a basic io.Writer into a Writer that serializes
// writes. Writers that already implement Writer are returned unchanged,
// except files, which are wrapped so that standard streams are never closed.
func NewWriterAdapter(w io.Writer) Writer {
	if _, isFile := w.(*os.File); !isFile {
		if ow, ok := w.(Writer); ok {
			return ow
		}
	}

	return &writerAdapter{writer: w}
}

func (w *writerAdapter) Underlying() io.Writer {
	return w.writer
}

func (w *writerAdapter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	bytes, err := w.writer.Write(p)
	if err != nil {
		return bytes, ewrap.Wrap(err, "failed to write to writer")
	}

	return bytes, nil
}

func (w *writerAdapter) Sync() error {
	if wrapsStandardStream(w) {
		return nil
	}

	if syncer, ok := w.writer.(interface{ Sync() error }); ok {
		return syncer.Sync()
	}

	return nil
}

func (w *writerAdapter) Close() error {
	if wrapsStandardStream(w) {
		return nil
	}

	if closer, ok := w.writer.(io.Closer); ok {
		err := closer.Close()
		if err != nil {
			return ewrap.Wrap(err, "failed to close writer")
		}
	}

	return nil
}
