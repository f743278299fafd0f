package output

import (
	"bytes"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logbridge/internal/constants"
)

const defaultAsyncBufferSize = 1024

// AsyncConfig configures an AsyncWriter.
type AsyncConfig struct {
	// BufferSize is the size of the message buffer channel.
	BufferSize int
	// WaitTimeout is the maximum time Flush waits for queued records.
	WaitTimeout time.Duration
	// ErrorHandler is called when an error occurs during async writing.
	ErrorHandler func(error)
	// OverflowStrategy controls what happens when the buffer is full.
	OverflowStrategy AsyncOverflowStrategy
	// DropHandler is invoked with every payload the writer discards.
	DropHandler func([]byte)
}

// AsyncOverflowStrategy defines how AsyncWriter behaves when its buffer is full.
type AsyncOverflowStrategy int

const (
	// AsyncOverflowDropNewest drops the incoming payload.
	AsyncOverflowDropNewest AsyncOverflowStrategy = iota
	// AsyncOverflowBlock makes writers block until there is space in the buffer.
	AsyncOverflowBlock
	// AsyncOverflowDropOldest discards the oldest buffered payload to make room.
	AsyncOverflowDropOldest
)

// String returns the configuration name of the strategy.
func (s AsyncOverflowStrategy) String() string {
	switch s {
	case AsyncOverflowBlock:
		return "block"
	case AsyncOverflowDropOldest:
		return "drop_oldest"
	default:
		return "drop_newest"
	}
}

// AsyncMetrics is a snapshot of the AsyncWriter counters.
type AsyncMetrics struct {
	Enqueued   uint64
	Processed  uint64
	Dropped    uint64
	WriteError uint64
	Bypassed   uint64
	QueueDepth int
}

// AsyncWriter moves writes onto a background goroutine, decoupling record
// emission from I/O.
type AsyncWriter struct {
	out     io.Writer
	config  AsyncConfig
	msgCh   chan []byte
	stopCh  chan struct{}
	flushCh chan chan struct{}
	wg      sync.WaitGroup

	// mu guards closed and every send on msgCh.
	mu       sync.RWMutex
	closed   bool
	stopOnce sync.Once

	enqueuedCount  atomic.Uint64
	processedCount atomic.Uint64
	droppedCount   atomic.Uint64
	writeErrors    atomic.Uint64
	bypassCount    atomic.Uint64
}

// NewAsyncWriter creates an AsyncWriter in front of out and starts its
// background goroutine.
func NewAsyncWriter(out io.Writer, config AsyncConfig) *AsyncWriter {
	if config.BufferSize <= 0 {
		config.BufferSize = defaultAsyncBufferSize
	}

	if config.WaitTimeout <= 0 {
		config.WaitTimeout = constants.DefaultTimeout
	}

	if config.ErrorHandler == nil {
		config.ErrorHandler = func(error) {}
	}

	if config.DropHandler == nil {
		config.DropHandler = func([]byte) {}
	}

	aw := &AsyncWriter{
		out:     out,
		config:  config,
		msgCh:   make(chan []byte, config.BufferSize),
		stopCh:  make(chan struct{}),
		flushCh: make(chan chan struct{}, 1),
	}

	aw.wg.Add(1)

	go aw.processLogs()

	return aw
}

// Underlying returns the writer wrapped by the AsyncWriter.
func (w *AsyncWriter) Underlying() io.Writer {
	return w.out
}

// Write queues a copy of data. What happens on a full queue depends on the
// overflow strategy; dropped payloads return ErrBufferFull.
func (w *AsyncWriter) Write(data []byte) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return 0, ErrWriterClosed
	}

	payload := bytes.Clone(data)

	//nolint:exhaustive // AsyncOverflowDropNewest is the default behaviour
	switch w.config.OverflowStrategy {
	case AsyncOverflowBlock:
		select {
		case w.msgCh <- payload:
			w.enqueuedCount.Add(1)

			return len(data), nil
		case <-w.stopCh:
			return 0, ErrWriterClosed
		}
	case AsyncOverflowDropOldest:
		if w.tryEnqueue(payload) {
			return len(data), nil
		}

		w.discardOldest()

		if w.tryEnqueue(payload) {
			return len(data), nil
		}

		w.recordOverflow(payload)

		return 0, ErrBufferFull
	default:
		if w.tryEnqueue(payload) {
			return len(data), nil
		}

		w.recordOverflow(payload)

		return 0, ErrBufferFull
	}
}

// WriteCritical bypasses the queue and writes synchronously.
func (w *AsyncWriter) WriteCritical(data []byte) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return 0, ErrWriterClosed
	}

	err := w.performWrite(data)
	if err != nil {
		return 0, err
	}

	w.bypassCount.Add(1)

	return len(data), nil
}

// Sync flushes the queue and syncs the underlying writer.
func (w *AsyncWriter) Sync() error {
	return w.Flush()
}

// Flush waits until every record queued before the call has been written.
func (w *AsyncWriter) Flush() error {
	w.mu.RLock()
	closed := w.closed
	w.mu.RUnlock()

	if closed {
		return ErrWriterClosed
	}

	doneCh := make(chan struct{})
	timeout := time.NewTimer(w.config.WaitTimeout)

	defer timeout.Stop()

	select {
	case w.flushCh <- doneCh:
	case <-timeout.C:
		return ErrFlushTimeout
	}

	select {
	case <-doneCh:
		return w.syncUnderlying()
	case <-timeout.C:
		return ErrFlushTimeout
	}
}

// Close drains the queue, stops the background goroutine, then syncs and
// closes the underlying writer. Standard streams are left open.
func (w *AsyncWriter) Close() error {
	w.stopOnce.Do(func() { close(w.stopCh) })

	w.mu.Lock()

	if w.closed {
		w.mu.Unlock()

		return ErrWriterClosed
	}

	w.closed = true
	close(w.msgCh)
	w.mu.Unlock()

	w.wg.Wait()

	err := w.syncUnderlying()
	if err != nil {
		return err
	}

	return w.closeUnderlying()
}

// Metrics returns a snapshot of the current counters.
func (w *AsyncWriter) Metrics() AsyncMetrics {
	return AsyncMetrics{
		Enqueued:   w.enqueuedCount.Load(),
		Processed:  w.processedCount.Load(),
		Dropped:    w.droppedCount.Load(),
		WriteError: w.writeErrors.Load(),
		Bypassed:   w.bypassCount.Load(),
		QueueDepth: len(w.msgCh),
	}
}

func (w *AsyncWriter) processLogs() {
	defer w.wg.Done()

	for {
		select {
		case msg, ok := <-w.msgCh:
			if !ok {
				return
			}

			w.writeMessage(msg)
		case doneCh := <-w.flushCh:
			w.handleFlush(doneCh)
		case <-w.stopCh:
			// writers still holding the read lock may enqueue until Close
			// closes msgCh
			for msg := range w.msgCh {
				w.writeMessage(msg)
			}

			return
		}
	}
}

func (w *AsyncWriter) writeMessage(msg []byte) {
	err := w.performWrite(msg)
	if err != nil {
		w.droppedCount.Add(1)
		w.config.DropHandler(msg)
	}
}

// handleFlush drains what is queued right now, then signals completion.
func (w *AsyncWriter) handleFlush(doneCh chan struct{}) {
	defer close(doneCh)

	for {
		select {
		case msg, ok := <-w.msgCh:
			if !ok {
				return
			}

			w.writeMessage(msg)
		default:
			return
		}
	}
}

func (w *AsyncWriter) performWrite(msg []byte) error {
	_, err := w.out.Write(msg)
	if err != nil {
		w.writeErrors.Add(1)
		w.config.ErrorHandler(err)

		return ewrap.Wrap(err, "writing log message")
	}

	w.processedCount.Add(1)

	return nil
}

func (w *AsyncWriter) discardOldest() {
	select {
	case payload, ok := <-w.msgCh:
		if ok {
			w.droppedCount.Add(1)
			w.config.DropHandler(payload)
		}
	default:
	}
}

func (w *AsyncWriter) recordOverflow(payload []byte) {
	w.droppedCount.Add(1)
	w.config.DropHandler(payload)
	w.config.ErrorHandler(ErrBufferFull)
}

func (w *AsyncWriter) tryEnqueue(payload []byte) bool {
	select {
	case w.msgCh <- payload:
		w.enqueuedCount.Add(1)

		return true
	default:
		return false
	}
}

func (w *AsyncWriter) syncUnderlying() error {
	if syncer, ok := w.out.(interface{ Sync() error }); ok {
		err := syncer.Sync()
		if err != nil {
			return ewrap.Wrap(err, "syncing underlying writer")
		}
	}

	return nil
}

func (w *AsyncWriter) closeUnderlying() error {
	if closer, ok := w.out.(io.Closer); ok {
		if f, ok := closer.(*os.File); ok && isStandardStream(f) {
			return nil
		}

		err := closer.Close()
		if err != nil {
			return ewrap.Wrap(err, "closing underlying writer")
		}
	}

	return nil
}
