package output

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyp3rd/ewrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/logbridge/internal/constants"
)

// mockWriter implements io.Writer with controllable behavior for testing.
type mockWriter struct {
	mu          sync.Mutex
	writtenData [][]byte
	writeError  error
	writeDelay  time.Duration
	gate        chan struct{}
	synced      int
}

func newMockWriter() *mockWriter {
	return &mockWriter{
		writtenData: make([][]byte, 0),
	}
}

func (m *mockWriter) Write(p []byte) (int, error) {
	m.mu.Lock()
	delay := m.writeDelay
	gate := m.gate
	writeErr := m.writeError
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}

	if delay > 0 {
		time.Sleep(delay)
	}

	if writeErr != nil {
		return 0, writeErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.writtenData = append(m.writtenData, append([]byte(nil), p...))

	return len(p), nil
}

func (m *mockWriter) Sync() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.synced++

	return nil
}

func (m *mockWriter) getWrittenData() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.writtenData
}

func (m *mockWriter) messages() []string {
	data := m.getWrittenData()
	out := make([]string, len(data))

	for i, d := range data {
		out[i] = string(d)
	}

	return out
}

func TestNewAsyncWriterDefaults(t *testing.T) {
	async := NewAsyncWriter(newMockWriter(), AsyncConfig{})
	defer async.Close()

	assert.Equal(t, defaultAsyncBufferSize, async.config.BufferSize)
	assert.Equal(t, constants.DefaultTimeout, async.config.WaitTimeout)
	assert.NotNil(t, async.config.ErrorHandler)
	assert.NotNil(t, async.config.DropHandler)
}

func TestAsyncWriterWriteAndFlush(t *testing.T) {
	writer := newMockWriter()

	async := NewAsyncWriter(writer, AsyncConfig{BufferSize: 16})

	data := []byte("test message")

	n, err := async.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	// the queued copy must not alias the caller's slice
	data[0] = 'X'

	require.NoError(t, async.Flush())
	assert.Equal(t, []string{"test message"}, writer.messages())

	metrics := async.Metrics()
	assert.Equal(t, uint64(1), metrics.Enqueued)
	assert.Equal(t, uint64(1), metrics.Processed)
	assert.Zero(t, metrics.QueueDepth)

	require.NoError(t, async.Close())
	assert.GreaterOrEqual(t, writer.synced, 2)
}

func TestAsyncWriterCloseDrainsQueue(t *testing.T) {
	writer := newMockWriter()
	writer.writeDelay = time.Millisecond

	async := NewAsyncWriter(writer, AsyncConfig{BufferSize: 64})

	for range 20 {
		_, err := async.Write([]byte("m"))
		require.NoError(t, err)
	}

	require.NoError(t, async.Close())
	assert.Len(t, writer.getWrittenData(), 20)

	_, err := async.Write([]byte("late"))
	require.ErrorIs(t, err, ErrWriterClosed)

	_, err = async.WriteCritical([]byte("late"))
	require.ErrorIs(t, err, ErrWriterClosed)

	require.ErrorIs(t, async.Flush(), ErrWriterClosed)
	require.ErrorIs(t, async.Close(), ErrWriterClosed)
}

func TestAsyncWriterOverflow(t *testing.T) {
	tests := []struct {
		name     string
		strategy AsyncOverflowStrategy
		dropped  string
		kept     []string
	}{
		{
			name:     "drop newest",
			strategy: AsyncOverflowDropNewest,
			dropped:  "third",
			kept:     []string{"first", "second"},
		},
		{
			name:     "drop oldest",
			strategy: AsyncOverflowDropOldest,
			dropped:  "second",
			kept:     []string{"first", "third"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := newMockWriter()
			writer.gate = make(chan struct{})

			var (
				mu      sync.Mutex
				dropped []string
			)

			async := NewAsyncWriter(writer, AsyncConfig{
				BufferSize:       1,
				OverflowStrategy: tt.strategy,
				DropHandler: func(p []byte) {
					mu.Lock()
					defer mu.Unlock()

					dropped = append(dropped, string(p))
				},
			})

			_, err := async.Write([]byte("first"))
			require.NoError(t, err)

			// wait until the goroutine holds "first" so the queue is empty
			require.Eventually(t, func() bool { return async.Metrics().QueueDepth == 0 }, time.Second, time.Millisecond)

			_, err = async.Write([]byte("second"))
			require.NoError(t, err)

			_, err = async.Write([]byte("third"))
			if tt.strategy == AsyncOverflowDropNewest {
				require.ErrorIs(t, err, ErrBufferFull)
			} else {
				require.NoError(t, err)
			}

			close(writer.gate)
			require.NoError(t, async.Close())

			assert.Equal(t, tt.kept, writer.messages())
			assert.Equal(t, []string{tt.dropped}, dropped)
			assert.Equal(t, uint64(1), async.Metrics().Dropped)
		})
	}
}

func TestAsyncWriterBlockUnblocksOnClose(t *testing.T) {
	writer := newMockWriter()
	writer.gate = make(chan struct{})

	async := NewAsyncWriter(writer, AsyncConfig{BufferSize: 1, OverflowStrategy: AsyncOverflowBlock})

	_, err := async.Write([]byte("first"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return async.Metrics().QueueDepth == 0 }, time.Second, time.Millisecond)

	_, err = async.Write([]byte("second"))
	require.NoError(t, err)

	var blocked atomic.Bool

	done := make(chan error, 1)

	go func() {
		blocked.Store(true)

		_, err := async.Write([]byte("third"))
		done <- err
	}()

	require.Eventually(t, blocked.Load, time.Second, time.Millisecond)

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(writer.gate)
	}()

	require.NoError(t, async.Close())

	select {
	case err := <-done:
		if err != nil {
			require.ErrorIs(t, err, ErrWriterClosed)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked writer was never released")
	}
}

func TestAsyncWriterWriteCritical(t *testing.T) {
	writer := newMockWriter()

	async := NewAsyncWriter(writer, AsyncConfig{BufferSize: 4})
	defer async.Close()

	_, err := async.WriteCritical([]byte("critical"))
	require.NoError(t, err)

	assert.Equal(t, []string{"critical"}, writer.messages())
	assert.Equal(t, uint64(1), async.Metrics().Bypassed)
}

func TestAsyncWriterWriteErrors(t *testing.T) {
	writer := newMockWriter()
	writer.writeError = ewrap.New("boom")

	var handled atomic.Int32

	async := NewAsyncWriter(writer, AsyncConfig{
		ErrorHandler: func(error) { handled.Add(1) },
	})

	_, err := async.Write([]byte("lost"))
	require.NoError(t, err)
	require.NoError(t, async.Flush())

	_, err = async.WriteCritical([]byte("lost too"))
	require.Error(t, err)

	require.NoError(t, async.Close())

	metrics := async.Metrics()
	assert.Equal(t, uint64(2), metrics.WriteError)
	assert.Equal(t, uint64(1), metrics.Dropped)
	assert.Equal(t, int32(2), handled.Load())
}

func TestAsyncWriterConcurrentWrites(t *testing.T) {
	writer := newMockWriter()

	async := NewAsyncWriter(writer, AsyncConfig{BufferSize: 1024, OverflowStrategy: AsyncOverflowBlock})

	var wg sync.WaitGroup

	for range 8 {
		wg.Go(func() {
			for range 50 {
				_, _ = async.Write([]byte("x"))
			}
		})
	}

	wg.Wait()
	require.NoError(t, async.Close())
	assert.Len(t, writer.getWrittenData(), 400)
}
