package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyp3rd/ewrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closableBuffer struct {
	*bytes.Buffer
	closed bool
}

func (c *closableBuffer) Close() error {
	c.closed = true

	return nil
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, ewrap.New("disk on fire") }
func (failingWriter) Sync() error              { return ewrap.New("cannot sync") }
func (failingWriter) Close() error             { return nil }

func TestNewWriterAdapter(t *testing.T) {
	cb := &closableBuffer{Buffer: bytes.NewBuffer(nil)}
	adapter := NewWriterAdapter(cb)

	_, err := adapter.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", cb.String())

	assert.NoError(t, adapter.Sync(), "sync should succeed even if unsupported")
	assert.NoError(t, adapter.Close())
	assert.True(t, cb.closed, "close should be forwarded to underlying writer")

	console := NewConsoleWriter(&bytes.Buffer{})
	assert.Same(t, console, NewWriterAdapter(console))
}

func TestWriterAdapterLeavesStandardStreamsOpen(t *testing.T) {
	adapter := NewWriterAdapter(os.Stdout)

	require.NoError(t, adapter.Sync())
	require.NoError(t, adapter.Close())

	_, err := os.Stdout.Stat()
	require.NoError(t, err)
}

func TestNewFileWriter(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name        string
		config      FileConfig
		expectError bool
	}{
		{
			name:   "valid config",
			config: FileConfig{Path: filepath.Join(tempDir, "test.log"), MaxSizeMB: 1, Compress: true},
		},
		{
			name:   "nested directory is created",
			config: FileConfig{Path: filepath.Join(tempDir, "a", "b", "test.log")},
		},
		{
			name:        "empty path",
			config:      FileConfig{},
			expectError: true,
		},
		{
			name:        "traversal",
			config:      FileConfig{Path: "../../etc/passwd"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer, err := NewFileWriter(tt.config)
			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, writer)

				return
			}

			require.NoError(t, err)
			assert.DirExists(t, filepath.Dir(writer.Path()))
			require.NoError(t, writer.Close())
		})
	}
}

func TestFileWriterWriteRotateClose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	writer, err := NewFileWriter(FileConfig{Path: logPath})
	require.NoError(t, err)

	testData := []byte("test log entry\n")

	n, err := writer.Write(testData)
	require.NoError(t, err)
	assert.Equal(t, len(testData), n)
	require.NoError(t, writer.Sync())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, testData, content)

	require.NoError(t, writer.Rotate())

	entries, err := os.ReadDir(filepath.Dir(logPath))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "rotation keeps the previous file as a backup")

	require.NoError(t, writer.Close())
	require.NoError(t, writer.Close())

	_, err = writer.Write(testData)
	require.ErrorIs(t, err, ErrWriterClosed)
	require.ErrorIs(t, writer.Rotate(), ErrWriterClosed)
}

func TestConsoleWriter(t *testing.T) {
	buf := &closableBuffer{Buffer: &bytes.Buffer{}}
	writer := NewConsoleWriter(buf)

	n, err := writer.Write([]byte("[ INFO] ready\n"))
	require.NoError(t, err)
	assert.Equal(t, 14, n)
	assert.Equal(t, "[ INFO] ready\n", buf.String())

	assert.False(t, writer.IsTerminal())
	assert.Same(t, buf, writer.Underlying())
	require.NoError(t, writer.Sync())
	require.NoError(t, writer.Close())
	assert.True(t, buf.closed)

	assert.Equal(t, os.Stdout, NewConsoleWriter(nil).Underlying())
}

func TestMultiWriter(t *testing.T) {
	first := &bytes.Buffer{}
	second := &bytes.Buffer{}

	_, err := NewMultiWriter()
	require.ErrorIs(t, err, ErrNoWriters)

	_, err = NewMultiWriter(nil, nil)
	require.ErrorIs(t, err, ErrNoWriters)

	multi, err := NewMultiWriter(NewWriterAdapter(first), nil)
	require.NoError(t, err)
	require.Len(t, multi.Writers, 1)

	secondWriter := NewWriterAdapter(second)
	require.NoError(t, multi.AddWriter(secondWriter))
	require.Error(t, multi.AddWriter(secondWriter))
	require.Error(t, multi.AddWriter(nil))

	n, err := multi.Write([]byte("both\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "both\n", first.String())
	assert.Equal(t, "both\n", second.String())

	require.NoError(t, multi.Sync())
	require.NoError(t, multi.Close())
	assert.Empty(t, multi.Writers)
}

func TestMultiWriterPartialFailure(t *testing.T) {
	good := &bytes.Buffer{}

	multi, err := NewMultiWriter(failingWriter{}, NewWriterAdapter(good))
	require.NoError(t, err)

	n, err := multi.Write([]byte("x"))
	require.Error(t, err)
	assert.Equal(t, 1, n, "one writer succeeded")
	assert.Equal(t, "x", good.String())

	require.Error(t, multi.Sync())

	onlyBad, err := NewMultiWriter(failingWriter{})
	require.NoError(t, err)

	n, err = onlyBad.Write([]byte("x"))
	require.Error(t, err)
	assert.Zero(t, n)
}

func TestHasTTY(t *testing.T) {
	buf := &bytes.Buffer{}

	assert.False(t, HasTTY(nil))
	assert.False(t, HasTTY(buf))
	assert.False(t, HasTTY(NewWriterAdapter(buf)))
	assert.False(t, HasTTY(&ConsoleWriter{out: buf}))
	assert.True(t, HasTTY(&ConsoleWriter{out: buf, isTerminal: true}))

	multi, err := NewMultiWriter(NewWriterAdapter(buf), &ConsoleWriter{out: buf, isTerminal: true})
	require.NoError(t, err)
	assert.True(t, HasTTY(multi))

	async := NewAsyncWriter(multi, AsyncConfig{})
	defer async.Close()

	assert.True(t, HasTTY(async))
}
