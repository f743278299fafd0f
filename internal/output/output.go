// Package output provides the destinations the bundled recorders write
// encoded records to.
//
// Each writer implements the Writer interface, which extends io.Writer with
// methods for synchronization and cleanup:
//
//	type Writer interface {
//	    io.Writer
//	    Sync() error  // Ensures all data is written
//	    Close() error // Releases resources
//	}
//
// FileWriter appends to a log file rotated by size, age and backup count,
// optionally gzipping the rotated files. ConsoleWriter writes to a terminal
// stream and remembers whether it is attached to a TTY so that encoders can
// decide on colors. MultiWriter fans a record out to several destinations and
// AsyncWriter moves the actual I/O onto a background goroutine.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hyp3rd/ewrap"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hyp3rd/logbridge/internal/utils"
)

const (
	defaultMaxSizeMB = 100
	logDirPerms      = 0o700
)

// FileConfig holds configuration for file output.
type FileConfig struct {
	// Path is the log file path.
	Path string
	// MaxSizeMB is the size in megabytes the file may reach before rotation.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept (0 keeps all).
	MaxBackups int
	// MaxAgeDays is the number of days rotated files are kept (0 keeps all).
	MaxAgeDays int
	// Compress gzips rotated files.
	Compress bool
	// LocalTime uses local time in the names of rotated files.
	LocalTime bool
}

// FileWriter implements Writer on top of a rotating lumberjack logger.
type FileWriter struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
	path   string
	closed bool
}

// NewFileWriter creates a file-based writer. Relative paths are resolved with
// utils.SecurePath; the parent directory is created when missing.
func NewFileWriter(config FileConfig) (*FileWriter, error) {
	if config.Path == "" {
		return nil, ewrap.New("log file path is required")
	}

	path := filepath.Clean(config.Path)

	if !filepath.IsAbs(path) {
		securePath, err := utils.SecurePath(path)
		if err != nil {
			return nil, ewrap.Wrap(err, "invalid log file path")
		}

		path = securePath
	}

	if config.MaxSizeMB <= 0 {
		config.MaxSizeMB = defaultMaxSizeMB
	}

	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, logDirPerms)
	if err != nil {
		return nil, ewrap.Wrapf(err, "creating log directory").
			WithMetadata("path", dir)
	}

	return &FileWriter{
		path: path,
		logger: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAgeDays,
			Compress:   config.Compress,
			LocalTime:  config.LocalTime,
		},
	}, nil
}

// Path returns the resolved path of the active log file.
func (w *FileWriter) Path() string {
	return w.path
}

// Write appends data to the log file, rotating it first when data would push
// it over the size limit.
func (w *FileWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, ErrWriterClosed
	}

	n, err := w.logger.Write(data)
	if err != nil {
		return n, ewrap.Wrap(err, "failed writing to log file").
			WithMetadata("path", w.path)
	}

	return n, nil
}

// Rotate closes the active file, renames it with a timestamp and opens a new
// one. Typically wired to SIGHUP.
func (w *FileWriter) Rotate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWriterClosed
	}

	err := w.logger.Rotate()
	if err != nil {
		return ewrap.Wrapf(err, "rotating log file").
			WithMetadata("path", w.path)
	}

	return nil
}

// Sync is a no-op: every Write goes straight to the file.
func (*FileWriter) Sync() error {
	return nil
}

// Close closes the log file. Closing twice is not an error.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true

	err := w.logger.Close()
	if err != nil {
		return ewrap.Wrapf(err, "closing log file")
	}

	return nil
}

// ConsoleWriter writes records to a console stream.
type ConsoleWriter struct {
	mu         sync.Mutex
	out        io.Writer
	isTerminal bool
}

// NewConsoleWriter creates a ConsoleWriter. A nil out defaults to os.Stdout.
func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	if out == nil {
		out = os.Stdout
	}

	return &ConsoleWriter{
		out:        out,
		isTerminal: IsTerminal(out),
	}
}

// IsTerminal reports whether the console is attached to a TTY.
func (w *ConsoleWriter) IsTerminal() bool {
	return w.isTerminal
}

// Underlying returns the wrapped stream.
func (w *ConsoleWriter) Underlying() io.Writer {
	return w.out
}

// Write implements io.Writer.
func (w *ConsoleWriter) Write(payload []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	bytesWritten, err := w.out.Write(payload)
	if err != nil {
		return bytesWritten, ewrap.Wrap(err, "failed writing to console output")
	}

	return bytesWritten, nil
}

// Sync synchronizes the underlying writer if it supports it. Standard streams
// are skipped.
func (w *ConsoleWriter) Sync() error {
	if f, ok := w.out.(*os.File); ok && isStandardStream(f) {
		return nil
	}

	if syncer, ok := w.out.(interface{ Sync() error }); ok {
		return syncer.Sync()
	}

	return nil
}

// Close closes the underlying writer unless it is a standard stream.
func (w *ConsoleWriter) Close() error {
	if f, ok := w.out.(*os.File); ok && isStandardStream(f) {
		return nil
	}

	if closer, ok := w.out.(io.Closer); ok {
		err := closer.Close()
		if err != nil {
			return ewrap.Wrap(err, "closing console writer")
		}
	}

	return nil
}

// MultiWriter combines multiple writers into one.
type MultiWriter struct {
	mu sync.RWMutex

	Writers     []Writer
	writerNames map[Writer]string
}

// NewMultiWriter creates a writer that writes to all provided writers. Nil
// writers are skipped; ErrNoWriters is returned when none remain.
func NewMultiWriter(writers ...Writer) (*MultiWriter, error) {
	validWriters := make([]Writer, 0, len(writers))
	writerNames := make(map[Writer]string, len(writers))

	for i, w := range writers {
		if w == nil {
			continue
		}

		validWriters = append(validWriters, w)
		writerNames[w] = fmt.Sprintf("%T[%d]", w, i)
	}

	if len(validWriters) == 0 {
		return nil, ErrNoWriters
	}

	return &MultiWriter{
		Writers:     validWriters,
		writerNames: writerNames,
	}, nil
}

// AddWriter appends a writer. Nil and duplicate writers are rejected.
func (mw *MultiWriter) AddWriter(writer Writer) error {
	if writer == nil {
		return ewrap.New("cannot add nil writer")
	}

	mw.mu.Lock()
	defer mw.mu.Unlock()

	for _, existing := range mw.Writers {
		if existing == writer {
			return ewrap.New("writer already exists in MultiWriter")
		}
	}

	mw.Writers = append(mw.Writers, writer)
	mw.writerNames[writer] = fmt.Sprintf("%T[%d]", writer, len(mw.Writers)-1)

	return nil
}

// Write sends payload to every writer. The write counts as successful when
// at least one writer accepted the whole payload; failures are still reported.
func (mw *MultiWriter) Write(payload []byte) (int, error) {
	mw.mu.RLock()
	defer mw.mu.RUnlock()

	if len(mw.Writers) == 0 {
		return 0, nil
	}

	var failed []string

	successCount := 0

	for _, writer := range mw.Writers {
		bytesWritten, err := writer.Write(payload)

		switch {
		case err != nil:
			failed = append(failed, fmt.Sprintf("%s: %v", mw.writerNames[writer], err))
		case bytesWritten != len(payload):
			failed = append(failed,
				fmt.Sprintf("%s: wrote %d/%d bytes", mw.writerNames[writer], bytesWritten, len(payload)))
		default:
			successCount++
		}
	}

	if len(failed) == 0 {
		return len(payload), nil
	}

	err := ewrap.New("write operation partially failed").
		WithMetadata("failed_writes", strings.Join(failed, "; ")).
		WithMetadata("succeeded", successCount).
		WithMetadata("total_writers", len(mw.Writers))

	if successCount > 0 {
		return len(payload), err
	}

	return 0, err
}

// Sync syncs every writer and reports the ones that failed.
func (mw *MultiWriter) Sync() error {
	mw.mu.RLock()
	defer mw.mu.RUnlock()

	var syncErrors []string

	for _, writer := range mw.Writers {
		err := writer.Sync()
		if err != nil {
			syncErrors = append(syncErrors, fmt.Sprintf("%T: %v", writer, err))
		}
	}

	if len(syncErrors) > 0 {
		return ewrap.New("sync operation partially failed").
			WithMetadata("failed_syncs", syncErrors).
			WithMetadata("total_writers", len(mw.Writers))
	}

	return nil
}

// Close closes every writer and empties the MultiWriter.
func (mw *MultiWriter) Close() error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	var closeErrors []string

	for _, writer := range mw.Writers {
		err := writer.Close()
		if err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("%T: %v", writer, err))
		}
	}

	mw.Writers = nil

	if len(closeErrors) > 0 {
		return ewrap.New("close operation partially failed").
			WithMetadata("failed_closes", closeErrors)
	}

	return nil
}

func wrapsStandardStream(writer Writer) bool {
	switch w := writer.(type) {
	case *writerAdapter:
		if f, ok := w.writer.(*os.File); ok {
			return isStandardStream(f)
		}
	case *ConsoleWriter:
		if f, ok := w.out.(*os.File); ok {
			return isStandardStream(f)
		}
	}

	return false
}

func isStandardStream(f *os.File) bool {
	return f == os.Stdout || f == os.Stderr
}

// IsTerminal reports whether w is a file descriptor attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// HasTTY reports whether any destination behind writer is a terminal. It
// looks through MultiWriter, AsyncWriter and adapters.
func HasTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	switch typedWriter := writer.(type) {
	case *MultiWriter:
		typedWriter.mu.RLock()
		defer typedWriter.mu.RUnlock()

		for _, inner := range typedWriter.Writers {
			if HasTTY(inner) {
				return true
			}
		}

		return false
	case *ConsoleWriter:
		return typedWriter.isTerminal
	case interface{ Underlying() io.Writer }:
		return HasTTY(typedWriter.Underlying())
	default:
		return IsTerminal(writer)
	}
}
