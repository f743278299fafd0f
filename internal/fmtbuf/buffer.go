// Package fmtbuf implements a fixed-capacity text buffer that never splits a
// UTF-8 sequence.
//
// One byte of the capacity is always kept free, so a buffer of capacity n
// holds at most n-1 bytes of text. Writes that do not fit are cut at the last
// character boundary that does.
package fmtbuf

import (
	"unicode/utf8"

	"github.com/hyp3rd/ewrap"
)

var (
	// ErrBufferFull is returned when not a single byte of the input fits.
	ErrBufferFull = ewrap.New("buffer full")
	// ErrTruncated is returned when only a prefix of the input was written.
	ErrTruncated = ewrap.New("write truncated")
)

// maxContinuation is the number of continuation bytes a UTF-8 sequence can have.
const maxContinuation = utf8.UTFMax - 1

// Buffer is a bounded text accumulator over caller-provided storage.
// The written prefix is always valid UTF-8.
type Buffer struct {
	storage []byte
	pos     int
}

// New returns a buffer writing into storage. The buffer never grows.
func New(storage []byte) *Buffer {
	return &Buffer{storage: storage}
}

// WriteString appends as much of s as fits. It returns the number of bytes
// taken from s, with ErrTruncated when some were dropped and ErrBufferFull
// when none fit. Each run of invalid bytes is stored as one U+FFFD; the count
// still refers to s, so it never exceeds len(s).
func (b *Buffer) WriteString(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	if !utf8.ValidString(s) {
		return b.writeSanitized(s)
	}

	budget := min(len(s), b.Available())
	if budget < len(s) {
		budget = FloorCharBoundary(s, budget)
	}

	if budget == 0 {
		return 0, ewrap.Wrap(ErrBufferFull, "no room left").
			WithMetadata("capacity", len(b.storage)).
			WithMetadata("requested", len(s))
	}

	b.pos += copy(b.storage[b.pos:], s[:budget])

	if budget < len(s) {
		return budget, ewrap.Wrap(ErrTruncated, "text cut at character boundary").
			WithMetadata("written", budget).
			WithMetadata("requested", len(s))
	}

	return budget, nil
}

// writeSanitized copies s rune by rune, replacing invalid runs, and stops at
// the first rune that does not fit.
func (b *Buffer) writeSanitized(s string) (int, error) {
	consumed := 0

	for consumed < len(s) {
		size := validPrefix(s[consumed:])
		chunk := s[consumed : consumed+size]

		if size == 0 {
			size = invalidRun(s[consumed:])
			chunk = string(utf8.RuneError)
		}

		if len(chunk) > b.Available() {
			break
		}

		b.pos += copy(b.storage[b.pos:], chunk)
		consumed += size
	}

	switch {
	case consumed == 0:
		return 0, ewrap.Wrap(ErrBufferFull, "no room left").
			WithMetadata("capacity", len(b.storage)).
			WithMetadata("requested", len(s))
	case consumed < len(s):
		return consumed, ewrap.Wrap(ErrTruncated, "text cut at character boundary").
			WithMetadata("written", consumed).
			WithMetadata("requested", len(s))
	default:
		return consumed, nil
	}
}

// validPrefix returns the length of the first rune of s, or 0 when s starts
// with an invalid byte.
func validPrefix(s string) int {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 1 {
		return 0
	}

	return size
}

// invalidRun returns how many leading bytes of s are invalid.
func invalidRun(s string) int {
	n := 0
	for n < len(s) && validPrefix(s[n:]) == 0 {
		n++
	}

	return n
}

// Write implements io.Writer with the same truncation rules as WriteString.
// A truncated write is reported as an error, as io.Writer requires for short
// writes.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.WriteString(string(p))
}

// FloorCharBoundary returns the largest index i <= n such that s[:i] ends on
// a character boundary. At most three bytes are scanned back, since a UTF-8
// sequence has at most three continuation bytes.
func FloorCharBoundary(s string, n int) int {
	if n >= len(s) {
		return len(s)
	}

	if n <= 0 {
		return 0
	}

	lower := max(n-maxContinuation, 0)

	for i := n; i >= lower; i-- {
		if utf8.RuneStart(s[i]) {
			return i
		}
	}

	return lower
}

// Revert moves the cursor back by n bytes, stopping at zero. If that lands
// inside a multi-byte character the whole character is dropped.
func (b *Buffer) Revert(n int) {
	if n <= 0 {
		return
	}

	b.pos = max(b.pos-n, 0)

	for b.pos > 0 && !utf8.RuneStart(b.storage[b.pos]) {
		b.pos--
	}
}

// Available returns how many more bytes can be written.
func (b *Buffer) Available() int {
	return max(len(b.storage)-b.pos-1, 0)
}

// Bytes returns the written text. The slice aliases the storage.
func (b *Buffer) Bytes() []byte {
	return b.storage[:b.pos]
}

// String returns a copy of the written text.
func (b *Buffer) String() string {
	return string(b.storage[:b.pos])
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return b.pos
}

// Cap returns the capacity of the storage.
func (b *Buffer) Cap() int {
	return len(b.storage)
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.pos = 0
}
