package logbridge

import (
	"github.com/hyp3rd/ewrap"
)

// ContextCapacity is the number of bytes a context tag can hold.
const ContextCapacity = 4

// DefaultContext is the tag used when a logger is built without one.
const DefaultContext = "DFLT"

// ErrNonASCIIContext is returned when a context tag contains a non-ASCII byte.
var ErrNonASCIIContext = ewrap.New("context contains non-ASCII characters")

// Context is a short, fixed-width tag identifying a log source.
//
// Up to ContextCapacity ASCII bytes are stored; unused bytes are zero. Longer
// input is truncated, non-ASCII input is rejected. Context is a comparable
// value type and is safe to copy.
type Context struct {
	data [ContextCapacity]byte
	size uint8
}

// NewContext encodes text into a Context. Text longer than ContextCapacity is
// truncated; text containing a non-ASCII byte is rejected with
// ErrNonASCIIContext.
func NewContext(text string) (Context, error) {
	for i := range len(text) {
		if text[i] >= asciiLimit {
			return Context{}, ewrap.Wrap(ErrNonASCIIContext, "invalid context").
				WithMetadata("context", text).
				WithMetadata("offset", i)
		}
	}

	var ctx Context

	ctx.size = uint8(copy(ctx.data[:], text)) //nolint:gosec // bounded by ContextCapacity

	return ctx, nil
}

// MustContext is like NewContext but panics when text is rejected.
func MustContext(text string) Context {
	ctx, err := NewContext(text)
	if err != nil {
		panic(err)
	}

	return ctx
}

// Len returns the logical length of the tag (0..ContextCapacity).
func (c Context) Len() int {
	return int(c.size)
}

// Bytes returns the logical bytes of the tag.
func (c Context) Bytes() []byte {
	out := c.data

	return out[:c.size]
}

// Raw returns the full fixed-width storage, zero padded.
func (c Context) Raw() [ContextCapacity]byte {
	return c.data
}

// String decodes the tag. Only ASCII is ever stored, so the bytes are always
// valid UTF-8.
func (c Context) String() string {
	return string(c.data[:c.size])
}

// IsZero reports whether the tag is empty.
func (c Context) IsZero() bool {
	return c.size == 0
}

const asciiLimit = 0x80
