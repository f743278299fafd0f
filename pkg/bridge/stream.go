package bridge

import (
	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

// FieldWriter receives the primitive writes of one record.
type FieldWriter interface {
	WriteBool(v bool)
	WriteFloat32(v float32)
	WriteFloat64(v float64)
	WriteString(v string)

	WriteInt8(v int8)
	WriteInt16(v int16)
	WriteInt32(v int32)
	WriteInt64(v int64)

	WriteUint8(v uint8)
	WriteUint16(v uint16)
	WriteUint32(v uint32)
	WriteUint64(v uint64)

	WriteHex8(v uint8)
	WriteHex16(v uint16)
	WriteHex32(v uint32)
	WriteHex64(v uint64)

	WriteBin8(v uint8)
	WriteBin16(v uint16)
	WriteBin32(v uint32)
	WriteBin64(v uint64)
}

// Stream is one record in flight. It owns the slot storage the recorder
// filled in; recorders identify the record by that content, never by its
// address. Keep the value returned by Open in one variable and defer Close:
//
//	s := bridge.Open(rec, ctx, logbridge.LevelInfo)
//	defer s.Close()
//
// A refused stream accepts writes and Close calls but forwards nothing.
type Stream struct {
	rec  recorder.Recorder
	slot recorder.SlotStorage
	open bool
}

var _ FieldWriter = (*Stream)(nil)

// Open asks r to start a record at level under ctx. level must be an active
// level; Off panics with ErrOffIsNotALevel.
func Open(r recorder.Recorder, ctx logbridge.Context, level logbridge.Level) Stream {
	native := ToNative(level)

	stream := Stream{rec: r}
	stream.open = r.StartRecord(ctx, native, &stream.slot)

	return stream
}

// Scoped opens a stream, runs fn with it and closes it on every exit path,
// panics included.
func Scoped(r recorder.Recorder, ctx logbridge.Context, level logbridge.Level, fn func(*Stream) error) error {
	stream := Open(r, ctx, level)
	defer stream.Close()

	return fn(&stream)
}

// IsOpen reports whether the recorder accepted the record and it has not been
// closed yet.
func (s *Stream) IsOpen() bool {
	return s.open
}

// Close completes the record. Only the first call on an accepted stream
// reaches the recorder.
func (s *Stream) Close() {
	if !s.open {
		return
	}

	s.open = false
	s.rec.StopRecord(&s.slot)
}

// Write dispatches v to the matching write procedure.
func (s *Stream) Write(v logbridge.Value) error {
	if !s.open {
		return nil
	}

	return Dispatch(s, v)
}

// WriteBool implements FieldWriter.
func (s *Stream) WriteBool(v bool) {
	if s.open {
		s.rec.LogBool(&s.slot, v)
	}
}

// WriteFloat32 implements FieldWriter.
func (s *Stream) WriteFloat32(v float32) {
	if s.open {
		s.rec.LogFloat32(&s.slot, v)
	}
}

// WriteFloat64 implements FieldWriter.
func (s *Stream) WriteFloat64(v float64) {
	if s.open {
		s.rec.LogFloat64(&s.slot, v)
	}
}

// WriteString implements FieldWriter. The text must be valid UTF-8; Write
// checks that for string values.
func (s *Stream) WriteString(v string) {
	if s.open {
		s.rec.LogString(&s.slot, v)
	}
}

// WriteInt8 implements FieldWriter.
func (s *Stream) WriteInt8(v int8) {
	if s.open {
		s.rec.LogInt8(&s.slot, v)
	}
}

// WriteInt16 implements FieldWriter.
func (s *Stream) WriteInt16(v int16) {
	if s.open {
		s.rec.LogInt16(&s.slot, v)
	}
}

// WriteInt32 implements FieldWriter.
func (s *Stream) WriteInt32(v int32) {
	if s.open {
		s.rec.LogInt32(&s.slot, v)
	}
}

// WriteInt64 implements FieldWriter.
func (s *Stream) WriteInt64(v int64) {
	if s.open {
		s.rec.LogInt64(&s.slot, v)
	}
}

// WriteUint8 implements FieldWriter.
func (s *Stream) WriteUint8(v uint8) {
	if s.open {
		s.rec.LogUint8(&s.slot, v)
	}
}

// WriteUint16 implements FieldWriter.
func (s *Stream) WriteUint16(v uint16) {
	if s.open {
		s.rec.LogUint16(&s.slot, v)
	}
}

// WriteUint32 implements FieldWriter.
func (s *Stream) WriteUint32(v uint32) {
	if s.open {
		s.rec.LogUint32(&s.slot, v)
	}
}

// WriteUint64 implements FieldWriter.
func (s *Stream) WriteUint64(v uint64) {
	if s.open {
		s.rec.LogUint64(&s.slot, v)
	}
}

// WriteHex8 implements FieldWriter.
func (s *Stream) WriteHex8(v uint8) {
	if s.open {
		s.rec.LogHex8(&s.slot, v)
	}
}

// WriteHex16 implements FieldWriter.
func (s *Stream) WriteHex16(v uint16) {
	if s.open {
		s.rec.LogHex16(&s.slot, v)
	}
}

// WriteHex32 implements FieldWriter.
func (s *Stream) WriteHex32(v uint32) {
	if s.open {
		s.rec.LogHex32(&s.slot, v)
	}
}

// WriteHex64 implements FieldWriter.
func (s *Stream) WriteHex64(v uint64) {
	if s.open {
		s.rec.LogHex64(&s.slot, v)
	}
}

// WriteBin8 implements FieldWriter.
func (s *Stream) WriteBin8(v uint8) {
	if s.open {
		s.rec.LogBin8(&s.slot, v)
	}
}

// WriteBin16 implements FieldWriter.
func (s *Stream) WriteBin16(v uint16) {
	if s.open {
		s.rec.LogBin16(&s.slot, v)
	}
}

// WriteBin32 implements FieldWriter.
func (s *Stream) WriteBin32(v uint32) {
	if s.open {
		s.rec.LogBin32(&s.slot, v)
	}
}

// WriteBin64 implements FieldWriter.
func (s *Stream) WriteBin64(v uint64) {
	if s.open {
		s.rec.LogBin64(&s.slot, v)
	}
}
