// Package recordertest provides an in-memory recorder that counts every call
// it receives, for asserting on the bridge's lifecycle behaviour.
package recordertest

import (
	"encoding/binary"
	"strings"
	"sync"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

// Call is one procedure invocation seen by the recorder.
type Call struct {
	// Op is the procedure name, e.g. "StartRecord" or "LogHex16".
	Op string
	// Slot is the id of the record the call targeted (0 for Threshold).
	Slot uint64
	// Text is the rendered argument, empty for lifecycle calls.
	Text string
}

// Record is a completed record.
type Record struct {
	Context logbridge.Context
	Level   recorder.LogLevel
	// Parts holds the rendered value of each write.
	Parts []string
}

// Message concatenates every write of the record.
func (r Record) Message() string {
	return strings.Join(r.Parts, "")
}

type pending struct {
	ctx   logbridge.Context
	level recorder.LogLevel
	parts []string
}

// Recorder is a thread-safe recorder double.
type Recorder struct {
	mu sync.Mutex

	threshold  recorder.LogLevel
	thresholds map[logbridge.Context]recorder.LogLevel
	refuse     bool
	size       uintptr
	align      uintptr

	nextID  uint64
	open    map[uint64]*pending
	calls   []Call
	records []Record
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithThreshold sets the threshold returned for every context without an override.
func WithThreshold(level recorder.LogLevel) Option {
	return func(r *Recorder) {
		r.threshold = level
	}
}

// WithContextThreshold overrides the threshold of one context.
func WithContextThreshold(ctx string, level recorder.LogLevel) Option {
	return func(r *Recorder) {
		r.thresholds[logbridge.MustContext(ctx)] = level
	}
}

// WithRefusal makes StartRecord refuse every record.
func WithRefusal() Option {
	return func(r *Recorder) {
		r.refuse = true
	}
}

// WithLayout makes the recorder report a different SlotStorage layout.
func WithLayout(size, align uintptr) Option {
	return func(r *Recorder) {
		r.size = size
		r.align = align
	}
}

// New creates a recorder that accepts everything up to Verbose.
func New(opts ...Option) *Recorder {
	size, align := recorder.Layout()

	r := &Recorder{
		threshold:  recorder.LevelVerbose,
		thresholds: make(map[logbridge.Context]recorder.LogLevel),
		size:       size,
		align:      align,
		open:       make(map[uint64]*pending),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

var _ recorder.Recorder = (*Recorder)(nil)

// Threshold implements recorder.Recorder.
func (r *Recorder) Threshold(ctx logbridge.Context) recorder.LogLevel {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, Call{Op: "Threshold", Text: ctx.String()})

	if level, ok := r.thresholds[ctx]; ok {
		return level
	}

	return r.threshold
}

// StartRecord implements recorder.Recorder.
func (r *Recorder) StartRecord(ctx logbridge.Context, level recorder.LogLevel, slot *recorder.SlotStorage) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refuse {
		r.calls = append(r.calls, Call{Op: "StartRecord", Text: "refused"})

		return false
	}

	r.nextID++
	id := r.nextID

	binary.LittleEndian.PutUint64(slot.Bytes(), id)
	r.open[id] = &pending{ctx: ctx, level: level}
	r.calls = append(r.calls, Call{Op: "StartRecord", Slot: id, Text: level.String()})

	return true
}

// StopRecord implements recorder.Recorder.
func (r *Recorder) StopRecord(slot *recorder.SlotStorage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := binary.LittleEndian.Uint64(slot.Bytes())
	r.calls = append(r.calls, Call{Op: "StopRecord", Slot: id})

	record, ok := r.open[id]
	if !ok {
		return
	}

	delete(r.open, id)
	r.records = append(r.records, Record{Context: record.ctx, Level: record.level, Parts: record.parts})
}

func (r *Recorder) write(op string, slot *recorder.SlotStorage, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := binary.LittleEndian.Uint64(slot.Bytes())
	r.calls = append(r.calls, Call{Op: op, Slot: id, Text: text})

	if record, ok := r.open[id]; ok {
		record.parts = append(record.parts, text)
	}
}

// LogBool implements recorder.Recorder.
func (r *Recorder) LogBool(slot *recorder.SlotStorage, v bool) {
	r.write("LogBool", slot, logbridge.Bool(v).String())
}

// LogFloat32 implements recorder.Recorder.
func (r *Recorder) LogFloat32(slot *recorder.SlotStorage, v float32) {
	r.write("LogFloat32", slot, logbridge.Float32(v).String())
}

// LogFloat64 implements recorder.Recorder.
func (r *Recorder) LogFloat64(slot *recorder.SlotStorage, v float64) {
	r.write("LogFloat64", slot, logbridge.Float64(v).String())
}

// LogString implements recorder.Recorder.
func (r *Recorder) LogString(slot *recorder.SlotStorage, v string) {
	r.write("LogString", slot, v)
}

// LogInt8 implements recorder.Recorder.
func (r *Recorder) LogInt8(slot *recorder.SlotStorage, v int8) {
	r.write("LogInt8", slot, logbridge.Int8(v).String())
}

// LogInt16 implements recorder.Recorder.
func (r *Recorder) LogInt16(slot *recorder.SlotStorage, v int16) {
	r.write("LogInt16", slot, logbridge.Int16(v).String())
}

// LogInt32 implements recorder.Recorder.
func (r *Recorder) LogInt32(slot *recorder.SlotStorage, v int32) {
	r.write("LogInt32", slot, logbridge.Int32(v).String())
}

// LogInt64 implements recorder.Recorder.
func (r *Recorder) LogInt64(slot *recorder.SlotStorage, v int64) {
	r.write("LogInt64", slot, logbridge.Int64(v).String())
}

// LogUint8 implements recorder.Recorder.
func (r *Recorder) LogUint8(slot *recorder.SlotStorage, v uint8) {
	r.write("LogUint8", slot, logbridge.Uint8(v).String())
}

// LogUint16 implements recorder.Recorder.
func (r *Recorder) LogUint16(slot *recorder.SlotStorage, v uint16) {
	r.write("LogUint16", slot, logbridge.Uint16(v).String())
}

// LogUint32 implements recorder.Recorder.
func (r *Recorder) LogUint32(slot *recorder.SlotStorage, v uint32) {
	r.write("LogUint32", slot, logbridge.Uint32(v).String())
}

// LogUint64 implements recorder.Recorder.
func (r *Recorder) LogUint64(slot *recorder.SlotStorage, v uint64) {
	r.write("LogUint64", slot, logbridge.Uint64(v).String())
}

// LogHex8 implements recorder.Recorder.
func (r *Recorder) LogHex8(slot *recorder.SlotStorage, v uint8) {
	r.write("LogHex8", slot, logbridge.Uint8(v).Hex().String())
}

// LogHex16 implements recorder.Recorder.
func (r *Recorder) LogHex16(slot *recorder.SlotStorage, v uint16) {
	r.write("LogHex16", slot, logbridge.Uint16(v).Hex().String())
}

// LogHex32 implements recorder.Recorder.
func (r *Recorder) LogHex32(slot *recorder.SlotStorage, v uint32) {
	r.write("LogHex32", slot, logbridge.Uint32(v).Hex().String())
}

// LogHex64 implements recorder.Recorder.
func (r *Recorder) LogHex64(slot *recorder.SlotStorage, v uint64) {
	r.write("LogHex64", slot, logbridge.Uint64(v).Hex().String())
}

// LogBin8 implements recorder.Recorder.
func (r *Recorder) LogBin8(slot *recorder.SlotStorage, v uint8) {
	r.write("LogBin8", slot, logbridge.Uint8(v).Bin().String())
}

// LogBin16 implements recorder.Recorder.
func (r *Recorder) LogBin16(slot *recorder.SlotStorage, v uint16) {
	r.write("LogBin16", slot, logbridge.Uint16(v).Bin().String())
}

// LogBin32 implements recorder.Recorder.
func (r *Recorder) LogBin32(slot *recorder.SlotStorage, v uint32) {
	r.write("LogBin32", slot, logbridge.Uint32(v).Bin().String())
}

// LogBin64 implements recorder.Recorder.
func (r *Recorder) LogBin64(slot *recorder.SlotStorage, v uint64) {
	r.write("LogBin64", slot, logbridge.Uint64(v).Bin().String())
}

// SlotSize implements recorder.Recorder.
func (r *Recorder) SlotSize() uintptr {
	return r.size
}

// SlotAlignment implements recorder.Recorder.
func (r *Recorder) SlotAlignment() uintptr {
	return r.align
}

// Calls returns a copy of every call seen so far.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Call(nil), r.calls...)
}

// Count returns how many times op was called.
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0

	for _, call := range r.calls {
		if call.Op == op {
			count++
		}
	}

	return count
}

// Writes returns the number of write procedures called.
func (r *Recorder) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0

	for _, call := range r.calls {
		if strings.HasPrefix(call.Op, "Log") {
			count++
		}
	}

	return count
}

// Records returns the completed records.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Record(nil), r.records...)
}

// OpenSlots returns the number of records started but not stopped.
func (r *Recorder) OpenSlots() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.open)
}

// Reset forgets every call and record.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = nil
	r.records = nil
	r.open = make(map[uint64]*pending)
}
