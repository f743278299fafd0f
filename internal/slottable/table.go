// Package slottable keeps the open records of a recorder in a fixed table.
//
// A record is identified by the index and generation stored in the caller's
// recorder.SlotStorage, so a slot released and reused by another record can
// never be written through a stale handle. Table also implements every write
// procedure of recorder.Recorder; recorders embed it and add the threshold
// and lifecycle procedures.
package slottable

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

// DefaultCapacity is the number of records that can be open at once.
const DefaultCapacity = 256

const (
	indexOffset      = 0
	generationOffset = 4
)

// Record is the content accumulated for one open record.
type Record struct {
	Context logbridge.Context
	Level   recorder.LogLevel
	Started time.Time
	// Text is the concatenation of every write in order.
	Text []byte
	// Args holds the non-text values written to the record.
	Args []logbridge.Value
}

// Message returns the record text.
func (r *Record) Message() string {
	return string(r.Text)
}

type entry struct {
	generation uint32
	used       bool
	record     Record
}

// Table is a fixed-capacity set of open records. It is safe for concurrent use.
type Table struct {
	mu      sync.Mutex
	entries []entry
	free    []uint32
	refused uint64
	now     func() time.Time
}

// New creates a table holding up to capacity open records. A non-positive
// capacity uses DefaultCapacity.
func New(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	t := &Table{
		entries: make([]entry, capacity),
		free:    make([]uint32, capacity),
		now:     time.Now,
	}

	for i := range t.free {
		// pop order hands out index 0 first
		t.free[i] = uint32(capacity - 1 - i) //nolint:gosec // capacity fits in uint32
	}

	return t
}

// Acquire opens a record and writes its handle into slot. It returns false,
// leaving slot untouched, when every entry is in use.
func (t *Table) Acquire(ctx logbridge.Context, level recorder.LogLevel, slot *recorder.SlotStorage) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.free) == 0 {
		t.refused++

		return false
	}

	index := t.free[len(t.free)-1]
	t.free = t.free[:len(t.free)-1]

	e := &t.entries[index]
	e.generation++

	if e.generation == 0 {
		e.generation = 1
	}

	e.used = true
	e.record = Record{Context: ctx, Level: level, Started: t.now()}

	buf := slot.Bytes()
	binary.LittleEndian.PutUint32(buf[indexOffset:], index)
	binary.LittleEndian.PutUint32(buf[generationOffset:], e.generation)

	return true
}

// Release closes the record held in slot and returns its content. The second
// result is false for handles that are unknown or already released.
func (t *Table) Release(slot *recorder.SlotStorage) (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, index := t.lookup(slot)
	if e == nil {
		return Record{}, false
	}

	record := e.record
	e.record = Record{}
	e.used = false
	t.free = append(t.free, index)

	return record, true
}

// Append adds v to the record held in slot. Writes through stale handles are
// ignored.
func (t *Table) Append(slot *recorder.SlotStorage, v logbridge.Value) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, _ := t.lookup(slot)
	if e == nil {
		return
	}

	if v.Kind() == logbridge.KindString {
		e.record.Text = append(e.record.Text, v.AsString()...)

		return
	}

	e.record.Text = append(e.record.Text, v.String()...)
	e.record.Args = append(e.record.Args, v)
}

// InUse returns the number of open records.
func (t *Table) InUse() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries) - len(t.free)
}

// Refused returns how many records were refused because the table was full.
func (t *Table) Refused() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.refused
}

func (t *Table) lookup(slot *recorder.SlotStorage) (*entry, uint32) {
	buf := slot.Bytes()
	index := binary.LittleEndian.Uint32(buf[indexOffset:])
	generation := binary.LittleEndian.Uint32(buf[generationOffset:])

	if int(index) >= len(t.entries) {
		return nil, 0
	}

	e := &t.entries[index]
	if !e.used || e.generation != generation {
		return nil, 0
	}

	return e, index
}
