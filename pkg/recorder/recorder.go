// Package recorder defines the boundary between the bridge and the component
// that persists records.
//
// A Recorder exposes a fixed procedure table: a threshold query, record
// start/stop, and one write procedure per primitive type and presentation.
// Exactly one Recorder is installed per process; the bridge fetches it with
// Get and never owns or releases it.
package recorder

import (
	"unsafe"

	"github.com/hyp3rd/logbridge"
)

// SlotStorageSize and SlotStorageAlign are the layout every recorder must
// agree on for SlotStorage. The alignment is that of uint64 on the target:
// 8 on 64-bit platforms, 4 on 386 and 32-bit arm.
const (
	SlotStorageSize  = 24
	SlotStorageAlign = unsafe.Alignof(uint64(0))
)

// SlotStorage is the opaque handle a recorder fills in when it accepts a
// record. The bridge only reserves the memory; its content belongs to the
// recorder between StartRecord and StopRecord.
type SlotStorage struct {
	_    [0]uint64
	data [SlotStorageSize]byte
}

// Bytes exposes the storage to the recorder that owns it.
func (s *SlotStorage) Bytes() []byte {
	return s.data[:]
}

// Reset zeroes the storage.
func (s *SlotStorage) Reset() {
	s.data = [SlotStorageSize]byte{}
}

// Layout reports the size and alignment of SlotStorage in this build.
func Layout() (size, align uintptr) {
	var storage SlotStorage

	return unsafe.Sizeof(storage), unsafe.Alignof(storage)
}

// Recorder is the procedure table of an external log recorder.
//
// Implementations must be safe for concurrent use. Write procedures are only
// called with a slot the recorder accepted in StartRecord and not yet released
// with StopRecord.
type Recorder interface {
	// Threshold returns the most verbose level accepted for ctx.
	Threshold(ctx logbridge.Context) LogLevel
	// StartRecord reserves a record and fills slot. It returns false when the
	// record is refused; slot is then left untouched.
	StartRecord(ctx logbridge.Context, level LogLevel, slot *SlotStorage) bool
	// StopRecord completes the record held in slot and makes it visible.
	StopRecord(slot *SlotStorage)

	LogBool(slot *SlotStorage, v bool)
	LogFloat32(slot *SlotStorage, v float32)
	LogFloat64(slot *SlotStorage, v float64)
	LogString(slot *SlotStorage, v string)

	LogInt8(slot *SlotStorage, v int8)
	LogInt16(slot *SlotStorage, v int16)
	LogInt32(slot *SlotStorage, v int32)
	LogInt64(slot *SlotStorage, v int64)

	LogUint8(slot *SlotStorage, v uint8)
	LogUint16(slot *SlotStorage, v uint16)
	LogUint32(slot *SlotStorage, v uint32)
	LogUint64(slot *SlotStorage, v uint64)

	LogHex8(slot *SlotStorage, v uint8)
	LogHex16(slot *SlotStorage, v uint16)
	LogHex32(slot *SlotStorage, v uint32)
	LogHex64(slot *SlotStorage, v uint64)

	LogBin8(slot *SlotStorage, v uint8)
	LogBin16(slot *SlotStorage, v uint16)
	LogBin32(slot *SlotStorage, v uint32)
	LogBin64(slot *SlotStorage, v uint64)

	// SlotSize and SlotAlignment report the SlotStorage layout the recorder
	// was built against.
	SlotSize() uintptr
	SlotAlignment() uintptr
}
