package slottable

import (
	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

// LogBool implements recorder.Recorder.
func (t *Table) LogBool(slot *recorder.SlotStorage, v bool) { t.Append(slot, logbridge.Bool(v)) }

// LogFloat32 implements recorder.Recorder.
func (t *Table) LogFloat32(slot *recorder.SlotStorage, v float32) { t.Append(slot, logbridge.Float32(v)) }

// LogFloat64 implements recorder.Recorder.
func (t *Table) LogFloat64(slot *recorder.SlotStorage, v float64) { t.Append(slot, logbridge.Float64(v)) }

// LogString implements recorder.Recorder.
func (t *Table) LogString(slot *recorder.SlotStorage, v string) { t.Append(slot, logbridge.Str(v)) }

// LogInt8 implements recorder.Recorder.
func (t *Table) LogInt8(slot *recorder.SlotStorage, v int8) { t.Append(slot, logbridge.Int8(v)) }

// LogInt16 implements recorder.Recorder.
func (t *Table) LogInt16(slot *recorder.SlotStorage, v int16) { t.Append(slot, logbridge.Int16(v)) }

// LogInt32 implements recorder.Recorder.
func (t *Table) LogInt32(slot *recorder.SlotStorage, v int32) { t.Append(slot, logbridge.Int32(v)) }

// LogInt64 implements recorder.Recorder.
func (t *Table) LogInt64(slot *recorder.SlotStorage, v int64) { t.Append(slot, logbridge.Int64(v)) }

// LogUint8 implements recorder.Recorder.
func (t *Table) LogUint8(slot *recorder.SlotStorage, v uint8) { t.Append(slot, logbridge.Uint8(v)) }

// LogUint16 implements recorder.Recorder.
func (t *Table) LogUint16(slot *recorder.SlotStorage, v uint16) { t.Append(slot, logbridge.Uint16(v)) }

// LogUint32 implements recorder.Recorder.
func (t *Table) LogUint32(slot *recorder.SlotStorage, v uint32) { t.Append(slot, logbridge.Uint32(v)) }

// LogUint64 implements recorder.Recorder.
func (t *Table) LogUint64(slot *recorder.SlotStorage, v uint64) { t.Append(slot, logbridge.Uint64(v)) }

// LogHex8 implements recorder.Recorder.
func (t *Table) LogHex8(slot *recorder.SlotStorage, v uint8) { t.Append(slot, logbridge.Uint8(v).Hex()) }

// LogHex16 implements recorder.Recorder.
func (t *Table) LogHex16(slot *recorder.SlotStorage, v uint16) {
	t.Append(slot, logbridge.Uint16(v).Hex())
}

// LogHex32 implements recorder.Recorder.
func (t *Table) LogHex32(slot *recorder.SlotStorage, v uint32) {
	t.Append(slot, logbridge.Uint32(v).Hex())
}

// LogHex64 implements recorder.Recorder.
func (t *Table) LogHex64(slot *recorder.SlotStorage, v uint64) {
	t.Append(slot, logbridge.Uint64(v).Hex())
}

// LogBin8 implements recorder.Recorder.
func (t *Table) LogBin8(slot *recorder.SlotStorage, v uint8) { t.Append(slot, logbridge.Uint8(v).Bin()) }

// LogBin16 implements recorder.Recorder.
func (t *Table) LogBin16(slot *recorder.SlotStorage, v uint16) {
	t.Append(slot, logbridge.Uint16(v).Bin())
}

// LogBin32 implements recorder.Recorder.
func (t *Table) LogBin32(slot *recorder.SlotStorage, v uint32) {
	t.Append(slot, logbridge.Uint32(v).Bin())
}

// LogBin64 implements recorder.Recorder.
func (t *Table) LogBin64(slot *recorder.SlotStorage, v uint64) {
	t.Append(slot, logbridge.Uint64(v).Bin())
}

// SlotSize implements recorder.Recorder.
func (*Table) SlotSize() uintptr {
	size, _ := recorder.Layout()

	return size
}

// SlotAlignment implements recorder.Recorder.
func (*Table) SlotAlignment() uintptr {
	_, align := recorder.Layout()

	return align
}
