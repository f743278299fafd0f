package logbridge

import (
	"math"
	"strconv"
)

// Kind identifies the primitive category carried by a Value.
type Kind uint8

const (
	// KindInvalid is the zero Kind; dispatching it fails.
	KindInvalid Kind = iota
	// KindBool carries a boolean.
	KindBool
	// KindFloat32 carries a 32-bit float.
	KindFloat32
	// KindFloat64 carries a 64-bit float.
	KindFloat64
	// KindString carries UTF-8 text.
	KindString
	// KindInt8 carries a signed 8-bit integer.
	KindInt8
	// KindInt16 carries a signed 16-bit integer.
	KindInt16
	// KindInt32 carries a signed 32-bit integer.
	KindInt32
	// KindInt64 carries a signed 64-bit integer.
	KindInt64
	// KindUint8 carries an unsigned 8-bit integer.
	KindUint8
	// KindUint16 carries an unsigned 16-bit integer.
	KindUint16
	// KindUint32 carries an unsigned 32-bit integer.
	KindUint32
	// KindUint64 carries an unsigned 64-bit integer.
	KindUint64
)

// String returns the Go spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	default:
		return "invalid"
	}
}

// IsInteger reports whether the kind is one of the eight integer kinds.
func (k Kind) IsInteger() bool {
	return k >= KindInt8 && k <= KindUint64
}

// IsSigned reports whether the kind is a signed integer kind.
func (k Kind) IsSigned() bool {
	return k >= KindInt8 && k <= KindInt64
}

// BitSize returns the width of numeric kinds in bits, 0 otherwise.
func (k Kind) BitSize() int {
	switch k {
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	default:
		return 0
	}
}

// DisplayHint selects the presentation of an integer value.
type DisplayHint uint8

const (
	// HintPlain writes the value in decimal (or its natural form for non-integers).
	HintPlain DisplayHint = iota
	// HintHex writes the value's bits in hexadecimal.
	HintHex
	// HintBinary writes the value's bits in binary.
	HintBinary
)

// String returns the name of the hint.
func (h DisplayHint) String() string {
	switch h {
	case HintPlain:
		return "plain"
	case HintHex:
		return "hex"
	case HintBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Value is a tagged variant over the closed set of primitive types the
// recorder accepts, plus the presentation requested for it.
//
// Numeric payloads are stored as their raw bit pattern truncated to the kind's
// width, so a signed value reinterpreted as unsigned keeps its exact bits.
type Value struct {
	text string
	bits uint64
	kind Kind
	hint DisplayHint
}

// Bool creates a boolean Value.
func Bool(v bool) Value {
	var bits uint64
	if v {
		bits = 1
	}

	return Value{kind: KindBool, bits: bits}
}

// Float32 creates a 32-bit float Value.
func Float32(v float32) Value {
	return Value{kind: KindFloat32, bits: uint64(math.Float32bits(v))}
}

// Float64 creates a 64-bit float Value.
func Float64(v float64) Value {
	return Value{kind: KindFloat64, bits: math.Float64bits(v)}
}

// Str creates a text Value.
func Str(v string) Value {
	return Value{kind: KindString, text: v}
}

// Int8 creates a signed 8-bit Value.
func Int8(v int8) Value {
	return Value{kind: KindInt8, bits: uint64(uint8(v))}
}

// Int16 creates a signed 16-bit Value.
func Int16(v int16) Value {
	return Value{kind: KindInt16, bits: uint64(uint16(v))}
}

// Int32 creates a signed 32-bit Value.
func Int32(v int32) Value {
	return Value{kind: KindInt32, bits: uint64(uint32(v))}
}

// Int64 creates a signed 64-bit Value.
func Int64(v int64) Value {
	return Value{kind: KindInt64, bits: uint64(v)}
}

// Int creates a signed 64-bit Value from an int.
func Int(v int) Value {
	return Int64(int64(v))
}

// Uint8 creates an unsigned 8-bit Value.
func Uint8(v uint8) Value {
	return Value{kind: KindUint8, bits: uint64(v)}
}

// Uint16 creates an unsigned 16-bit Value.
func Uint16(v uint16) Value {
	return Value{kind: KindUint16, bits: uint64(v)}
}

// Uint32 creates an unsigned 32-bit Value.
func Uint32(v uint32) Value {
	return Value{kind: KindUint32, bits: uint64(v)}
}

// Uint64 creates an unsigned 64-bit Value.
func Uint64(v uint64) Value {
	return Value{kind: KindUint64, bits: v}
}

// Uint creates an unsigned 64-bit Value from a uint.
func Uint(v uint) Value {
	return Uint64(uint64(v))
}

// Hex returns a copy of v presented in hexadecimal.
func (v Value) Hex() Value {
	return v.WithHint(HintHex)
}

// Bin returns a copy of v presented in binary.
func (v Value) Bin() Value {
	return v.WithHint(HintBinary)
}

// WithHint returns a copy of v with the given presentation.
func (v Value) WithHint(hint DisplayHint) Value {
	v.hint = hint

	return v
}

// Kind returns the value's category.
func (v Value) Kind() Kind {
	return v.kind
}

// Hint returns the requested presentation.
func (v Value) Hint() DisplayHint {
	return v.hint
}

// Bits returns the raw bit pattern, zero-extended from the kind's width.
func (v Value) Bits() uint64 {
	return v.bits
}

// AsBool returns the boolean payload.
func (v Value) AsBool() bool {
	return v.bits != 0
}

// AsFloat32 returns the 32-bit float payload.
func (v Value) AsFloat32() float32 {
	return math.Float32frombits(uint32(v.bits)) //nolint:gosec // stored from a uint32
}

// AsFloat64 returns the 64-bit float payload.
func (v Value) AsFloat64() float64 {
	return math.Float64frombits(v.bits)
}

// AsString returns the text payload.
func (v Value) AsString() string {
	return v.text
}

// AsInt64 returns integer payloads sign-extended according to the kind.
//
//nolint:gosec // intentional bit reinterpretation
func (v Value) AsInt64() int64 {
	switch v.kind {
	case KindInt8:
		return int64(int8(v.bits))
	case KindInt16:
		return int64(int16(v.bits))
	case KindInt32:
		return int64(int32(v.bits))
	default:
		return int64(v.bits)
	}
}

// AsUint64 returns the integer payload as unsigned, without sign extension.
func (v Value) AsUint64() uint64 {
	return v.bits
}

// String renders the value the way the reference recorders do.
//
//nolint:gosec // intentional bit reinterpretation
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.AsBool())
	case KindFloat32:
		return strconv.FormatFloat(float64(v.AsFloat32()), 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.AsFloat64(), 'g', -1, 64)
	case KindString:
		return v.text
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64:
		return FormatInteger(v.bits, v.kind.BitSize(), v.kind.IsSigned(), v.hint)
	default:
		return "<invalid>"
	}
}

// FormatInteger renders an integer bit pattern of the given width. Hex output
// is zero-padded and prefixed with 0x, binary output with 0b; plain output is
// decimal, signed when requested.
//
//nolint:gosec // intentional bit reinterpretation
func FormatInteger(bits uint64, width int, signed bool, hint DisplayHint) string {
	switch hint {
	case HintHex:
		digits := strconv.FormatUint(bits, 16)

		return "0x" + leftPad(toUpperHex(digits), width/4)
	case HintBinary:
		return "0b" + leftPad(strconv.FormatUint(bits, 2), width)
	default:
		if !signed {
			return strconv.FormatUint(bits, 10)
		}

		shift := 64 - width

		return strconv.FormatInt(int64(bits<<shift)>>shift, 10)
	}
}

func leftPad(digits string, width int) string {
	if len(digits) >= width {
		return digits
	}

	buf := make([]byte, width)
	pad := width - len(digits)

	for i := range pad {
		buf[i] = '0'
	}

	copy(buf[pad:], digits)

	return string(buf)
}

func toUpperHex(digits string) string {
	out := []byte(digits)
	for i, c := range out {
		if c >= 'a' && c <= 'f' {
			out[i] = c - ('a' - 'A')
		}
	}

	return string(out)
}
