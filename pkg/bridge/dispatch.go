package bridge

import (
	"unicode/utf8"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logbridge"
)

var (
	// ErrUnsupportedHint is returned when a value asks for a presentation its
	// kind has no write procedure for.
	ErrUnsupportedHint = ewrap.New("display hint not supported for value kind")
	// ErrUnsupportedKind is returned for values outside the closed set of kinds.
	ErrUnsupportedKind = ewrap.New("unsupported value kind")
	// ErrInvalidText is returned for string values that are not valid UTF-8.
	ErrInvalidText = ewrap.New("text is not valid UTF-8")
)

// Dispatch writes v through the single write procedure matching its kind and
// display hint. Signed integers shown as hex or binary are written as the
// unsigned integer of the same width carrying the same bits.
//
//nolint:gosec // conversions below narrow bit patterns stored at the kind's width
func Dispatch(w FieldWriter, v logbridge.Value) error {
	switch v.Kind() {
	case logbridge.KindBool:
		if v.Hint() != logbridge.HintPlain {
			return unsupportedHint(v)
		}

		w.WriteBool(v.AsBool())
	case logbridge.KindFloat32:
		if v.Hint() != logbridge.HintPlain {
			return unsupportedHint(v)
		}

		w.WriteFloat32(v.AsFloat32())
	case logbridge.KindFloat64:
		if v.Hint() != logbridge.HintPlain {
			return unsupportedHint(v)
		}

		w.WriteFloat64(v.AsFloat64())
	case logbridge.KindString:
		if v.Hint() != logbridge.HintPlain {
			return unsupportedHint(v)
		}

		if !utf8.ValidString(v.AsString()) {
			return ewrap.Wrap(ErrInvalidText, "cannot write string value").
				WithMetadata("length", len(v.AsString()))
		}

		w.WriteString(v.AsString())
	case logbridge.KindInt8, logbridge.KindInt16, logbridge.KindInt32, logbridge.KindInt64,
		logbridge.KindUint8, logbridge.KindUint16, logbridge.KindUint32, logbridge.KindUint64:
		return dispatchInteger(w, v)
	case logbridge.KindInvalid:
		return ewrap.Wrap(ErrUnsupportedKind, "cannot write value").WithMetadata("kind", v.Kind().String())
	default:
		return ewrap.Wrap(ErrUnsupportedKind, "cannot write value").WithMetadata("kind", uint8(v.Kind()))
	}

	return nil
}

//nolint:gosec,cyclop // one case per kind and width
func dispatchInteger(w FieldWriter, v logbridge.Value) error {
	bits := v.Bits()

	switch v.Hint() {
	case logbridge.HintPlain:
		switch v.Kind() {
		case logbridge.KindInt8:
			w.WriteInt8(int8(bits))
		case logbridge.KindInt16:
			w.WriteInt16(int16(bits))
		case logbridge.KindInt32:
			w.WriteInt32(int32(bits))
		case logbridge.KindInt64:
			w.WriteInt64(int64(bits))
		case logbridge.KindUint8:
			w.WriteUint8(uint8(bits))
		case logbridge.KindUint16:
			w.WriteUint16(uint16(bits))
		case logbridge.KindUint32:
			w.WriteUint32(uint32(bits))
		default:
			w.WriteUint64(bits)
		}
	case logbridge.HintHex:
		switch v.Kind().BitSize() {
		case 8:
			w.WriteHex8(uint8(bits))
		case 16:
			w.WriteHex16(uint16(bits))
		case 32:
			w.WriteHex32(uint32(bits))
		default:
			w.WriteHex64(bits)
		}
	case logbridge.HintBinary:
		switch v.Kind().BitSize() {
		case 8:
			w.WriteBin8(uint8(bits))
		case 16:
			w.WriteBin16(uint16(bits))
		case 32:
			w.WriteBin32(uint32(bits))
		default:
			w.WriteBin64(bits)
		}
	default:
		return unsupportedHint(v)
	}

	return nil
}

func unsupportedHint(v logbridge.Value) error {
	return ewrap.Wrap(ErrUnsupportedHint, "cannot write value").
		WithMetadata("kind", v.Kind().String()).
		WithMetadata("hint", v.Hint().String())
}
