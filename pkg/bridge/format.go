package bridge

import (
	"strings"
	"unicode/utf8"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logbridge"
)

// placeholder is a parsed {...} directive.
type placeholder struct {
	text string
	hint logbridge.DisplayHint
	keep bool // use the argument's own hint
}

// parsePlaceholder recognises {} {:x} {:X} {:b} at the start of s.
func parsePlaceholder(s string) (placeholder, bool) {
	switch {
	case strings.HasPrefix(s, "{}"):
		return placeholder{text: "{}", keep: true}, true
	case strings.HasPrefix(s, "{:x}"), strings.HasPrefix(s, "{:X}"):
		return placeholder{text: s[:4], hint: logbridge.HintHex}, true
	case strings.HasPrefix(s, "{:b}"):
		return placeholder{text: s[:4], hint: logbridge.HintBinary}, true
	default:
		return placeholder{}, false
	}
}

// WriteFormat expands format into w. Literal text is written as string
// fields and each placeholder consumes the next argument:
//
//	{}     the argument as given
//	{:x}   hexadecimal ({:X} is accepted too)
//	{:b}   binary
//	{{ }}  literal braces
//
// A placeholder without an argument is written as literal text. Arguments
// left over after the template are appended, each preceded by a space. A
// failing argument does not abort the record; every failure is returned.
func WriteFormat(w FieldWriter, format string, args ...logbridge.Value) error {
	errs := ewrap.NewErrorGroup()

	var literal strings.Builder

	flush := func() {
		if literal.Len() == 0 {
			return
		}

		w.WriteString(strings.ToValidUTF8(literal.String(), string(utf8.RuneError)))
		literal.Reset()
	}

	next := 0

	for i := 0; i < len(format); {
		switch format[i] {
		case '{':
			if strings.HasPrefix(format[i:], "{{") {
				literal.WriteByte('{')

				i += 2

				continue
			}

			ph, ok := parsePlaceholder(format[i:])
			if !ok || next >= len(args) {
				if ok {
					literal.WriteString(ph.text)
					i += len(ph.text)
				} else {
					literal.WriteByte('{')
					i++
				}

				continue
			}

			arg := args[next]
			if !ph.keep {
				arg = arg.WithHint(ph.hint)
			}

			flush()

			err := Dispatch(w, arg)
			if err != nil {
				errs.Add(ewrap.Wrap(err, "failed to write argument").WithMetadata("index", next))
			}

			next++
			i += len(ph.text)
		case '}':
			literal.WriteByte('}')

			if strings.HasPrefix(format[i:], "}}") {
				i += 2
			} else {
				i++
			}
		default:
			start := i
			for i < len(format) && format[i] != '{' && format[i] != '}' {
				i++
			}

			literal.WriteString(format[start:i])
		}
	}

	for ; next < len(args); next++ {
		literal.WriteByte(' ')
		flush()

		err := Dispatch(w, args[next])
		if err != nil {
			errs.Add(ewrap.Wrap(err, "failed to write argument").WithMetadata("index", next))
		}
	}

	flush()

	if errs.HasErrors() {
		return errs
	}

	return nil
}
