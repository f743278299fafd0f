package textrec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logbridge"
)

const (
	consoleEncoderName = "console"
	jsonEncoderName    = "json"

	// Predicted sizes by record type to reduce reallocations.
	jsonBaseSize    = 200
	consoleBaseSize = 100
	argOverhead     = 24

	levelPadding = 5

	// asciiControlEnd is the first printable ASCII character (space).
	asciiControlEnd = 32
)

type consoleEncoder struct{}

func (*consoleEncoder) Encode(entry *logbridge.Entry, cfg *logbridge.Config, buf *bytes.Buffer) ([]byte, error) {
	if entry == nil {
		return nil, ewrap.New("entry cannot be nil")
	}

	if buf == nil {
		buf = bytes.NewBuffer(nil)
	} else {
		buf.Reset()
	}

	formatConsoleOutput(buf, entry, cfg)

	return buf.Bytes(), nil
}

func (*consoleEncoder) EstimateSize(entry *logbridge.Entry) int {
	if entry == nil {
		return 0
	}

	return predictBufferSize(false, len(entry.Message), len(entry.Fields))
}

type jsonEncoder struct{}

func (*jsonEncoder) Encode(entry *logbridge.Entry, cfg *logbridge.Config, buf *bytes.Buffer) ([]byte, error) {
	if entry == nil {
		return nil, ewrap.New("entry cannot be nil")
	}

	if buf == nil {
		buf = bytes.NewBuffer(nil)
	} else {
		buf.Reset()
	}

	formatJSONOutput(buf, entry, cfg)

	return buf.Bytes(), nil
}

func (*jsonEncoder) EstimateSize(entry *logbridge.Entry) int {
	if entry == nil {
		return 0
	}

	return predictBufferSize(true, len(entry.Message), len(entry.Fields))
}

// RegisterDefaultEncoders adds the "console" and "json" encoders to registry,
// keeping encoders already registered under those names.
func RegisterDefaultEncoders(registry *logbridge.EncoderRegistry) error {
	if registry == nil {
		return ewrap.New("registry cannot be nil")
	}

	err := registry.Ensure(consoleEncoderName, &consoleEncoder{})
	if err != nil {
		return err
	}

	return registry.Ensure(jsonEncoderName, &jsonEncoder{})
}

func resolveEncoder(config *logbridge.Config) (logbridge.Encoder, error) {
	if config.Encoder != nil {
		return config.Encoder, nil
	}

	if config.EncoderRegistry == nil {
		config.EncoderRegistry = logbridge.NewEncoderRegistry()
	}

	err := RegisterDefaultEncoders(config.EncoderRegistry)
	if err != nil {
		return nil, err
	}

	if name := config.EncoderName; name != "" {
		return config.EncoderRegistry.Resolve(name)
	}

	name := consoleEncoderName
	if config.EnableJSON {
		name = jsonEncoderName
	}

	return config.EncoderRegistry.Resolve(name)
}

// formatConsoleOutput writes "time [LEVEL] CTX message".
func formatConsoleOutput(builder *bytes.Buffer, entry *logbridge.Entry, config *logbridge.Config) {
	cfg := config
	if cfg == nil {
		cfg = &logbridge.Config{}
	}

	appendTimestamp(builder, entry.Time, cfg.TimeFormat, cfg.DisableTimestamp)
	appendLogLevel(builder, entry.Level, cfg.Color)

	if !entry.Context.IsZero() {
		builder.Write(entry.Context.Bytes())
		builder.WriteByte(' ')
	}

	builder.WriteString(strings.ToValidUTF8(entry.Message, "\uFFFD"))
	builder.WriteByte('\n')
}

func appendTimestamp(builder *bytes.Buffer, ts time.Time, timeFormat string, disable bool) {
	if disable {
		return
	}

	if timeFormat == "" {
		timeFormat = logbridge.DefaultTimeFormat
	}

	builder.WriteString(ts.Format(timeFormat))
	builder.WriteByte(' ')
}

func appendLogLevel(builder *bytes.Buffer, level logbridge.Level, colorCfg logbridge.ColorConfig) {
	if colorCfg.Enable {
		if seq, ok := colorCfg.ColorFor(level); ok {
			builder.WriteString(seq)
			appendPaddedLevel(builder, level.String())
			builder.WriteString(logbridge.Reset)
			builder.WriteByte(' ')

			return
		}
	}

	appendPaddedLevel(builder, level.String())
	builder.WriteByte(' ')
}

// appendPaddedLevel writes the level right-aligned to five characters.
func appendPaddedLevel(builder *bytes.Buffer, levelStr string) {
	builder.WriteByte('[')

	for range levelPadding - len(levelStr) {
		builder.WriteByte(' ')
	}

	builder.WriteString(levelStr)
	builder.WriteByte(']')
}

// formatJSONOutput writes one JSON object per record.
func formatJSONOutput(builder *bytes.Buffer, entry *logbridge.Entry, config *logbridge.Config) {
	cfg := config
	if cfg == nil {
		cfg = &logbridge.Config{}
	}

	builder.WriteByte('{')

	if !cfg.DisableTimestamp {
		timeFormat := cfg.TimeFormat
		if timeFormat == "" {
			timeFormat = logbridge.DefaultTimeFormat
		}

		builder.WriteString(`"time":`)
		jsonEscapeString(builder, entry.Time.Format(timeFormat))
		builder.WriteByte(',')
	}

	builder.WriteString(`"severity":"`)
	builder.WriteString(entry.Level.String())
	builder.WriteString(`","context":`)
	jsonEscapeString(builder, entry.Context.String())
	builder.WriteString(`,"message":`)
	jsonEscapeString(builder, entry.Message)

	if len(entry.Fields) > 0 {
		builder.WriteString(`,"args":[`)

		for i, arg := range entry.Fields {
			if i > 0 {
				builder.WriteByte(',')
			}

			formatJSONValue(builder, arg)
		}

		builder.WriteByte(']')
	}

	builder.WriteString("}\n")
}

// formatJSONValue writes plain numbers and booleans natively; hex and binary
// renderings and non-finite floats are written as strings.
func formatJSONValue(buf *bytes.Buffer, v logbridge.Value) {
	if v.Hint() != logbridge.HintPlain {
		jsonEscapeString(buf, v.String())

		return
	}

	switch v.Kind() {
	case logbridge.KindBool:
		buf.WriteString(strconv.FormatBool(v.AsBool()))
	case logbridge.KindFloat32, logbridge.KindFloat64:
		f := v.AsFloat64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			jsonEscapeString(buf, v.String())

			return
		}

		buf.WriteString(v.String())
	case logbridge.KindString:
		jsonEscapeString(buf, v.AsString())
	case logbridge.KindInvalid:
		buf.WriteString("null")
	default:
		buf.WriteString(v.String())
	}
}

// jsonEscapeString writes target as a quoted JSON string. Invalid UTF-8 is
// replaced; multi-byte characters are kept as they are.
func jsonEscapeString(buf *bytes.Buffer, target string) {
	target = strings.ToValidUTF8(target, "\uFFFD")

	buf.WriteByte('"')

	start := 0

	for i := range len(target) {
		character := target[i]
		if !needsEscaping(character) {
			continue
		}

		if start < i {
			buf.WriteString(target[start:i])
		}

		writeEscapedChar(buf, character)

		start = i + 1
	}

	if start < len(target) {
		buf.WriteString(target[start:])
	}

	buf.WriteByte('"')
}

func needsEscaping(c byte) bool {
	return c == '"' || c == '\\' || c < asciiControlEnd
}

func writeEscapedChar(buf *bytes.Buffer, character byte) {
	switch character {
	case '"':
		buf.WriteString(`\"`)
	case '\\':
		buf.WriteString(`\\`)
	case '\b':
		buf.WriteString(`\b`)
	case '\f':
		buf.WriteString(`\f`)
	case '\n':
		buf.WriteString(`\n`)
	case '\r':
		buf.WriteString(`\r`)
	case '\t':
		buf.WriteString(`\t`)
	default:
		fmt.Fprintf(buf, `\u%04x`, character)
	}
}

// predictBufferSize estimates the encoded size of a record, rounded up to a
// power of two.
func predictBufferSize(isJSON bool, msgLen int, argsLen int) int {
	baseSize := consoleBaseSize
	if isJSON {
		baseSize = jsonBaseSize
	}

	return nextPowerOfTwo(baseSize + msgLen + argsLen*argOverhead)
}

//nolint:mnd,revive
func nextPowerOfTwo(val int) int {
	val--
	val |= val >> 1
	val |= val >> 2
	val |= val >> 4
	val |= val >> 8
	val |= val >> 16
	val++

	return val
}
