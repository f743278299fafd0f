// Package slogbridge adapts a logbridge.Logger to log/slog.
//
// Each slog record becomes one bridge record: the message followed by
// " key=value" for every attribute, with attribute values passed as typed
// arguments. Groups prefix keys with "group.". An attribute named by
// HandlerOptions.ContextKey selects the bridge context instead of being
// written.
//
// Caller prefixes configured on the bridge point at this package, not at the
// slog call site.
package slogbridge

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/hyp3rd/logbridge"
)

// DefaultContextKey is the attribute key that selects the bridge context.
const DefaultContextKey = "logctx"

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// ContextKey names the attribute that selects the bridge context. Empty
	// uses DefaultContextKey.
	ContextKey string
	// TimeFormat renders time attributes. Empty uses time.RFC3339.
	TimeFormat string
}

// Handler implements slog.Handler on top of a logbridge.Logger.
type Handler struct {
	logger logbridge.Logger
	opts   HandlerOptions
	attrs  []field
	group  string
}

var _ slog.Handler = (*Handler)(nil)

type field struct {
	key   string
	value logbridge.Value
}

// NewHandler creates a Handler writing through logger.
func NewHandler(logger logbridge.Logger, opts *HandlerOptions) *Handler {
	handler := &Handler{logger: logger}

	if opts != nil {
		handler.opts = *opts
	}

	if handler.opts.ContextKey == "" {
		handler.opts.ContextKey = DefaultContextKey
	}

	if handler.opts.TimeFormat == "" {
		handler.opts.TimeFormat = time.RFC3339
	}

	return handler
}

// New returns a slog.Logger writing through logger.
func New(logger logbridge.Logger) *slog.Logger {
	return slog.New(NewHandler(logger, nil))
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.Enabled(FromSlogLevel(level))
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	logger := h.logger
	fields := slices.Clone(h.attrs)

	record.Attrs(func(attr slog.Attr) bool {
		if next, ok := h.contextLogger(logger, attr); ok {
			logger = next

			return true
		}

		fields = h.appendAttr(fields, h.group, attr)

		return true
	})

	level := FromSlogLevel(record.Level)

	var format strings.Builder

	format.WriteString(escapeBraces(record.Message))

	args := make([]logbridge.Value, 0, len(fields))

	for _, f := range fields {
		format.WriteByte(' ')
		format.WriteString(escapeBraces(f.key))
		format.WriteString("={}")

		args = append(args, f.value)
	}

	logger.Log(level, format.String(), args...)

	return nil
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = slices.Clone(h.attrs)

	for _, attr := range attrs {
		if next, ok := h.contextLogger(clone.logger, attr); ok {
			clone.logger = next

			continue
		}

		clone.attrs = h.appendAttr(clone.attrs, h.group, attr)
	}

	return &clone
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.group = joinKey(h.group, name)

	return &clone
}

// contextLogger returns logger switched to the context named by attr when
// attr carries the context key and a valid tag.
func (h *Handler) contextLogger(logger logbridge.Logger, attr slog.Attr) (logbridge.Logger, bool) {
	if attr.Key != h.opts.ContextKey {
		return nil, false
	}

	tag := attr.Value.Resolve().String()

	_, err := logbridge.NewContext(tag)
	if err != nil {
		return nil, false
	}

	return logger.WithContext(tag), true
}

func (h *Handler) appendAttr(fields []field, group string, attr slog.Attr) []field {
	attr.Value = attr.Value.Resolve()

	if attr.Equal(slog.Attr{}) {
		return fields
	}

	if attr.Value.Kind() == slog.KindGroup {
		prefix := group
		if attr.Key != "" {
			prefix = joinKey(group, attr.Key)
		}

		for _, inner := range attr.Value.Group() {
			fields = h.appendAttr(fields, prefix, inner)
		}

		return fields
	}

	return append(fields, field{key: joinKey(group, attr.Key), value: h.toValue(attr.Value)})
}

func (h *Handler) toValue(v slog.Value) logbridge.Value {
	//nolint:exhaustive // groups are flattened before conversion
	switch v.Kind() {
	case slog.KindBool:
		return logbridge.Bool(v.Bool())
	case slog.KindInt64:
		return logbridge.Int64(v.Int64())
	case slog.KindUint64:
		return logbridge.Uint64(v.Uint64())
	case slog.KindFloat64:
		return logbridge.Float64(v.Float64())
	case slog.KindString:
		return logbridge.Str(v.String())
	case slog.KindDuration:
		return logbridge.Str(v.Duration().String())
	case slog.KindTime:
		return logbridge.Str(v.Time().Format(h.opts.TimeFormat))
	default:
		return logbridge.Str(fmt.Sprint(v.Any()))
	}
}

// FromSlogLevel maps slog levels onto bridge levels. Levels below
// slog.LevelDebug become Trace; slog.LevelError+4 and above become Fatal.
func FromSlogLevel(level slog.Level) logbridge.Level {
	switch {
	case level < slog.LevelDebug:
		return logbridge.LevelTrace
	case level < slog.LevelInfo:
		return logbridge.LevelDebug
	case level < slog.LevelWarn:
		return logbridge.LevelInfo
	case level < slog.LevelError:
		return logbridge.LevelWarn
	case level < slog.LevelError+4:
		return logbridge.LevelError
	default:
		return logbridge.LevelFatal
	}
}

// ToSlogLevel maps bridge levels onto slog levels.
func ToSlogLevel(level logbridge.Level) slog.Level {
	switch level {
	case logbridge.LevelTrace:
		return slog.LevelDebug - 4
	case logbridge.LevelDebug:
		return slog.LevelDebug
	case logbridge.LevelWarn:
		return slog.LevelWarn
	case logbridge.LevelError:
		return slog.LevelError
	case logbridge.LevelFatal:
		return slog.LevelError + 4
	default:
		return slog.LevelInfo
	}
}

func joinKey(group, key string) string {
	if group == "" {
		return key
	}

	return group + "." + key
}

func escapeBraces(s string) string {
	if !strings.ContainsAny(s, "{}") {
		return s
	}

	return strings.NewReplacer("{", "{{", "}", "}}").Replace(s)
}
