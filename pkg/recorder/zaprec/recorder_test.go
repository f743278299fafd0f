package zaprec

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/pkg/bridge"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

func observed(t *testing.T, level zapcore.Level) (*Recorder, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(level)

	return New(zap.New(core)), logs
}

func TestThresholdFollowsCore(t *testing.T) {
	tests := []struct {
		level zapcore.Level
		want  recorder.LogLevel
	}{
		{level: zapcore.DebugLevel, want: recorder.LevelVerbose},
		{level: zapcore.InfoLevel, want: recorder.LevelInfo},
		{level: zapcore.WarnLevel, want: recorder.LevelWarn},
		{level: zapcore.ErrorLevel, want: recorder.LevelError},
		{level: zapcore.DPanicLevel, want: recorder.LevelFatal},
		{level: zapcore.FatalLevel, want: recorder.LevelFatal},
		{level: zapcore.FatalLevel + 1, want: recorder.LevelOff},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			rec, _ := observed(t, tt.level)

			assert.Equal(t, tt.want, rec.Threshold(logbridge.MustContext("ANY")))
		})
	}
}

func TestRecordsReachZap(t *testing.T) {
	rec, logs := observed(t, zapcore.DebugLevel)
	log := bridge.NewBuilder().WithRecorder(rec).Context("ALFA").Build()

	log.Info("port {} mask {} ratio {} up {} delta {}",
		logbridge.Uint16(8080), logbridge.Uint8(5).Bin(), logbridge.Float64(0.5),
		logbridge.Bool(true), logbridge.Int8(-3))
	log.Trace("trace maps to debug")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, zapcore.InfoLevel, first.Level)
	assert.Equal(t, "port 8080 mask 0b00000101 ratio 0.5 up true delta -3", first.Message)

	fields := first.ContextMap()
	assert.Equal(t, "ALFA", fields["context"])
	assert.Equal(t, []any{uint64(8080), "0b00000101", 0.5, true, int64(-3)}, fields["args"])

	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.NotContains(t, entries[1].ContextMap(), "args")
}

func TestFatalDoesNotExit(t *testing.T) {
	rec, logs := observed(t, zapcore.InfoLevel)
	log := bridge.NewBuilder().WithRecorder(rec).Build()

	log.Fatal("unrecoverable {}", logbridge.Str("state"))
	log.Fatalf("formatted %d", 2)

	entries := logs.FilterLevelExact(zapcore.FatalLevel).AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "unrecoverable state", entries[0].Message)
	assert.Equal(t, "formatted 2", entries[1].Message)
}

func TestContextOverridesOnlyLower(t *testing.T) {
	rec, logs := observed(t, zapcore.InfoLevel)

	require.NoError(t, rec.SetContextLevel("QUIET", logbridge.LevelError))
	require.NoError(t, rec.SetContextLevel("LOUD", logbridge.LevelTrace))
	require.Error(t, rec.SetContextLevel("ÜML", logbridge.LevelInfo))
	require.ErrorIs(t, rec.SetContextLevel("LOUD", logbridge.Level(42)), logbridge.ErrInvalidLevel)

	assert.Equal(t, recorder.LevelError, rec.Threshold(logbridge.MustContext("QUIE")))
	assert.Equal(t, recorder.LevelInfo, rec.Threshold(logbridge.MustContext("LOUD")))

	log := bridge.NewBuilder().WithRecorder(rec).Context("QUIET").Build()
	log.Warn("dropped")
	log.Error("kept")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "QUIE", entries[0].ContextMap()["context"])
}

func TestHooks(t *testing.T) {
	rec, logs := observed(t, zapcore.InfoLevel)

	var (
		mu   sync.Mutex
		seen []string
	)

	require.NoError(t, rec.AddHook("collect", logbridge.NewStandardHook(nil, func(entry *logbridge.Entry) error {
		mu.Lock()
		defer mu.Unlock()

		seen = append(seen, entry.Message)

		return nil
	})))
	require.NoError(t, rec.AddHook("failing", logbridge.NewStandardHook(
		[]logbridge.Level{logbridge.LevelWarn},
		func(*logbridge.Entry) error { return assert.AnError },
	)))

	log := bridge.NewBuilder().WithRecorder(rec).Build()
	log.Info("one")
	log.Warn("two")

	mu.Lock()
	assert.Equal(t, []string{"one", "two"}, seen)
	mu.Unlock()

	assert.Equal(t, 1, logs.FilterMessageSnippet("hook execution error").Len())
	assert.Equal(t, 3, logs.Len())
}

func TestSetLevelRequiresAtomicLevel(t *testing.T) {
	rec, _ := observed(t, zapcore.InfoLevel)

	require.ErrorIs(t, rec.SetLevel(logbridge.LevelDebug), ErrFixedLevel)
}

func TestNilLoggerRecordsNothing(t *testing.T) {
	rec := New(nil)

	assert.Equal(t, recorder.LevelOff, rec.Threshold(logbridge.MustContext("ANY")))
	require.NoError(t, rec.Close())
}

func TestFromConfigJSON(t *testing.T) {
	var out bytes.Buffer

	cfg := logbridge.NewConfigBuilder().
		WithOutput(&out).
		WithJSONFormat(true).
		WithNoTimestamp().
		Build()

	rec, err := FromConfig(*cfg)
	require.NoError(t, err)

	log := bridge.NewBuilder().WithRecorder(rec).Context("JSON").Build()
	log.Debug("hidden")
	log.Warn("disk {} at {}", logbridge.Str("sda"), logbridge.Uint8(91))

	require.NoError(t, rec.SetLevel(logbridge.LevelDebug))
	log.Debug("visible")

	require.ErrorIs(t, rec.SetLevel(logbridge.Level(42)), logbridge.ErrInvalidLevel)
	require.NoError(t, rec.Close())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var decoded map[string]any

	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	assert.Equal(t, "WARN", decoded["severity"])
	assert.Equal(t, "disk sda at 91", decoded["message"])
	assert.Equal(t, "JSON", decoded["context"])
	assert.Equal(t, []any{float64(91)}, decoded["args"])
	assert.NotContains(t, decoded, "time")

	assert.Contains(t, lines[1], `"message":"visible"`)
}

func TestFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zap.log")

	cfg := logbridge.NewConfigBuilder().
		WithOutput(nil).
		WithFileOutput(path).
		WithNoTimestamp().
		WithColors(true).
		WithContextLevel("MUTE", logbridge.LevelOff).
		Build()

	rec, err := FromConfig(*cfg)
	require.NoError(t, err)

	log := bridge.NewBuilder().WithRecorder(rec).Context("FILE").Build()
	log.Info("to disk")
	log.WithContext("MUTE").Error("dropped")

	require.NoError(t, rec.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "INFO\tto disk\t{\"context\": \"FILE\"}\n", string(data))
}

func TestFromConfigRejectsInvalid(t *testing.T) {
	_, err := FromConfig(*logbridge.NewConfigBuilder().WithLevel(logbridge.Level(99)).Build())
	require.Error(t, err)
}
