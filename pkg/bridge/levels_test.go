package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

func TestLevelMappingRoundTrip(t *testing.T) {
	pairs := []struct {
		level  logbridge.Level
		native recorder.LogLevel
	}{
		{logbridge.LevelFatal, recorder.LevelFatal},
		{logbridge.LevelError, recorder.LevelError},
		{logbridge.LevelWarn, recorder.LevelWarn},
		{logbridge.LevelInfo, recorder.LevelInfo},
		{logbridge.LevelDebug, recorder.LevelDebug},
		{logbridge.LevelTrace, recorder.LevelVerbose},
	}

	for _, pair := range pairs {
		t.Run(pair.level.String(), func(t *testing.T) {
			assert.Equal(t, pair.native, ToNative(pair.level))
			assert.Equal(t, pair.level, FromNative(pair.native))
			assert.Equal(t, pair.native, ToNative(FromNative(pair.native)))
			assert.Equal(t, pair.level, FromNative(ToNative(pair.level)))
			assert.Equal(t, pair.native, ToThreshold(pair.level))
			assert.Equal(t, pair.level, FromThreshold(pair.native))
		})
	}
}

func TestFatalStaysDistinct(t *testing.T) {
	assert.NotEqual(t, ToNative(logbridge.LevelFatal), ToNative(logbridge.LevelError))
	assert.Equal(t, logbridge.LevelFatal, FromThreshold(recorder.LevelFatal))
}

func TestOffIsThresholdOnly(t *testing.T) {
	assert.Panics(t, func() { ToNative(logbridge.LevelOff) })
	assert.Panics(t, func() { FromNative(recorder.LevelOff) })

	off := ToThreshold(logbridge.LevelOff)
	assert.Equal(t, recorder.LevelOff, off)

	for _, level := range logbridge.ActiveLevels() {
		assert.NotEqual(t, off, ToThreshold(level))
	}

	assert.Equal(t, logbridge.LevelOff, FromThreshold(recorder.LevelOff))
}

func TestUnknownLevels(t *testing.T) {
	assert.Panics(t, func() { ToNative(logbridge.Level(42)) })
	assert.Panics(t, func() { FromNative(recorder.LogLevel(42)) })
	assert.Equal(t, logbridge.LevelInfo, FromThreshold(recorder.LogLevel(42)))
	assert.Equal(t, recorder.LevelVerbose, ToThreshold(logbridge.Level(42)))
}
