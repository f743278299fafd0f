package logbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelOrdering(t *testing.T) {
	levels := []Level{LevelOff, LevelFatal, LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}

	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1], levels[i])
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelOff, "OFF"},
		{LevelFatal, "FATAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelTrace, "TRACE"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.String())
		})
	}
}

func TestLevelEnables(t *testing.T) {
	assert.True(t, LevelWarn.Enables(LevelError))
	assert.True(t, LevelWarn.Enables(LevelWarn))
	assert.False(t, LevelWarn.Enables(LevelInfo))
	assert.False(t, LevelOff.Enables(LevelFatal))
	assert.False(t, LevelTrace.Enables(LevelOff))
	assert.True(t, LevelTrace.Enables(LevelTrace))
}

func TestLevelValidity(t *testing.T) {
	assert.True(t, LevelOff.IsValid())
	assert.False(t, LevelOff.IsActive())
	assert.False(t, Level(7).IsValid())

	for _, level := range ActiveLevels() {
		assert.True(t, level.IsActive(), level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{input: "off", want: LevelOff},
		{input: "NONE", want: LevelOff},
		{input: "fatal", want: LevelFatal},
		{input: "Error", want: LevelError},
		{input: "warning", want: LevelWarn},
		{input: " info ", want: LevelInfo},
		{input: "debug", want: LevelDebug},
		{input: "verbose", want: LevelTrace},
		{input: "panic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelText(t *testing.T) {
	text, err := LevelWarn.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warn", string(text))

	var level Level

	require.NoError(t, level.UnmarshalText([]byte("TRACE")))
	assert.Equal(t, LevelTrace, level)

	require.Error(t, level.UnmarshalText([]byte("loud")))
	assert.Equal(t, LevelTrace, level)

	_, err = Level(12).MarshalText()
	require.ErrorIs(t, err, ErrInvalidLevel)
}
