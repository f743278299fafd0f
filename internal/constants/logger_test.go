package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOutputType(t *testing.T) {
	tests := []struct {
		name string
		want OutputType
	}{
		{name: "stdout", want: LogOutputStdout},
		{name: " STDERR ", want: LogOutputStderr},
		{name: "app.log", want: LogOutputFile},
		{name: "", want: LogOutputFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOutputType(tt.name)

			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}

	assert.False(t, OutputType("socket").IsValid())
	assert.Equal(t, "file", LogOutputFile.String())
}
