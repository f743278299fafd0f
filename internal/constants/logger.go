package constants

import "strings"

// OutputType names a record destination in configuration.
type OutputType string

const (
	// LogOutputStdout represents the standard output stream.
	LogOutputStdout OutputType = "stdout"
	// LogOutputStderr represents the standard error stream.
	LogOutputStderr OutputType = "stderr"
	// LogOutputFile represents a file output.
	LogOutputFile OutputType = "file"
)

// ParseOutputType maps a configured output name onto an OutputType. Any name
// other than the standard streams is treated as a file path.
func ParseOutputType(name string) OutputType {
	switch OutputType(strings.ToLower(strings.TrimSpace(name))) {
	case LogOutputStdout:
		return LogOutputStdout
	case LogOutputStderr:
		return LogOutputStderr
	default:
		return LogOutputFile
	}
}

// IsValid returns true if the given OutputType is a valid output type, and false otherwise.
func (o OutputType) IsValid() bool {
	switch o {
	case LogOutputStdout, LogOutputStderr, LogOutputFile:
		return true
	default:
		return false
	}
}

// String returns the string representation of the OutputType.
func (o OutputType) String() string {
	return string(o)
}
