// Package log wires a process for logging in one call.
//
// It picks a configuration for the environment, installs the text recorder
// as the process-wide recorder and returns a bridge writing under a context
// derived from the service name:
//
//   - development: Debug threshold, console output with file and line prefixes
//   - anything else: Info threshold, JSON output
//
// When LOGBRIDGE_CONFIG_FILE names a configuration file, it is loaded first
// and the environment defaults only adjust the threshold and the encoder.
//
// Usage:
//
//	logger, err := log.NewWithDefaults(ctx, "development", "user-service")
//	if err != nil {
//		panic(err)
//	}
//	defer log.Shutdown(logger)
//
//	logger.Info("listening on port {}", logbridge.Uint16(8080))
package log

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/internal/constants"
	"github.com/hyp3rd/logbridge/pkg/bridge"
	"github.com/hyp3rd/logbridge/pkg/configloader"
	"github.com/hyp3rd/logbridge/pkg/recorder/textrec"
)

// NewWithDefaults installs a text recorder configured for environment and
// returns a bridge writing under the service's context. The recorder output
// is flushed when ctx is cancelled.
func NewWithDefaults(ctx context.Context, environment, service string) (*bridge.Bridge, error) {
	cfg, err := Defaults(environment, service)
	if err != nil {
		return nil, err
	}

	return New(ctx, cfg)
}

// New installs a text recorder built from cfg and returns a bridge using the
// bridge section of cfg.
func New(ctx context.Context, cfg logbridge.Config) (*bridge.Bridge, error) {
	rec, err := textrec.Install(cfg)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to create logger")
	}

	context.AfterFunc(ctx, func() {
		_ = rec.Sync()
	})

	return bridge.FromConfig(&cfg).WithRecorder(rec).Build(), nil
}

// Defaults returns the configuration NewWithDefaults installs.
func Defaults(environment, service string) (logbridge.Config, error) {
	cfg := logbridge.DefaultConfig()

	if path := strings.TrimSpace(os.Getenv(logbridge.ConfigFileEnv)); path != "" {
		loaded, err := configloader.FromFile(path)
		if err != nil {
			return logbridge.Config{}, err
		}

		cfg = *loaded
	} else {
		cfg.Context = ServiceContext(service)
	}

	if environment == constants.NonProductionEnvironment {
		cfg.Level = logbridge.LevelDebug
		cfg.EnableJSON = false
		cfg.ShowFile = true
		cfg.ShowLine = true
	} else {
		cfg.Level = logbridge.LevelInfo
		cfg.EnableJSON = true
		cfg.Color.Enable = false
	}

	return cfg, nil
}

// ServiceContext derives a context tag from a service name: the first four
// ASCII letters or digits, upper-cased. Names without any fall back to
// logbridge.DefaultContext.
func ServiceContext(service string) string {
	var tag strings.Builder

	for _, r := range strings.ToUpper(service) {
		if tag.Len() == logbridge.ContextCapacity {
			break
		}

		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			tag.WriteRune(r)
		}
	}

	if tag.Len() == 0 {
		return logbridge.DefaultContext
	}

	return tag.String()
}

// Shutdown flushes and closes the recorder behind logger.
func Shutdown(logger *bridge.Bridge) error {
	closer, ok := logger.Recorder().(io.Closer)
	if !ok {
		return nil
	}

	return closer.Close()
}
