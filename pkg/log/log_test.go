package log

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/internal/constants"
	"github.com/hyp3rd/logbridge/pkg/recorder"
)

func unsetConfigFile(t *testing.T) {
	t.Helper()

	t.Setenv(logbridge.ConfigFileEnv, "")
	require.NoError(t, os.Unsetenv(logbridge.ConfigFileEnv))
}

func TestDefaults(t *testing.T) {
	unsetConfigFile(t)

	tests := []struct {
		name        string
		environment string
		service     string
		wantLevel   logbridge.Level
		wantJSON    bool
		wantContext string
	}{
		{
			name:        "non-production environment",
			environment: constants.NonProductionEnvironment,
			service:     "test-service",
			wantLevel:   logbridge.LevelDebug,
			wantJSON:    false,
			wantContext: "TEST",
		},
		{
			name:        "production environment",
			environment: "production",
			service:     "api",
			wantLevel:   logbridge.LevelInfo,
			wantJSON:    true,
			wantContext: "API",
		},
		{
			name:        "empty environment",
			environment: "",
			service:     "b2-sync",
			wantLevel:   logbridge.LevelInfo,
			wantJSON:    true,
			wantContext: "B2SY",
		},
		{
			name:        "empty service name",
			environment: constants.NonProductionEnvironment,
			service:     "",
			wantLevel:   logbridge.LevelDebug,
			wantJSON:    false,
			wantContext: logbridge.DefaultContext,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Defaults(tt.environment, tt.service)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLevel, cfg.Level)
			assert.Equal(t, tt.wantJSON, cfg.EnableJSON)
			assert.Equal(t, tt.wantContext, cfg.Context)
			assert.Equal(t, !tt.wantJSON, cfg.ShowFile)
			assert.Equal(t, !tt.wantJSON, cfg.ShowLine)
			require.NoError(t, cfg.Validate())
		})
	}
}

func TestDefaultsLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("context: FILE\nlevel: error\ndisable_timestamp: true\n"), 0o600))

	t.Setenv(logbridge.ConfigFileEnv, path)

	cfg, err := Defaults("production", "ignored")
	require.NoError(t, err)

	assert.Equal(t, "FILE", cfg.Context)
	assert.True(t, cfg.DisableTimestamp)
	assert.Equal(t, logbridge.LevelInfo, cfg.Level)
	assert.True(t, cfg.EnableJSON)

	t.Setenv(logbridge.ConfigFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err = Defaults("production", "ignored")
	require.Error(t, err)
}

func TestServiceContext(t *testing.T) {
	assert.Equal(t, "USER", ServiceContext("user-service"))
	assert.Equal(t, "GW", ServiceContext("gw"))
	assert.Equal(t, "NAVE", ServiceContext("naïve api"))
	assert.Equal(t, logbridge.DefaultContext, ServiceContext("--"))
}

func TestNewInstallsRecorder(t *testing.T) {
	recorder.ResetForTesting()
	t.Cleanup(recorder.ResetForTesting)

	var out bytes.Buffer

	cfg := logbridge.NewConfigBuilder().
		WithContext("SVC").
		WithOutput(&out).
		WithNoTimestamp().
		WithColors(false).
		Build()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := New(ctx, *cfg)
	require.NoError(t, err)

	installed, ok := recorder.Lookup()
	require.True(t, ok)
	assert.Same(t, installed, logger.Recorder())
	assert.Equal(t, "SVC", logger.Context().String())

	logger.Info("ready")
	require.NoError(t, Shutdown(logger))

	assert.Equal(t, "[ INFO] SVC ready\n", out.String())

	_, err = New(ctx, *cfg)
	require.ErrorIs(t, err, recorder.ErrAlreadyInstalled)
}

func TestNewWithDefaults(t *testing.T) {
	recorder.ResetForTesting()
	t.Cleanup(recorder.ResetForTesting)
	unsetConfigFile(t)

	logger, err := NewWithDefaults(t.Context(), "production", "billing")
	require.NoError(t, err)

	assert.Equal(t, "BILL", logger.Context().String())
	assert.True(t, logger.Enabled(logbridge.LevelInfo))
	assert.False(t, logger.Enabled(logbridge.LevelDebug))
}
