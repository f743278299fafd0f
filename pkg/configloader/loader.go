// Package configloader builds logbridge configurations from YAML, JSON or
// TOML files and from environment variables using viper.
//
// Keys are snake_case and nested with dots (file.path, async.buffer_size).
// Environment variables use the upper-case key with dots replaced by
// underscores behind a prefix: LOGBRIDGE_FILE_PATH. Context thresholds are a
// list of "CTX=level" entries, in files and in the environment
// (LOGBRIDGE_CONTEXT_LEVELS="HTTP=debug,GRPC=warn").
package configloader

import (
	"bytes"
	"os"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/viper"

	"github.com/hyp3rd/logbridge"
	"github.com/hyp3rd/logbridge/internal/constants"
)

// Load reads the file named by LOGBRIDGE_CONFIG_FILE when it is set, and the
// LOGBRIDGE_* environment otherwise.
func Load() (*logbridge.Config, error) {
	if path := strings.TrimSpace(os.Getenv(logbridge.ConfigFileEnv)); path != "" {
		return FromFile(path)
	}

	return FromEnv(constants.EnvPrefix)
}

// FromEnv loads configuration sourced from environment variables using the provided prefix.
// Environment keys are normalized by uppercasing and replacing dots with underscores.
func FromEnv(prefix string) (*logbridge.Config, error) {
	viperInstance := viper.New()

	err := bindEnvironment(viperInstance, normalizePrefix(prefix))
	if err != nil {
		return nil, err
	}

	return fromViper(viperInstance)
}

// FromYAML loads configuration from a YAML document provided as bytes.
func FromYAML(data []byte) (*logbridge.Config, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigType("yaml")

	err := viperInstance.ReadConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to read YAML configuration")
	}

	return fromViper(viperInstance)
}

// FromFile loads configuration from a file and merges LOGBRIDGE_*
// environment overrides on top of it. The format follows the file extension.
func FromFile(path string) (*logbridge.Config, error) {
	viperInstance := viper.New()

	err := bindEnvironment(viperInstance, constants.EnvPrefix)
	if err != nil {
		return nil, err
	}

	viperInstance.SetConfigFile(path)

	err = viperInstance.ReadInConfig()
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to read configuration file").
			WithMetadata("path", path)
	}

	return fromViper(viperInstance)
}

func fromViper(viperInstance *viper.Viper) (*logbridge.Config, error) {
	var raw rawConfig

	err := viperInstance.Unmarshal(&raw)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to decode configuration")
	}

	cfg, err := applyRaw(raw)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func bindEnvironment(viperInstance *viper.Viper, prefix string) error {
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if prefix != "" {
		viperInstance.SetEnvPrefix(prefix)
	}

	viperInstance.AutomaticEnv()

	for _, key := range allKeys() {
		err := viperInstance.BindEnv(key)
		if err != nil {
			return ewrap.Wrap(err, "failed to bind environment key").
				WithMetadata("key", key).
				WithMetadata("prefix", prefix)
		}
	}

	return nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return constants.EnvPrefix
	}

	prefix = strings.TrimSuffix(prefix, "_")
	prefix = strings.ReplaceAll(prefix, "-", "_")

	return strings.ToUpper(prefix)
}
