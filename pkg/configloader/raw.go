package configloader

import (
	"strings"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logbridge"
)

type rawConfig struct {
	Context          string   `mapstructure:"context"`
	ShowModule       *bool    `mapstructure:"show_module"`
	ShowFile         *bool    `mapstructure:"show_file"`
	ShowLine         *bool    `mapstructure:"show_line"`
	ConfigPath       string   `mapstructure:"config_path"`
	Level            string   `mapstructure:"level"`
	ContextLevels    []string `mapstructure:"context_levels"`
	Output           string   `mapstructure:"output"`
	EnableJSON       *bool    `mapstructure:"enable_json"`
	TimeFormat       string   `mapstructure:"time_format"`
	DisableTimestamp *bool    `mapstructure:"disable_timestamp"`
	EncoderName      string   `mapstructure:"encoder_name"`
	Color            struct {
		Enable   *bool `mapstructure:"enable"`
		ForceTTY *bool `mapstructure:"force_tty"`
	} `mapstructure:"color"`
	File struct {
		Path       string `mapstructure:"path"`
		MaxSizeMB  *int   `mapstructure:"max_size_mb"`
		MaxBackups *int   `mapstructure:"max_backups"`
		MaxAgeDays *int   `mapstructure:"max_age_days"`
		Compress   *bool  `mapstructure:"compress"`
		LocalTime  *bool  `mapstructure:"local_time"`
	} `mapstructure:"file"`
	Async struct {
		Enabled          *bool  `mapstructure:"enabled"`
		BufferSize       *int   `mapstructure:"buffer_size"`
		OverflowStrategy string `mapstructure:"overflow_strategy"`
	} `mapstructure:"async"`
}

//nolint:cyclop,funlen // flat field-by-field mapping
func applyRaw(raw rawConfig) (*logbridge.Config, error) {
	cfg := logbridge.DefaultConfig()

	if raw.Context != "" {
		cfg.Context = raw.Context
	}

	setBool(&cfg.ShowModule, raw.ShowModule)
	setBool(&cfg.ShowFile, raw.ShowFile)
	setBool(&cfg.ShowLine, raw.ShowLine)

	if raw.ConfigPath != "" {
		cfg.ConfigPath = raw.ConfigPath
	}

	if raw.Level != "" {
		level, err := logbridge.ParseLevel(raw.Level)
		if err != nil {
			return nil, err
		}

		cfg.Level = level
	}

	for _, item := range raw.ContextLevels {
		tag, level, err := parseContextLevel(item)
		if err != nil {
			return nil, err
		}

		cfg.ContextLevels[tag] = level
	}

	setBool(&cfg.EnableJSON, raw.EnableJSON)
	setBool(&cfg.DisableTimestamp, raw.DisableTimestamp)

	if raw.TimeFormat != "" {
		cfg.TimeFormat = raw.TimeFormat
	}

	if raw.EncoderName != "" {
		cfg.EncoderName = raw.EncoderName
	}

	setBool(&cfg.Color.Enable, raw.Color.Enable)
	setBool(&cfg.Color.ForceTTY, raw.Color.ForceTTY)

	if raw.File.Path != "" {
		cfg.File.Path = raw.File.Path
	}

	setInt(&cfg.File.MaxSizeMB, raw.File.MaxSizeMB)
	setInt(&cfg.File.MaxBackups, raw.File.MaxBackups)
	setInt(&cfg.File.MaxAgeDays, raw.File.MaxAgeDays)
	setBool(&cfg.File.Compress, raw.File.Compress)
	setBool(&cfg.File.LocalTime, raw.File.LocalTime)

	setBool(&cfg.Async.Enabled, raw.Async.Enabled)
	setInt(&cfg.Async.BufferSize, raw.Async.BufferSize)

	if raw.Async.OverflowStrategy != "" {
		strategy, err := parseOverflowStrategy(raw.Async.OverflowStrategy)
		if err != nil {
			return nil, err
		}

		cfg.Async.OverflowStrategy = strategy
	}

	if raw.Output != "" {
		writer, err := logbridge.SetOutput(raw.Output)
		if err != nil {
			return nil, err
		}

		cfg.Output = writer
	}

	return &cfg, nil
}

// parseContextLevel splits "CTX=level". The context keeps its case.
func parseContextLevel(item string) (string, logbridge.Level, error) {
	tag, name, ok := strings.Cut(strings.TrimSpace(item), "=")
	if !ok || strings.TrimSpace(tag) == "" {
		return "", logbridge.LevelOff, ewrap.Wrap(logbridge.ErrInvalidConfig, "context level must be CTX=level").
			WithMetadata("entry", item)
	}

	level, err := logbridge.ParseLevel(name)
	if err != nil {
		return "", logbridge.LevelOff, err
	}

	return strings.TrimSpace(tag), level, nil
}

func parseOverflowStrategy(name string) (logbridge.AsyncOverflowStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "drop_newest", "drop-newest", "drop":
		return logbridge.AsyncOverflowDropNewest, nil
	case "block":
		return logbridge.AsyncOverflowBlock, nil
	case "drop_oldest", "drop-oldest":
		return logbridge.AsyncOverflowDropOldest, nil
	default:
		return logbridge.AsyncOverflowDropNewest, ewrap.Wrap(logbridge.ErrInvalidConfig, "unknown async overflow strategy").
			WithMetadata("strategy", name)
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func allKeys() []string {
	return []string{
		"context",
		"show_module",
		"show_file",
		"show_line",
		"config_path",
		"level",
		"context_levels",
		"output",
		"enable_json",
		"time_format",
		"disable_timestamp",
		"encoder_name",
		"color.enable",
		"color.force_tty",
		"file.path",
		"file.max_size_mb",
		"file.max_backups",
		"file.max_age_days",
		"file.compress",
		"file.local_time",
		"async.enabled",
		"async.buffer_size",
		"async.overflow_strategy",
	}
}
