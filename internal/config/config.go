// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrInvalidConfig is returned when a loaded value fails validation.
	ErrInvalidConfig = errors.New("config: invalid configuration")
	// ErrBackgroundClassName is returned when CLASS_NAMES is set but does
	// not contain BACKGROUND_CLASS.
	ErrBackgroundClassName = errors.New("config: CLASS_NAMES must contain BACKGROUND_CLASS")
)

// Config holds all configuration for the application.
type Config struct {
	// Dataset layout
	DataRoot    string `env:"DATA_ROOT, default=DCLDE2013_Data" json:"data_root" validate:"required"`
	DatasetName string `env:"DATASET_NAME, default=Stellwagen" json:"dataset_name" validate:"required,excludesall=/"`
	SourceDir   string `env:"SOURCE_DIR, default=Events" json:"source_dir" validate:"required"`
	EventsDir   string `env:"EVENTS_DIR, default=Events" json:"events_dir" validate:"required"`

	// Classes
	BackgroundClass  string   `env:"BACKGROUND_CLASS, default=NoWhale" json:"background_class"`
	ClassNames       []string `env:"CLASS_NAMES" json:"class_names,omitempty" validate:"omitempty,unique,dive,required"`
	PairPrefixFields int      `env:"PAIR_PREFIX_FIELDS, default=2" json:"pair_prefix_fields" validate:"gte=0"`

	// Global split sizes, divided evenly between classes
	SplitTrain      int `env:"SPLIT_TRAIN, default=2784" json:"split_train" validate:"gte=0"`
	SplitValidation int `env:"SPLIT_VALIDATION, default=600" json:"split_validation" validate:"gte=0"`
	SplitTest       int `env:"SPLIT_TEST, default=600" json:"split_test" validate:"gte=0"`

	// Reproducibility
	ShuffleSeed uint64 `env:"SHUFFLE_SEED, default=1" json:"shuffle_seed"`
	NoiseSeed   uint64 `env:"NOISE_SEED, default=1" json:"noise_seed"`

	// White noise SNR levels in dB
	NoiseLevels []float64 `env:"NOISE_LEVELS, default=5,0,-5,-10" json:"noise_levels" validate:"unique,dive,gte=-100,lte=100"`

	// Output
	Progress bool `env:"PROGRESS, default=false" json:"progress"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Prefix           string `env:"S3_PREFIX" json:"s3_prefix,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty" validate:"omitempty,url"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format" validate:"omitempty,oneof=text json TEXT JSON"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`                                                  // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig
// and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(c.ClassNames) > 0 && c.BackgroundClass != "" && !slices.Contains(c.ClassNames, c.BackgroundClass) {
		return ErrBackgroundClassName
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for log shipping.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{DataRoot: %s, DatasetName: %s, SourceDir: %s, EventsDir: %s, BackgroundClass: %s, Split: %d/%d/%d, ShuffleSeed: %d, NoiseSeed: %d, NoiseLevels: %v, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.DataRoot,
		c.DatasetName,
		c.SourceDir,
		c.EventsDir,
		c.BackgroundClass,
		c.SplitTrain,
		c.SplitValidation,
		c.SplitTest,
		c.ShuffleSeed,
		c.NoiseSeed,
		c.NoiseLevels,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
