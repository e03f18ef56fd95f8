package config

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads so host settings cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATA_ROOT", "DATASET_NAME", "SOURCE_DIR", "EVENTS_DIR",
		"BACKGROUND_CLASS", "CLASS_NAMES", "PAIR_PREFIX_FIELDS",
		"SPLIT_TRAIN", "SPLIT_VALIDATION", "SPLIT_TEST",
		"SHUFFLE_SEED", "NOISE_SEED", "NOISE_LEVELS", "PROGRESS",
		"S3_BUCKET", "S3_REGION", "S3_PREFIX", "S3_ENDPOINT",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"LOG_FORMAT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "DCLDE2013_Data", cfg.DataRoot)
	assert.Equal(t, "Stellwagen", cfg.DatasetName)
	assert.Equal(t, "Events", cfg.SourceDir)
	assert.Equal(t, "Events", cfg.EventsDir)
	assert.Equal(t, "NoWhale", cfg.BackgroundClass)
	assert.Empty(t, cfg.ClassNames)
	assert.Equal(t, 2, cfg.PairPrefixFields)
	assert.Equal(t, 2784, cfg.SplitTrain)
	assert.Equal(t, 600, cfg.SplitValidation)
	assert.Equal(t, 600, cfg.SplitTest)
	assert.Equal(t, uint64(1), cfg.ShuffleSeed)
	assert.Equal(t, uint64(1), cfg.NoiseSeed)
	assert.Equal(t, []float64{5, 0, -5, -10}, cfg.NoiseLevels)
	assert.False(t, cfg.Progress)
	assert.False(t, cfg.S3Enabled())
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_ROOT", "/data/dclde")
	t.Setenv("DATASET_NAME", "Cape")
	t.Setenv("CLASS_NAMES", "NoWhale,Gunshot,Upcall")
	t.Setenv("SPLIT_TRAIN", "90")
	t.Setenv("SPLIT_VALIDATION", "30")
	t.Setenv("SPLIT_TEST", "30")
	t.Setenv("SHUFFLE_SEED", "7")
	t.Setenv("NOISE_SEED", "100")
	t.Setenv("NOISE_LEVELS", "10,-20")
	t.Setenv("PROGRESS", "true")
	t.Setenv("S3_BUCKET", "my-bucket")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("S3_PREFIX", "datasets")
	t.Setenv("AWS_ACCESS_KEY_ID", "access-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret-key")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/dclde", cfg.DataRoot)
	assert.Equal(t, "Cape", cfg.DatasetName)
	assert.Equal(t, []string{"NoWhale", "Gunshot", "Upcall"}, cfg.ClassNames)
	assert.Equal(t, 90, cfg.SplitTrain)
	assert.Equal(t, 30, cfg.SplitValidation)
	assert.Equal(t, 30, cfg.SplitTest)
	assert.Equal(t, uint64(7), cfg.ShuffleSeed)
	assert.Equal(t, uint64(100), cfg.NoiseSeed)
	assert.Equal(t, []float64{10, -20}, cfg.NoiseLevels)
	assert.True(t, cfg.Progress)
	assert.True(t, cfg.S3Enabled())
	assert.Equal(t, "datasets", cfg.S3Prefix)
	assert.Equal(t, "access-key", cfg.AWSAccessKeyID)
	assert.Equal(t, "secret-key", cfg.AWSSecretAccessKey)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric split", "SPLIT_TRAIN", "lots"},
		{"negative split", "SPLIT_TEST", "-1"},
		{"negative seed", "SHUFFLE_SEED", "-1"},
		{"duplicate noise levels", "NOISE_LEVELS", "5,5"},
		{"absurd noise level", "NOISE_LEVELS", "500"},
		{"path in dataset name", "DATASET_NAME", "a/b"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"bad endpoint", "S3_ENDPOINT", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DataRoot:        "root",
			DatasetName:     "Stellwagen",
			SourceDir:       "Events",
			EventsDir:       "Events",
			BackgroundClass: "NoWhale",
			NoiseLevels:     []float64{5, 0},
			LogFormat:       "text",
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing data root", func(t *testing.T) {
		cfg := valid()
		cfg.DataRoot = ""
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("class names without background", func(t *testing.T) {
		cfg := valid()
		cfg.ClassNames = []string{"Gunshot", "Upcall"}
		assert.ErrorIs(t, cfg.Validate(), ErrBackgroundClassName)
	})

	t.Run("class names with background", func(t *testing.T) {
		cfg := valid()
		cfg.ClassNames = []string{"NoWhale", "Gunshot", "Upcall"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("duplicate class names", func(t *testing.T) {
		cfg := valid()
		cfg.ClassNames = []string{"NoWhale", "NoWhale"}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})
}

func TestConfig_S3Enabled(t *testing.T) {
	tests := []struct {
		name     string
		bucket   string
		region   string
		expected bool
	}{
		{"both set", "bucket", "region", true},
		{"only bucket", "bucket", "", false},
		{"only region", "", "region", false},
		{"neither set", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				S3Bucket: tt.bucket,
				S3Region: tt.region,
			}
			assert.Equal(t, tt.expected, cfg.S3Enabled())
		})
	}
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{
		DataRoot:           "/data",
		DatasetName:        "Stellwagen",
		SplitTrain:         2784,
		AWSAccessKeyID:     "access-key",
		AWSSecretAccessKey: "secret-key",
		LogFormat:          "json",
		LogLevel:           "info",
	}

	str := cfg.String()

	// Should contain non-sensitive values
	assert.Contains(t, str, "/data")
	assert.Contains(t, str, "Stellwagen")
	assert.Contains(t, str, "2784")

	// Should NOT contain sensitive values
	assert.NotContains(t, str, "secret-key")
	assert.NotContains(t, str, "access-key")
}

func TestConfig_NewLogger_JSON(t *testing.T) {
	cfg := &Config{
		LogFormat: "json",
		LogLevel:  "info",
	}

	logger := cfg.NewLogger()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.False(t, logger.Enabled(t.Context(), slog.LevelDebug))

	// Capture output to verify the JSON shape the handler produces
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	testLogger := slog.New(handler)
	testLogger.Info("test message")

	assert.Contains(t, buf.String(), `"msg"`)
	assert.Contains(t, buf.String(), "test message")
}

func TestConfig_NewLogger_Text(t *testing.T) {
	cfg := &Config{
		LogFormat: "text",
		LogLevel:  "debug",
	}

	logger := cfg.NewLogger()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo}, // defaults to info
		{"", slog.LevelInfo},        // defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}
