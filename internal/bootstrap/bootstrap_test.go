package bootstrap

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/acoustic-partition/internal/config"
	"github.com/maauso/acoustic-partition/internal/dataset"
)

func testConfig(root string) *config.Config {
	return &config.Config{
		DataRoot:         root,
		DatasetName:      "Stellwagen",
		SourceDir:        "Events",
		EventsDir:        "Events",
		BackgroundClass:  "NoWhale",
		PairPrefixFields: 2,
		SplitTrain:       2784,
		SplitValidation:  600,
		SplitTest:        600,
		ShuffleSeed:      1,
		NoiseSeed:        1,
		NoiseLevels:      []float64{5, 0, -5, -10},
		LogFormat:        "text",
		LogLevel:         "info",
	}
}

func TestNewDependencies_Local(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	deps, err := NewDependencies(testConfig(t.TempDir()), logger, io.Discard)
	require.NoError(t, err)
	require.NotNil(t, deps.Service)

	assert.Contains(t, logs.String(), "local storage configured")
	assert.Len(t, deps.Service.Variants(dataset.RunOptions{Standard: true, White: true}), 5)
}

func TestNewDependencies_S3(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cfg := testConfig(t.TempDir())
	cfg.S3Bucket = "bucket"
	cfg.S3Region = "us-east-1"
	cfg.S3Endpoint = "http://localhost:4566"
	cfg.AWSAccessKeyID = "key"
	cfg.AWSSecretAccessKey = "secret"
	cfg.Progress = true

	deps, err := NewDependencies(cfg, logger, io.Discard)
	require.NoError(t, err)
	require.NotNil(t, deps.Service)
	assert.Contains(t, logs.String(), "S3 storage configured")
}

func TestNewDependencies_MissingDataRoot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewDependencies(testConfig(filepath.Join(t.TempDir(), "DCLDE2013_Data")), logger, io.Discard)
	assert.ErrorIs(t, err, dataset.ErrDataMissing)
}
