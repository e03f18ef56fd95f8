// Package bootstrap provides dependency initialization for the partition tool.
package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/maauso/acoustic-partition/internal/audio"
	"github.com/maauso/acoustic-partition/internal/config"
	"github.com/maauso/acoustic-partition/internal/dataset"
	"github.com/maauso/acoustic-partition/internal/partition"
	"github.com/maauso/acoustic-partition/internal/progress"
	"github.com/maauso/acoustic-partition/internal/storage"
)

// Dependencies holds all initialized dependencies for a partition run.
type Dependencies struct {
	Service *dataset.Service
}

// NewDependencies creates and initializes all dependencies for the application.
// progressOut receives progress bars when cfg.Progress is set.
func NewDependencies(cfg *config.Config, logger *slog.Logger, progressOut io.Writer) (*Dependencies, error) {
	if info, err := os.Stat(cfg.DataRoot); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", cfg.DataRoot, dataset.ErrDataMissing)
	}

	// Initialize storage
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := []dataset.Option{
		dataset.WithPublish(cfg.S3Enabled()),
	}
	if cfg.Progress && progressOut != nil {
		opts = append(opts, dataset.WithReporter(progress.NewBars(progressOut)))
	}

	settings := dataset.Settings{
		DatasetName:      cfg.DatasetName,
		SourceDir:        cfg.SourceDir,
		EventsDir:        cfg.EventsDir,
		BackgroundClass:  cfg.BackgroundClass,
		ClassNames:       cfg.ClassNames,
		PairPrefixFields: cfg.PairPrefixFields,
		Quota: partition.Quota{
			Train:      cfg.SplitTrain,
			Validation: cfg.SplitValidation,
			Test:       cfg.SplitTest,
		},
		NoiseSeed:   cfg.NoiseSeed,
		NoiseLevels: cfg.NoiseLevels,
	}

	svc := dataset.NewService(
		store,
		audio.NewWAVCodec(),
		partition.New(cfg.ShuffleSeed),
		settings,
		logger,
		opts...,
	)

	return &Dependencies{
		Service: svc,
	}, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.DataRoot, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
			slog.String("prefix", cfg.S3Prefix),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.DataRoot)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("data_root", cfg.DataRoot),
	)
	return localStore, nil
}
