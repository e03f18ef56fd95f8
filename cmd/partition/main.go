// Package main provides the entry point for the dataset partition tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/maauso/acoustic-partition/internal/bootstrap"
	"github.com/maauso/acoustic-partition/internal/config"
	"github.com/maauso/acoustic-partition/internal/dataset"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, dataset.ErrDataMissing) {
			fmt.Fprintln(os.Stderr, "The data root cannot be found. Set DATA_ROOT or run from the directory that contains it.")
		}
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	// Optional .env file, environment variables take precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create structured logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting dataset partition",
		slog.String("data_root", cfg.DataRoot),
		slog.String("dataset", cfg.DatasetName),
		slog.Bool("standard", opts.Standard),
		slog.Bool("white", opts.White),
		slog.Any("noise_levels", cfg.NoiseLevels),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	// Initialize dependencies using bootstrap
	deps, err := bootstrap.NewDependencies(cfg, logger, stderr)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := deps.Service.Run(ctx, opts)
	if err != nil {
		return err
	}

	for _, r := range results {
		logger.Info("variant",
			slog.String("name", r.Variant.Name),
			slog.String("path", r.Path),
			slog.Bool("skipped", r.Skipped),
		)
	}
	return nil
}

// parseFlags maps the command line onto run options.
// -m implies -w: it selects the noise variants without the plain one.
func parseFlags(args []string, output io.Writer) (dataset.RunOptions, error) {
	fset := flag.NewFlagSet("partition", flag.ContinueOnError)
	fset.SetOutput(output)
	white := fset.Bool("w", false, "White noise partitions will be created at SNRs of +5, 0, -5, -10 (NOISE_LEVELS).")
	whiteOnly := fset.Bool("m", false, "Only white noise partitions will be created.")

	if err := fset.Parse(args); err != nil {
		return dataset.RunOptions{}, err
	}
	if fset.NArg() > 0 {
		return dataset.RunOptions{}, fmt.Errorf("unexpected arguments: %v", fset.Args())
	}

	return dataset.RunOptions{
		Standard: !*whiteOnly,
		White:    *white || *whiteOnly,
	}, nil
}
