package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/maauso/acoustic-partition/internal/audio"
	"github.com/maauso/acoustic-partition/internal/dataset/id"
	"github.com/maauso/acoustic-partition/internal/partition"
	"github.com/maauso/acoustic-partition/internal/progress"
	"github.com/maauso/acoustic-partition/internal/snr"
	"github.com/maauso/acoustic-partition/internal/storage"
)

// Settings fixes the dataset layout and reproducibility constants.
type Settings struct {
	// DatasetName names the plain variant and prefixes noisy ones.
	DatasetName string
	// SourceDir is the class tree to partition, relative to the data root.
	SourceDir string
	// EventsDir is the reference tree for background pairing, relative to the data root.
	EventsDir string
	// BackgroundClass is the class whose power is borrowed from paired events.
	BackgroundClass string
	// ClassNames optionally fixes the class order (label indices).
	ClassNames []string
	// PairPrefixFields is the number of "-"-separated fields stripped
	// from background file names before pairing.
	PairPrefixFields int
	// Quota is the global split size, divided evenly between classes.
	Quota partition.Quota
	// NoiseSeed is the first white noise seed of every noisy variant.
	NoiseSeed uint64
	// NoiseLevels are the SNRs in dB of the white noise variants.
	NoiseLevels []float64
}

// RunOptions selects which variants a run produces.
type RunOptions struct {
	// Standard produces the plain variant.
	Standard bool
	// White produces one variant per noise level.
	White bool
}

// Result describes the outcome for one variant.
type Result struct {
	Variant   Variant
	Path      string
	Skipped   bool
	Counts    map[Subset]int
	Published int
}

// Option configures a Service.
type Option func(*Service)

// WithReporter sets the progress reporter. Defaults to progress.Nop().
func WithReporter(r progress.Reporter) Option {
	return func(s *Service) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithPublish enables publishing committed variants through storage.
func WithPublish(enabled bool) Option {
	return func(s *Service) {
		s.publish = enabled
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(runID string) Option {
	return func(s *Service) {
		if runID != "" {
			s.runID = runID
		}
	}
}

// Service orchestrates partition runs. It processes everything on the
// calling goroutine in a fixed order, since both the split and the noise
// realizations depend on the order in which seeds are consumed.
type Service struct {
	store       storage.Storage
	codec       audio.Codec
	partitioner *partition.Partitioner
	settings    Settings
	reporter    progress.Reporter
	logger      *slog.Logger
	publish     bool
	runID       string

	estimator *snr.Estimator
}

// NewService creates a new Service.
func NewService(
	store storage.Storage,
	codec audio.Codec,
	partitioner *partition.Partitioner,
	settings Settings,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:       store,
		codec:       codec,
		partitioner: partitioner,
		settings:    settings,
		reporter:    progress.Nop(),
		logger:      logger,
		runID:       id.Generate(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunID returns the identifier recorded in every manifest of this service.
func (s *Service) RunID() string {
	return s.runID
}

// Variants returns the variants a run with opts produces, in order.
func (s *Service) Variants(opts RunOptions) []Variant {
	var variants []Variant
	if opts.Standard {
		variants = append(variants, PlainVariant(s.settings.DatasetName))
	}
	if opts.White {
		for _, level := range s.settings.NoiseLevels {
			variants = append(variants, WhiteVariant(s.settings.DatasetName, level))
		}
	}
	return variants
}

// Run checks the source tree is present and builds every selected variant.
// Existing variants are skipped. The first failing variant aborts the run.
func (s *Service) Run(ctx context.Context, opts RunOptions) ([]Result, error) {
	defer s.reporter.Wait()

	stage := 1
	s.logger.Info("checking the data is present",
		slog.Int("stage", stage),
		slog.String("run_id", s.runID),
		slog.String("data_root", s.store.Root()),
	)
	stage++

	source := filepath.Join(s.store.Root(), s.settings.SourceDir)
	if ok, err := isDir(source); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%s: %w", source, ErrDataMissing)
	}
	s.logger.Info("data found", slog.String("source", source))

	var results []Result
	for _, v := range s.Variants(opts) {
		var (
			res Result
			err error
		)
		res, stage, err = s.Partition(ctx, v, stage)
		if err != nil {
			return results, fmt.Errorf("variant %q: %w", v.Name, err)
		}
		results = append(results, res)
	}

	s.logger.Info("partitions successfully produced",
		slog.String("run_id", s.runID),
		slog.Int("variants", len(results)),
	)
	return results, nil
}

// Partition builds a single variant. stage numbers the progress log lines;
// the next unused stage number is returned. A variant whose output root
// already exists is skipped. On failure nothing is left at the output root.
func (s *Service) Partition(ctx context.Context, v Variant, stage int) (Result, int, error) {
	res := Result{Variant: v, Path: filepath.Join(s.store.Root(), v.Name)}

	exists, err := s.store.Exists(ctx, v.Name)
	if err != nil {
		return res, stage, err
	}
	if exists {
		s.logger.Info("variant already exists, skipping",
			slog.String("variant", v.Name),
			slog.String("path", res.Path),
		)
		res.Skipped = true
		return res, stage, nil
	}

	s.logger.Info("creating variant",
		slog.Int("stage", stage),
		slog.String("variant", v.Name),
	)
	stage++

	staged, err := s.store.Stage(ctx, v.Name, Dirs())
	if err != nil {
		return res, stage, err
	}

	s.logger.Info("splitting the data into train, validation and test",
		slog.Int("stage", stage),
		slog.String("variant", v.Name),
	)
	stage++

	manifest, err := s.build(ctx, v, staged)
	if err != nil {
		s.discard(ctx, staged)
		return res, stage, err
	}

	if res.Path, err = s.store.Commit(ctx, staged, v.Name); err != nil {
		s.discard(ctx, staged)
		return res, stage, err
	}
	res.Counts = manifest.Counts

	s.logger.Info("variant created",
		slog.String("variant", v.Name),
		slog.String("path", res.Path),
		slog.Int("train", manifest.Counts[Train]),
		slog.Int("validation", manifest.Counts[Validation]),
		slog.Int("test", manifest.Counts[Test]),
	)

	if s.publish {
		n, err := s.store.Publish(ctx, v.Name)
		if err != nil && !errors.Is(err, storage.ErrS3NotConfigured) {
			return res, stage, err
		}
		res.Published = n
		s.logger.Info("variant published",
			slog.String("variant", v.Name),
			slog.Int("objects", n),
		)
	}

	return res, stage, nil
}

// build fills a staging tree and writes its manifest.
func (s *Service) build(ctx context.Context, v Variant, dir string) (*Manifest, error) {
	classes, err := ListClasses(filepath.Join(s.store.Root(), s.settings.SourceDir), s.settings.ClassNames)
	if err != nil {
		return nil, err
	}
	quota := s.settings.Quota.PerClass(len(classes))

	var estimator *snr.Estimator
	if v.Noisy() {
		if estimator, err = s.powerEstimator(); err != nil {
			return nil, err
		}
	}

	splits := make([]partition.Split, len(classes))
	totals := make(map[Subset]int, len(Subsets))
	for i, c := range classes {
		splits[i] = s.partitioner.Split(c.Files, quota)
		totals[Train] += len(splits[i].Train)
		totals[Validation] += len(splits[i].Validation)
		totals[Test] += len(splits[i].Test)
		if splits[i].Len() < quota.Total() {
			s.logger.Warn("class has fewer files than its quota",
				slog.String("class", c.Name),
				slog.Int("files", len(c.Files)),
				slog.Int("quota", quota.Total()),
			)
		}
	}

	w := &writer{
		svc:       s,
		variant:   v,
		dir:       dir,
		estimator: estimator,
		counters:  map[Subset]int{Train: 1, Validation: 1, Test: 1},
		seed:      s.settings.NoiseSeed,
		trackers:  make(map[Subset]progress.Tracker, len(Subsets)),
	}
	for _, sub := range Subsets {
		w.trackers[sub] = s.reporter.Track(v.Name+" "+string(sub), totals[sub])
	}
	defer w.done()

	m := &Manifest{
		RunID:         s.runID,
		Variant:       v.Name,
		SNRdB:         v.SNR,
		ShuffleSeed:   s.partitioner.Seed(),
		QuotaPerClass: quota,
		Counts:        make(map[Subset]int, len(Subsets)),
		CreatedAt:     time.Now().UTC(),
	}

	for i, c := range classes {
		split := splits[i]
		for _, sub := range Subsets {
			if err := w.write(ctx, c, sub, subsetFiles(split, sub)); err != nil {
				return nil, err
			}
		}
		m.Classes = append(m.Classes, ClassSummary{
			Index:      c.Index,
			Name:       c.Name,
			Available:  len(c.Files),
			Train:      len(split.Train),
			Validation: len(split.Validation),
			Test:       len(split.Test),
		})
	}

	for _, sub := range Subsets {
		m.Counts[sub] = w.counters[sub] - 1
	}
	if v.Noisy() {
		m.FirstNoiseSeed = s.settings.NoiseSeed
		m.NextNoiseSeed = w.seed
	}

	if err := WriteManifest(dir, m); err != nil {
		return nil, err
	}
	return m, nil
}

// discard removes a staging tree, even after ctx is cancelled.
func (s *Service) discard(ctx context.Context, staged string) {
	if err := s.store.Discard(context.WithoutCancel(ctx), staged); err != nil {
		s.logger.Warn("failed to discard staging directory",
			slog.String("path", staged),
			slog.String("error", err.Error()),
		)
	}
}

// powerEstimator lazily indexes the events tree once per service.
func (s *Service) powerEstimator() (*snr.Estimator, error) {
	if s.estimator != nil {
		return s.estimator, nil
	}
	index, err := snr.NewEventIndex(
		filepath.Join(s.store.Root(), s.settings.EventsDir),
		s.settings.BackgroundClass,
		s.settings.PairPrefixFields,
	)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("indexed events tree",
		slog.String("events_dir", s.settings.EventsDir),
		slog.Int("candidates", index.Len()),
	)
	s.estimator = snr.NewEstimator(s.codec, index, s.settings.BackgroundClass)
	return s.estimator, nil
}

func subsetFiles(split partition.Split, sub Subset) []string {
	switch sub {
	case Train:
		return split.Train
	case Validation:
		return split.Validation
	default:
		return split.Test
	}
}
