package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maauso/acoustic-partition/internal/audio"
	"github.com/maauso/acoustic-partition/internal/progress"
	"github.com/maauso/acoustic-partition/internal/snr"
)

// writer emits the recordings and labels of one variant. Counters and the
// noise seed run across classes: counters give every output a unique name
// within its subset and each noisy file consumes exactly one seed.
type writer struct {
	svc       *Service
	variant   Variant
	dir       string
	estimator *snr.Estimator
	counters  map[Subset]int
	seed      uint64
	trackers  map[Subset]progress.Tracker
}

// write emits files of class c into subset sub, in order.
func (w *writer) write(ctx context.Context, c Class, sub Subset, files []string) error {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}

		out := OutputName(sub, w.counters[sub], file)
		w.counters[sub]++

		src := filepath.Join(c.Dir, file)
		dst := filepath.Join(w.dir, sub.DataDir(), out)

		if w.variant.Noisy() {
			if err := w.addNoise(c, src, dst, out); err != nil {
				return err
			}
			w.seed++
		} else if err := w.svc.store.CopyFile(ctx, src, dst); err != nil {
			return fmt.Errorf("copy %s: %w", file, err)
		}

		if err := WriteLabel(filepath.Join(w.dir, sub.LabelDir(), LabelName(out)), c.Index); err != nil {
			return err
		}

		w.trackers[sub].Increment()
		w.svc.logger.Debug("wrote recording",
			slog.String("variant", w.variant.Name),
			slog.String("subset", string(sub)),
			slog.String("output", out),
			slog.Int("label", c.Index),
		)
	}
	return nil
}

// addNoise mixes white noise drawn from the current seed into src so that
// the result sits at the variant's SNR, and writes it to dst.
func (w *writer) addNoise(c Class, src, dst, out string) error {
	rec, err := w.svc.codec.Read(src)
	if err != nil {
		return err
	}

	signalPower, err := w.estimator.SignalPower(c.Name, rec)
	if err != nil {
		return fmt.Errorf("signal power of %s: %w", src, err)
	}

	noise := snr.WhiteNoise(rec.Len(), w.seed)
	mixed, err := snr.Mix(rec.Samples, noise, signalPower, snr.Power(noise), *w.variant.SNR)
	if err != nil {
		return fmt.Errorf("mix %s: %w", src, err)
	}

	return w.svc.codec.Write(dst, &audio.Recording{
		Name:       out,
		SampleRate: rec.SampleRate,
		BitDepth:   rec.BitDepth,
		Samples:    mixed,
	})
}

func (w *writer) done() {
	for _, t := range w.trackers {
		t.Done()
	}
}

func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return info.IsDir(), nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
