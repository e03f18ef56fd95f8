// Package dataset builds partitioned dataset variants: a plain copy of the
// source recordings split into train, validation and test, and white noise
// variants mixed at fixed signal-to-noise ratios.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Static errors for dataset processing.
var (
	// ErrDataMissing is returned when the data root or source tree is absent.
	ErrDataMissing = errors.New("dataset: source data not found")
	// ErrNoClasses is returned when the source tree has no class folders.
	ErrNoClasses = errors.New("dataset: no class folders found")
	// ErrUnknownClass is returned when configured class names and the
	// class folders on disk disagree.
	ErrUnknownClass = errors.New("dataset: class folders do not match configured class names")
)

// Subset names one of the three partitions of a variant.
type Subset string

const (
	// Train holds the training recordings.
	Train Subset = "train"
	// Validation holds the validation recordings.
	Validation Subset = "validation"
	// Test holds the test recordings.
	Test Subset = "test"
)

// Subsets lists the partitions in processing order. The order decides which
// noise seed each file consumes.
var Subsets = []Subset{Train, Validation, Test}

// DataDir returns the folder holding the subset's recordings.
func (s Subset) DataDir() string {
	return string(s) + "_data"
}

// LabelDir returns the folder holding the subset's label files.
func (s Subset) LabelDir() string {
	return string(s) + "_labels"
}

// Dirs returns every folder of a variant tree.
func Dirs() []string {
	dirs := make([]string, 0, 2*len(Subsets))
	for _, s := range Subsets {
		dirs = append(dirs, s.DataDir(), s.LabelDir())
	}
	return dirs
}

// Variant identifies one dataset output tree.
type Variant struct {
	// Name is the output folder name.
	Name string
	// SNR is the white noise level in dB, nil for the plain variant.
	SNR *float64
}

// Noisy reports whether the variant mixes in white noise.
func (v Variant) Noisy() bool {
	return v.SNR != nil
}

// PlainVariant returns the variant that copies recordings unchanged.
func PlainVariant(dataset string) Variant {
	return Variant{Name: dataset}
}

// WhiteVariant returns the white noise variant at snr dB.
func WhiteVariant(dataset string, snr float64) Variant {
	return Variant{
		Name: fmt.Sprintf("%s White %sdB", dataset, strconv.FormatFloat(snr, 'f', -1, 64)),
		SNR:  &snr,
	}
}

// OutputName returns the name of a recording in a variant tree.
func OutputName(s Subset, counter int, file string) string {
	return fmt.Sprintf("%s%d-%s", s, counter, file)
}

// LabelName returns the label file name for an output recording: the name
// up to its first dot, plus ".csv".
func LabelName(output string) string {
	stem, _, _ := strings.Cut(output, ".")
	return stem + ".csv"
}

// WriteLabel writes a one-row CSV holding the class index.
func WriteLabel(path string, classIndex int) error {
	f, err := os.Create(path) // #nosec G304 - path is built by the caller
	if err != nil {
		return fmt.Errorf("create label: %w", err)
	}

	w := csv.NewWriter(f)
	w.UseCRLF = true
	if err := w.Write([]string{strconv.Itoa(classIndex)}); err != nil {
		_ = f.Close()
		return fmt.Errorf("write label: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush label: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close label: %w", err)
	}
	return nil
}
