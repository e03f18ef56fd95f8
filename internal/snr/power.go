package snr

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/maauso/acoustic-partition/internal/audio"
)

// Power returns the mean-square value of x. An empty waveform has zero power.
func Power(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Dot(x, x) / float64(len(x))
}

// Reader decodes recordings.
type Reader interface {
	Read(path string) (*audio.Recording, error)
}

// Estimator resolves the signal power used for SNR calculation.
type Estimator struct {
	reader     Reader
	index      *EventIndex
	background string
	paired     map[string]float64
}

// NewEstimator creates an Estimator. index may be nil when no background
// recordings are expected; pairing then fails with ErrNoMatchingEvent.
func NewEstimator(reader Reader, index *EventIndex, background string) *Estimator {
	return &Estimator{
		reader:     reader,
		index:      index,
		background: background,
		paired:     make(map[string]float64),
	}
}

// SignalPower returns the power of rec, or for recordings of the
// background class, the power of the paired event recording.
func (e *Estimator) SignalPower(class string, rec *audio.Recording) (float64, error) {
	if class != e.background {
		return Power(rec.Samples), nil
	}
	return e.PairedPower(rec.Name)
}

// PairedPower returns the power of the event paired with a background file.
// Results are memoized per event path.
func (e *Estimator) PairedPower(name string) (float64, error) {
	if e.index == nil {
		return 0, fmt.Errorf("%s: %w", name, ErrNoMatchingEvent)
	}
	path, err := e.index.Lookup(name)
	if err != nil {
		return 0, err
	}
	if p, ok := e.paired[path]; ok {
		return p, nil
	}

	rec, err := e.reader.Read(path)
	if err != nil {
		return 0, fmt.Errorf("read paired event for %s: %w", name, err)
	}
	p := Power(rec.Samples)
	e.paired[path] = p
	return p, nil
}
