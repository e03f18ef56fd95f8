// Package snr implements signal power estimation, seeded white noise
// synthesis and noise mixing at an exact target signal-to-noise ratio.
package snr

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Static errors for mixing.
var (
	// ErrDegenerateNoise is returned when the noise power is zero.
	ErrDegenerateNoise = errors.New("snr: degenerate noise power")
	// ErrLengthMismatch is returned when signal and noise lengths differ.
	ErrLengthMismatch = errors.New("snr: signal and noise lengths differ")
)

// Alpha returns the factor that scales noise of power noisePower so that
// signalPower over the scaled noise power equals targetDB decibels.
func Alpha(signalPower, noisePower, targetDB float64) (float64, error) {
	if noisePower == 0 {
		return 0, ErrDegenerateNoise
	}
	return math.Sqrt(signalPower / noisePower * math.Pow(10, -targetDB/10)), nil
}

// Mix returns signal + alpha*noise where alpha realizes targetDB.
// The result is not clipped; signal and noise are left untouched.
func Mix(signal, noise []float64, signalPower, noisePower, targetDB float64) ([]float64, error) {
	if len(signal) != len(noise) {
		return nil, fmt.Errorf("%d vs %d samples: %w", len(signal), len(noise), ErrLengthMismatch)
	}

	alpha, err := Alpha(signalPower, noisePower, targetDB)
	if err != nil {
		return nil, err
	}

	mixed := make([]float64, len(signal))
	copy(mixed, signal)
	floats.AddScaled(mixed, alpha, noise)
	return mixed, nil
}
