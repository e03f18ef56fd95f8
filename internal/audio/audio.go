// Package audio provides the waveform type and the codec port used to read
// and write single-channel PCM recordings.
package audio

import (
	"errors"
	"time"
)

// Static errors for decoding and encoding.
var (
	// ErrInvalidWAV is returned when a file is not a readable RIFF/WAVE file.
	ErrInvalidWAV = errors.New("audio: invalid WAV file")
	// ErrNotMono is returned for recordings with more than one channel.
	ErrNotMono = errors.New("audio: only single-channel recordings are supported")
	// ErrUnsupportedFormat is returned for compressed or floating point WAV data.
	ErrUnsupportedFormat = errors.New("audio: only uncompressed integer PCM is supported")
	// ErrUnsupportedBitDepth is returned when a bit depth cannot be encoded.
	ErrUnsupportedBitDepth = errors.New("audio: unsupported bit depth")
)

// Recording is a decoded waveform. Samples hold the raw PCM amplitudes
// upconverted to float64 without normalization, so a 16-bit file yields
// values in [-32768, 32767].
type Recording struct {
	// Name is the base file name the recording was read from.
	Name string
	// SampleRate is the number of samples per second.
	SampleRate int
	// BitDepth is the PCM sample width of the source file.
	BitDepth int
	// Samples is the waveform.
	Samples []float64
}

// Len returns the number of samples.
func (r *Recording) Len() int {
	return len(r.Samples)
}

// Duration returns the playback length of the recording.
func (r *Recording) Duration() time.Duration {
	if r.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(r.Samples)) / float64(r.SampleRate) * float64(time.Second))
}

// Codec defines the interface for reading and writing recordings.
type Codec interface {
	// Read decodes the file at path.
	Read(path string) (*Recording, error)

	// Write encodes rec to path, creating or truncating the file.
	// Samples outside the range of rec.BitDepth are saturated.
	Write(path string, rec *Recording) error
}
