package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Compile-time check that WAVCodec implements Codec.
var _ Codec = (*WAVCodec)(nil)

// wavFormatPCM is the RIFF format tag for uncompressed integer PCM.
const wavFormatPCM = 1

// WAVCodec implements Codec for mono integer PCM WAV files using go-audio.
type WAVCodec struct{}

// NewWAVCodec creates a new WAVCodec.
func NewWAVCodec() *WAVCodec {
	return &WAVCodec{}
}

// Read decodes a mono PCM WAV file.
func (c *WAVCodec) Read(path string) (*Recording, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from the dataset tree
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidWAV)
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%s: format %d: %w", path, decoder.WavAudioFormat, ErrUnsupportedFormat)
	}
	if decoder.NumChans != 1 {
		return nil, fmt.Errorf("%s: %d channels: %w", path, decoder.NumChans, ErrNotMono)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav %s: %w", path, err)
	}

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v)
	}

	return &Recording{
		Name:       filepath.Base(path),
		SampleRate: int(decoder.SampleRate),
		BitDepth:   int(decoder.BitDepth),
		Samples:    samples,
	}, nil
}

// Write encodes rec as a mono PCM WAV file at the recording's bit depth.
// Samples are rounded to the nearest integer and saturated to the range
// representable at that depth.
func (c *WAVCodec) Write(path string, rec *Recording) error {
	lo, hi, err := sampleRange(rec.BitDepth)
	if err != nil {
		return err
	}

	data := make([]int, len(rec.Samples))
	for i, v := range rec.Samples {
		data[i] = int(math.Max(lo, math.Min(hi, math.Round(v))))
	}

	f, err := os.Create(path) // #nosec G304 - path is built by the caller
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}

	enc := wav.NewEncoder(f, rec.SampleRate, rec.BitDepth, 1, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  rec.SampleRate,
		},
		Data:           data,
		SourceBitDepth: rec.BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode wav %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("finalize wav %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}
	return nil
}

// sampleRange returns the representable integer range for a PCM bit depth.
// 8-bit WAV data is unsigned.
func sampleRange(bitDepth int) (lo, hi float64, err error) {
	switch bitDepth {
	case 8:
		return 0, math.MaxUint8, nil
	case 16:
		return math.MinInt16, math.MaxInt16, nil
	case 24:
		return -(1 << 23), 1<<23 - 1, nil
	case 32:
		return math.MinInt32, math.MaxInt32, nil
	default:
		return 0, 0, fmt.Errorf("%d bits: %w", bitDepth, ErrUnsupportedBitDepth)
	}
}
