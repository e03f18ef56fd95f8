package snr

import "math/rand/v2"

// WhiteNoise returns length samples drawn from a standard normal
// distribution. The generator is rebuilt from seed on every call, so the
// same (length, seed) always yields the same sequence.
func WhiteNoise(length int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed))
	noise := make([]float64, length)
	for i := range noise {
		noise[i] = rng.NormFloat64()
	}
	return noise
}
