package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT transforms data zero-padded to the next power of two.
func FFT(data []float64) []complex128 {
	padded := make([]float64, nextPow2(len(data)))
	copy(padded, data)
	return fft.FFTReal(padded)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func PowerSpectrum(data []float64) []float64 {
	bins := FFT(data)
	ps := make([]float64, len(bins)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}

	return ps
}

// DominantFrequency returns the strongest frequency, in Hz, of samples taken
// every dt seconds. The mean is removed first. Returns 0 for constant or too
// short input.
func DominantFrequency(data []float64, dt float64) float64 {
	if len(data) < 4 || dt <= 0 {
		return 0
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best, peak := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak {
			best, peak = k, ps[k]
		}
	}
	if peak < 1e-12 {
		return 0
	}
	return float64(best) / (float64(nextPow2(len(data))) * dt)
}
