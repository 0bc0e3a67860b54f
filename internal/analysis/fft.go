package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortSeries = errors.New("analysis: series too short")

// PowerSpectrum returns |X_k| for k in [0, n/2) where n is len(series)
// rounded up to a power of two. The mean is removed and the tail zero
// padded before the transform.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	n := nextPow2(len(series))
	padded := make([]float64, n)

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))
	for i, v := range series {
		padded[i] = v - mean
	}

	coeffs := fft.FFTReal(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantFrequency is the frequency in Hz of the strongest non-DC bin.
func DominantFrequency(series []float64, sampleDt float64) (float64, error) {
	if len(series) < 4 {
		return 0, ErrShortSeries
	}
	if !(sampleDt > 0) {
		return 0, errors.New("analysis: sample interval must be positive")
	}

	ps := PowerSpectrum(series)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	n := nextPow2(len(series))
	return float64(best) / (float64(n) * sampleDt), nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
