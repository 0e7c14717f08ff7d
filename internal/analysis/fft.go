package analysis

import (
	"math/cmplx"
	"slices"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitudes of the non-negative frequency bins
// of data after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	centered := slices.Clone(data)
	floats.AddConst(-stat.Mean(data, nil), centered)

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// RecurrencePeriod estimates the dominant period of series sampled every
// dt, or 0 when the series is too short or carries no oscillation.
func RecurrencePeriod(series []float64, dt float64) float64 {
	n := len(series)
	if n < 4 || dt <= 0 {
		return 0
	}

	ps := PowerSpectrum(series)
	best, bestMag := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestMag {
			best, bestMag = k, ps[k]
		}
	}

	if best == 0 || bestMag < 1e-12 {
		return 0
	}
	return float64(n) * dt / float64(best)
}
