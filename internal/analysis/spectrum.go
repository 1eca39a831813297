// Package analysis looks for periodic structure in recorded particle
// counts, such as the cadence of the throttled refill.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// peakTolerance groups bins whose power is within 10% of the strongest
// one. An impulse train has equal harmonics, and the lowest of them is
// its fundamental.
const peakTolerance = 0.9

// Deltas returns the per-tick change of a count series.
func Deltas(counts []float64) []float64 {
	if len(counts) < 2 {
		return []float64{}
	}
	out := make([]float64, len(counts)-1)
	for i := 1; i < len(counts); i++ {
		out[i-1] = counts[i] - counts[i-1]
	}
	return out
}

// PowerSpectrum returns the magnitude of the first n/2 bins of the
// Hann-windowed, mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return []float64{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range data {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod reports the period in ticks of the strongest non-DC
// component of data, and its power. A flat series reports 0, 0.
func DominantPeriod(data []float64) (float64, float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, 0
	}

	peak := 0.0
	for _, p := range ps[1:] {
		peak = math.Max(peak, p)
	}
	if peak < 1e-9 {
		return 0, 0
	}

	for k := 1; k < len(ps); k++ {
		if ps[k] >= peak*peakTolerance {
			return float64(len(data)) / float64(k), ps[k]
		}
	}
	return 0, 0
}
