// Package threshold separates a set of scalar samples into two clusters.
//
// The same routine binarizes the intensity profile of an undoverline (black
// bar versus white dots) and splits detected rectangle areas into the
// dominant cluster and outliers.
package threshold

import (
	"errors"
	"sort"
)

// ErrTooFewSamples is returned when fewer than two samples are supplied.
var ErrTooFewSamples = errors.New("threshold: at least two samples are required")

// centerTolerance is the ternary search resolution, in sample units.
const centerTolerance = 0.1

// Bimodal returns a value that splits samples into a low mode and a high
// mode. At least minLow samples are kept at or below the split and at least
// minHigh above it, when the sample count allows.
//
// The split index is found by bisection over [minIndex, maxIndex]: the
// range is halved at mid and the half whose boundary index (mid for the
// lower half, mid+1 for the upper) has the lower SeparationError is kept.
// The result is the midpoint of the two samples straddling the chosen index.
func Bimodal(samples []float64, minLow, minHigh int) (float64, error) {
	if len(samples) < 2 {
		return 0, ErrTooFewSamples
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	i := BestSplit(sorted, minLow, minHigh)
	return (sorted[i-1] + sorted[i]) / 2, nil
}

// BestSplit returns the index i in [1, len(sorted)-1] such that sorted[:i]
// and sorted[i:] form the best two-mode separation. sorted must be
// ascending and hold at least two values.
func BestSplit(sorted []float64, minLow, minHigh int) int {
	n := len(sorted)
	minIndex := max(minLow, 1)
	maxIndex := min(n-minHigh, n-1)
	if minIndex > n-1 {
		minIndex = n - 1
	}
	if minIndex >= maxIndex {
		return minIndex
	}

	lo, hi := minIndex, maxIndex
	for lo < hi {
		mid := (lo + hi) / 2
		if SeparationError(sorted, mid) <= SeparationError(sorted, mid+1) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// SeparationError is the cost of splitting sorted at index i: the sum of
// the fitting errors of sorted[:i] and sorted[i:].
func SeparationError(sorted []float64, i int) float64 {
	return ModeError(sorted[:i]) + ModeError(sorted[i:])
}

// ModeError returns the minimal sum of squared deviations of values from a
// single center. The center is located by ternary search over the observed
// range of values, so it need not coincide with a sample.
func ModeError(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	for hi-lo > centerTolerance {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if squaredDeviation(values, m1) < squaredDeviation(values, m2) {
			hi = m2
		} else {
			lo = m1
		}
	}
	return squaredDeviation(values, (lo+hi)/2)
}

func squaredDeviation(values []float64, center float64) float64 {
	var sum float64
	for _, v := range values {
		d := v - center
		sum += d * d
	}
	return sum
}
