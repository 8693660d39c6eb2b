package analytics

import (
	"math"
	"slices"
)

const (
	// madScale makes the MAD comparable to a standard deviation for normal data
	madScale = 0.6745

	// minRobustSample is the smallest sample RobustZScores will score
	minRobustSample = 5

	// DefaultAnomalyThreshold is the |z| cut-off used by the insights endpoint
	DefaultAnomalyThreshold = 3.5
)

// Median returns the median of values. ok is false for an empty slice.
// The input is not modified.
func Median(values []float64) (median float64, ok bool) {
	n := len(values)
	if n == 0 {
		return 0, false
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// RobustZScores scores each value as 0.6745*(x-median)/MAD, where MAD is the
// median absolute deviation. Samples smaller than five, or with a MAD of
// zero, score zero throughout.
func RobustZScores(values []float64) []float64 {
	scores := make([]float64, len(values))
	if len(values) < minRobustSample {
		return scores
	}

	med, _ := Median(values)
	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - med)
	}

	mad, _ := Median(deviations)
	if mad == 0 {
		return scores
	}

	factor := madScale / mad
	for i, v := range values {
		scores[i] = factor * (v - med)
	}
	return scores
}

// FlagAnomalies returns the indices of values whose robust z-score has an
// absolute value of at least threshold.
func FlagAnomalies(values []float64, threshold float64) []int {
	flagged := []int{}
	for i, z := range RobustZScores(values) {
		if math.Abs(z) >= threshold {
			flagged = append(flagged, i)
		}
	}
	return flagged
}
