package feature

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// sampleStdDev is the n-1 standard deviation; fewer than 2 samples yields 0.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sd := stat.StdDev(xs, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return sd
}

func maxOf(xs []float64) float64 {
	m := 0.0
	for i, x := range xs {
		if i == 0 || x > m {
			m = x
		}
	}
	return m
}

// entropy is the Shannon entropy (natural log) of a normalized distribution.
func entropy(probs []float64) float64 {
	h := stat.Entropy(probs)
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	return h
}
