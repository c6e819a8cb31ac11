package rainflow

import (
	"iter"
	"math/rand/v2"
	"slices"
)

// Common fixtures for all rainflow tests

var (
	// astmSeries is the worked example of ASTM E1049-85 figure 6
	astmSeries = []float64{-2, 1, -3, 5, -1, 3, -4, 4, -2}

	// astmCounts is the expected histogram of astmSeries
	astmCounts = []Bin{
		{Magnitude: 3, Count: 0.5},
		{Magnitude: 4, Count: 1.5},
		{Magnitude: 6, Count: 0.5},
		{Magnitude: 8, Count: 1.0},
		{Magnitude: 9, Count: 0.5},
	}

	// paddedSeries is astmSeries with a zero prepended and appended
	paddedSeries = []float64{0, -2, 1, -3, 5, -1, 3, -4, 4, -2, 0}
)

// randomSeries returns a reproducible random walk with occasional repeated values
func randomSeries(seed uint64, n int) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	series := make([]float64, n)
	v := 0.0
	for i := range series {
		if i > 0 && rng.IntN(10) == 0 {
			series[i] = v
			continue
		}
		v += rng.NormFloat64() * 10
		series[i] = v
	}
	return series
}

// countingSeq yields values and records how many were pulled
func countingSeq(values []float64, pulled *int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for _, v := range values {
			*pulled++
			if !yield(v) {
				return
			}
		}
	}
}

func collectReversals(series []float64) []Reversal {
	return slices.Collect(Reversals(slices.Values(series)))
}

func collectCycles(series []float64) []Cycle {
	return slices.Collect(ExtractCycles(slices.Values(series)))
}
