package rainflow

import (
	"math"

	"github.com/soltixdb/rainflow/internal/analytics"
)

// Cycle weights
const (
	HalfCycle = 0.5 // Unclosed range at the start or end of the series
	FullCycle = 1.0 // Range enclosed by larger ranges on both sides
)

// Reversal is a turning point of the series (or one of its endpoints)
type Reversal = analytics.Sample

// Cycle is a load cycle extracted from a series
type Cycle struct {
	Range float64 `json:"range"` // Peak-to-valley distance
	Mean  float64 `json:"mean"`  // Midpoint of the two bounding values
	Count float64 `json:"count"` // HalfCycle or FullCycle
	Start int     `json:"start"` // Series index of the earlier bounding point
	End   int     `json:"end"`   // Series index of the later bounding point
}

// Bin is one entry of a cycle histogram
type Bin struct {
	Magnitude float64 `json:"magnitude"`
	Count     float64 `json:"count"`
}

// newCycle builds the cycle bounded by two reversals
func newCycle(a, b Reversal, count float64) Cycle {
	start, end := a.Index, b.Index
	if start > end {
		start, end = end, start
	}
	return Cycle{
		Range: math.Abs(a.Value - b.Value),
		Mean:  0.5 * (a.Value + b.Value),
		Count: count,
		Start: start,
		End:   end,
	}
}

// TotalCount sums the counts of all bins
func TotalCount(bins []Bin) float64 {
	total := 0.0
	for _, b := range bins {
		total += b.Count
	}
	return total
}
