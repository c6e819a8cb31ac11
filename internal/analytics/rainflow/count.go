package rainflow

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/soltixdb/rainflow/internal/analytics"
	"github.com/soltixdb/rainflow/internal/utils"
)

// CountCycles counts the cycles of series and returns (magnitude, count)
// pairs sorted by magnitude.
//
// Half cycles contribute 0.5 and full cycles 1.0 to the bin their range falls
// into. A series with fewer than two values or without any variation yields
// an empty result. The series is consumed exactly once.
func CountCycles(series iter.Seq[float64], cfg CountConfig) ([]Bin, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ranges are merged exactly first; bin assignment only depends on the
	// range, and the series extent is only known once the input is drained.
	var extent analytics.Extent
	ranges := make(map[float64]float64)
	for c := range ExtractCycles(extent.Track(series)) {
		ranges[c.Range] += c.Count
	}

	if extent.Count() < 2 || extent.Span() == 0 || len(ranges) == 0 {
		return []Bin{}, nil
	}

	switch cfg.Mode() {
	case ModeDigits:
		return countRounded(ranges, *cfg.NDigits), nil
	case ModeNBins:
		width := extent.Span() / float64(*cfg.NBins)
		return countNBins(ranges, width, *cfg.NBins), nil
	case ModeBinSize:
		return countBinSize(ranges, *cfg.BinSize, cfg.BinLimit())
	default:
		return sortedBins(ranges), nil
	}
}

// CountSlice is CountCycles over an in-memory series
func CountSlice(series []float64, cfg CountConfig) ([]Bin, error) {
	return CountCycles(slices.Values(series), cfg)
}

// Round rounds x half away from zero to ndigits decimal places.
// Negative ndigits round to tens, hundreds and so on.
func Round(x float64, ndigits int) float64 {
	f, _ := decimal.NewFromFloat(x).Round(int32(ndigits)).Float64()
	return f
}

func countRounded(ranges map[float64]float64, ndigits int) []Bin {
	rounded := make(map[float64]float64, len(ranges))
	for rng, count := range ranges {
		rounded[Round(rng, ndigits)] += count
	}
	return sortedBins(rounded)
}

// countNBins assigns each range to bin ceil(range/width), clamped into
// [1, nbins]. Quotients within tolerance of an integer stay in the bin whose
// right edge they sit on, so a range equal to the series span never spills
// past the last bin. All nbins bins are present.
func countNBins(ranges map[float64]float64, width float64, nbins int) []Bin {
	counts := make([]float64, nbins)
	for rng, count := range ranges {
		n := nbins
		if q := rng / width; q < float64(nbins) {
			n = edgeBin(q)
		}
		counts[max(n, 1)-1] += count
	}
	return binsFrom(counts, width)
}

// countBinSize assigns each range to bin ceil(range/width) (at least 1). Every
// bin from 1 up to the highest used one is present; a histogram that would
// need more than limit bins is rejected.
func countBinSize(ranges map[float64]float64, width float64, limit int) ([]Bin, error) {
	highest := 0.0
	for rng := range ranges {
		highest = max(highest, math.Ceil(rng/width))
	}
	if highest > float64(limit) {
		return nil, fmt.Errorf("%w: binsize %v needs %g bins, more than the limit of %d",
			ErrInvalidConfiguration, width, highest, limit)
	}

	counts := make([]float64, max(int(highest), 1))
	for rng, count := range ranges {
		n := max(int(math.Ceil(rng/width)), 1)
		counts[n-1] += count
	}
	return binsFrom(counts, width), nil
}

// edgeBin returns ceil(q), or floor(q) when q is within tolerance of it
func edgeBin(q float64) int {
	lower := math.Floor(q)
	if utils.AlmostEqual(q, lower, utils.BinEdgeTolerance) {
		return int(lower)
	}
	return int(math.Ceil(q))
}

// binsFrom reports counts[i] at the right edge of bin i+1
func binsFrom(counts []float64, width float64) []Bin {
	bins := make([]Bin, len(counts))
	for i, count := range counts {
		bins[i] = Bin{Magnitude: float64(i+1) * width, Count: count}
	}
	return bins
}

func sortedBins(counts map[float64]float64) []Bin {
	bins := make([]Bin, 0, len(counts))
	for magnitude, count := range counts {
		bins = append(bins, Bin{Magnitude: magnitude, Count: count})
	}
	sort.Slice(bins, func(i, j int) bool {
		return bins[i].Magnitude < bins[j].Magnitude
	})
	return bins
}
