package rainflow

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBins compares histograms allowing float noise in the bin edges
func assertBins(t *testing.T, expected, actual []Bin) {
	t.Helper()
	require.Len(t, actual, len(expected), "got %v", actual)
	for i := range expected {
		assert.InDelta(t, expected[i].Magnitude, actual[i].Magnitude, 1e-9, "magnitude of bin %d", i)
		assert.InDelta(t, expected[i].Count, actual[i].Count, 1e-12, "count of bin %d", i)
	}
}

func TestCountCycles_Raw(t *testing.T) {
	bins, err := CountSlice(astmSeries, CountConfig{})
	require.NoError(t, err)
	assert.Equal(t, astmCounts, bins)
}

func TestCountCycles_PaddedSeriesAddsEndRanges(t *testing.T) {
	// The canonical five bins come from the unpadded series (see
	// TestCountCycles_Raw). Zero padding adds two half cycles of range 2,
	// one at each end, so a sixth bin (2, 1.0) appears.
	bins, err := CountSlice(paddedSeries, CountConfig{})
	require.NoError(t, err)

	expected := append([]Bin{{Magnitude: 2, Count: 1.0}}, astmCounts...)
	assert.Equal(t, expected, bins)
}

func TestCountCycles_RepeatedValues(t *testing.T) {
	doubled := make([]float64, 0, 2*len(astmSeries))
	for _, v := range astmSeries {
		doubled = append(doubled, v, v)
	}

	bins, err := CountSlice(doubled, CountConfig{})
	require.NoError(t, err)
	assert.Equal(t, astmCounts, bins)
}

func TestCountCycles_NDigits(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 43))
	jittered := make([]float64, len(astmSeries))
	for i, v := range astmSeries {
		jittered[i] = v + 0.01*rng.Float64()
	}

	raw, err := CountSlice(jittered, CountConfig{})
	require.NoError(t, err)
	assert.NotEqual(t, astmCounts, raw)

	rounded, err := CountSlice(jittered, Digits(1))
	require.NoError(t, err)
	assert.Equal(t, astmCounts, rounded)
}

func TestCountCycles_NegativeNDigits(t *testing.T) {
	bins, err := CountSlice(astmSeries, Digits(-1))
	require.NoError(t, err)
	assert.Equal(t, []Bin{{Magnitude: 0, Count: 2}, {Magnitude: 10, Count: 2}}, bins)
}

func TestCountCycles_NBins(t *testing.T) {
	tests := []struct {
		nbins    int
		expected []Bin
	}{
		{1, []Bin{{9, 4.0}}},
		{2, []Bin{{4.5, 2.0}, {9, 2.0}}},
		{5, []Bin{{1.8, 0}, {3.6, 0.5}, {5.4, 1.5}, {7.2, 0.5}, {9, 1.5}}},
		{9, []Bin{{1, 0}, {2, 0}, {3, 0.5}, {4, 1.5}, {5, 0}, {6, 0.5}, {7, 0}, {8, 1.0}, {9, 0.5}}},
		{10, []Bin{
			{0.9, 0}, {1.8, 0}, {2.7, 0}, {3.6, 0.5}, {4.5, 1.5},
			{5.4, 0}, {6.3, 0.5}, {7.2, 0}, {8.1, 1.0}, {9, 0.5},
		}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("nbins=%d", tt.nbins), func(t *testing.T) {
			bins, err := CountSlice(astmSeries, Bins(tt.nbins))
			require.NoError(t, err)
			assertBins(t, tt.expected, bins)
		})
	}
}

func TestCountCycles_BinSize(t *testing.T) {
	tests := []struct {
		binsize  float64
		expected []Bin
	}{
		{10, []Bin{{10, 4.0}}},
		{9, []Bin{{9, 4.0}}},
		{5, []Bin{{5, 2.0}, {10, 2.0}}},
		{3, []Bin{{3, 0.5}, {6, 2.0}, {9, 1.5}}},
		{2, []Bin{{2, 0}, {4, 2.0}, {6, 0.5}, {8, 1.0}, {10, 0.5}}},
		{1, []Bin{{1, 0}, {2, 0}, {3, 0.5}, {4, 1.5}, {5, 0}, {6, 0.5}, {7, 0}, {8, 1.0}, {9, 0.5}}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("binsize=%v", tt.binsize), func(t *testing.T) {
			bins, err := CountSlice(astmSeries, BinWidth(tt.binsize))
			require.NoError(t, err)
			assertBins(t, tt.expected, bins)
		})
	}
}

func TestCountCycles_NBinsAlwaysExact(t *testing.T) {
	// Bin edges computed from (max-min)/nbins must never spill a range
	// into an extra bin.
	for seed := uint64(1); seed <= 30; seed++ {
		series := randomSeries(seed, 200)
		for _, k := range []int{1, 2, 3, 7, 10, 13, 64, 100} {
			bins, err := CountSlice(series, Bins(k))
			require.NoError(t, err)
			assert.Len(t, bins, k, "seed %d nbins %d", seed, k)
		}
	}

	// Ranges spanning the full series with awkward bin widths
	for _, k := range []int{3, 6, 7, 10, 49} {
		bins, err := CountSlice([]float64{0.1, 0.7, 0.1, 0.7}, Bins(k))
		require.NoError(t, err)
		assert.Len(t, bins, k)
	}
}

func TestCountCycles_BinSizeIsContiguous(t *testing.T) {
	bins, err := CountSlice(randomSeries(3, 500), BinWidth(2.5))
	require.NoError(t, err)
	require.NotEmpty(t, bins)

	for i, b := range bins {
		assert.InDelta(t, float64(i+1)*2.5, b.Magnitude, 1e-9)
	}
}

func TestCountCycles_BinSizeUsesStrictCeiling(t *testing.T) {
	// A range a hair above a bin edge belongs to the next bin
	above := 4 + 1e-12
	bins, err := CountSlice([]float64{0, above, 0}, BinWidth(1))
	require.NoError(t, err)
	require.Len(t, bins, 5)
	assert.Zero(t, bins[3].Count)
	assert.Equal(t, 1.0, bins[4].Count)

	// nbins keeps such a range in the last bin
	bins, err = CountSlice([]float64{0, above, 0, 2, 0}, Bins(4))
	require.NoError(t, err)
	require.Len(t, bins, 4)
	assert.Equal(t, 1.0, bins[3].Count)
}

func TestCountCycles_TooManyBins(t *testing.T) {
	series := []float64{0, 9, 0, 4, 0}

	tests := []struct {
		name string
		cfg  CountConfig
	}{
		{"huge nbins", Bins(1 << 40)},
		{"nbins over default limit", Bins(DefaultMaxBins + 1)},
		{"tiny binsize", BinWidth(1e-300)},
		{"smallest binsize", BinWidth(math.SmallestNonzeroFloat64)},
		{"binsize over default limit", BinWidth(9.0 / (DefaultMaxBins + 1))},
		{"nbins over custom limit", CountConfig{NBins: Bins(11).NBins, MaxBins: 10}},
		{"binsize over custom limit", CountConfig{BinSize: BinWidth(0.5).BinSize, MaxBins: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bins []Bin
			var err error
			require.NotPanics(t, func() {
				bins, err = CountSlice(series, tt.cfg)
			})
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Nil(t, bins)
		})
	}
}

func TestCountCycles_AtBinLimit(t *testing.T) {
	series := []float64{0, 9, 0, 4, 0}

	bins, err := CountSlice(series, CountConfig{BinSize: BinWidth(1).BinSize, MaxBins: 9})
	require.NoError(t, err)
	assert.Len(t, bins, 9)

	bins, err = CountSlice(series, CountConfig{NBins: Bins(9).NBins, MaxBins: 9})
	require.NoError(t, err)
	assert.Len(t, bins, 9)
}

func TestCountCycles_NBinsTinySpan(t *testing.T) {
	// The bin width underflows to zero; every range lands in the last bin
	series := []float64{0, 5e-324, 0}
	var bins []Bin
	var err error
	require.NotPanics(t, func() {
		bins, err = CountSlice(series, Bins(DefaultMaxBins))
	})
	require.NoError(t, err)
	require.Len(t, bins, DefaultMaxBins)
	assert.InDelta(t, 1.0, TotalCount(bins), 1e-12)
}

func TestCountCycles_MassConserved(t *testing.T) {
	configs := map[string]CountConfig{
		"digits":   Digits(1),
		"digits-2": Digits(-2),
		"nbins":    Bins(8),
		"binsize":  BinWidth(4),
	}

	for seed := uint64(1); seed <= 10; seed++ {
		series := randomSeries(seed, 250)
		raw, err := CountSlice(series, CountConfig{})
		require.NoError(t, err)

		for name, cfg := range configs {
			bins, err := CountSlice(series, cfg)
			require.NoError(t, err)
			assert.InDelta(t, TotalCount(raw), TotalCount(bins), 1e-9, "%s seed %d", name, seed)
		}
	}
}

func TestCountCycles_Sorted(t *testing.T) {
	bins, err := CountSlice(randomSeries(11, 1000), CountConfig{})
	require.NoError(t, err)
	assert.True(t, slices.IsSortedFunc(bins, func(a, b Bin) int {
		switch {
		case a.Magnitude < b.Magnitude:
			return -1
		case a.Magnitude > b.Magnitude:
			return 1
		}
		return 0
	}))
}

func TestCountCycles_Degenerate(t *testing.T) {
	series := map[string][]float64{
		"empty":      {},
		"single":     {3},
		"two points": {1, 2},
		"flat":       {5, 5, 5, 5},
	}
	configs := map[string]CountConfig{
		"raw":     {},
		"digits":  Digits(2),
		"nbins":   Bins(4),
		"binsize": BinWidth(1),
	}

	for sname, s := range series {
		for cname, cfg := range configs {
			t.Run(sname+"/"+cname, func(t *testing.T) {
				bins, err := CountSlice(s, cfg)
				require.NoError(t, err)
				assert.NotNil(t, bins)
				assert.Empty(t, bins)
			})
		}
	}
}

func TestCountCycles_InvalidConfiguration(t *testing.T) {
	n, w, d := 1, 1.0, 2
	zero, negative := 0, -3.0
	nan, huge := math.NaN(), 400

	tests := []struct {
		name string
		cfg  CountConfig
	}{
		{"nbins and binsize", CountConfig{NBins: &n, BinSize: &w}},
		{"ndigits and nbins", CountConfig{NDigits: &d, NBins: &n}},
		{"ndigits and binsize", CountConfig{NDigits: &d, BinSize: &w}},
		{"all three", CountConfig{NDigits: &d, NBins: &n, BinSize: &w}},
		{"zero nbins", CountConfig{NBins: &zero}},
		{"negative binsize", CountConfig{BinSize: &negative}},
		{"nan binsize", CountConfig{BinSize: &nan}},
		{"out of range ndigits", CountConfig{NDigits: &huge}},
		{"negative max bins", CountConfig{MaxBins: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bins, err := CountSlice(astmSeries, tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration))
			assert.Nil(t, bins)

			// Rejected before looking at the series
			_, err = CountSlice(nil, tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestCountConfig_Mode(t *testing.T) {
	assert.Equal(t, ModeRaw, CountConfig{}.Mode())
	assert.Equal(t, ModeDigits, Digits(0).Mode())
	assert.Equal(t, ModeNBins, Bins(3).Mode())
	assert.Equal(t, ModeBinSize, BinWidth(0.5).Mode())
}

func TestRound(t *testing.T) {
	tests := []struct {
		x        float64
		ndigits  int
		expected float64
	}{
		{3.14159, 2, 3.14},
		{2.675, 2, 2.68},
		{1234.5, 0, 1235},
		{1234.5, -2, 1200},
		{-0.125, 2, -0.13},
		{8, -1, 10},
		{4, -1, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Round(tt.x, tt.ndigits), "Round(%v, %d)", tt.x, tt.ndigits)
	}
}

func TestRound_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 1000; i++ {
		x := rng.NormFloat64() * 1000
		for _, n := range []int{-2, 0, 1, 3, 6} {
			once := Round(x, n)
			assert.Equal(t, once, Round(once, n), "Round(%v, %d)", x, n)
		}
	}
}

func TestCountCycles_RoundedResultIsStable(t *testing.T) {
	bins, err := CountSlice(randomSeries(9, 400), Digits(1))
	require.NoError(t, err)

	for _, b := range bins {
		assert.Equal(t, b.Magnitude, Round(b.Magnitude, 1))
	}
}

func TestCountCycles_LazySeries(t *testing.T) {
	pulled := 0
	bins, err := CountCycles(countingSeq(astmSeries, &pulled), Bins(9))
	require.NoError(t, err)
	assert.Equal(t, len(astmSeries), pulled, "series must be consumed exactly once")
	assert.Len(t, bins, 9)
}

func TestCountCycles_Concurrent(t *testing.T) {
	expected, err := CountSlice(randomSeries(1, 2000), Bins(20))
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		t.Run(fmt.Sprintf("worker-%d", i), func(t *testing.T) {
			t.Parallel()
			bins, err := CountSlice(randomSeries(1, 2000), Bins(20))
			require.NoError(t, err)
			assert.Equal(t, expected, bins)
		})
	}
}
