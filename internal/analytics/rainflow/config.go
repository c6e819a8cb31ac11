package rainflow

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned when a CountConfig cannot be applied
var ErrInvalidConfiguration = errors.New("invalid configuration")

// maxDigits bounds NDigits to what a float64 can meaningfully carry
const maxDigits = 308

// DefaultMaxBins is the bin limit applied when CountConfig.MaxBins is zero
const DefaultMaxBins = 1 << 20

// BinningMode identifies how cycle ranges are turned into histogram keys
type BinningMode string

const (
	ModeRaw     BinningMode = "raw"     // Unrounded ranges
	ModeDigits  BinningMode = "digits"  // Ranges rounded to NDigits decimals
	ModeNBins   BinningMode = "nbins"   // NBins bins spanning the series range
	ModeBinSize BinningMode = "binsize" // Bins of width BinSize
)

// CountConfig selects the binning applied by CountCycles.
// At most one of NDigits, NBins and BinSize may be set; the zero value
// counts raw ranges.
type CountConfig struct {
	NDigits *int     // Round ranges to this many decimals (negative rounds to tens, hundreds...)
	NBins   *int     // Number of equally wide bins over max(series) - min(series)
	BinSize *float64 // Width of each bin

	// MaxBins caps the histogram length in the nbins and binsize modes.
	// Zero selects DefaultMaxBins.
	MaxBins int
}

// BinLimit returns the effective bin cap
func (c CountConfig) BinLimit() int {
	if c.MaxBins == 0 {
		return DefaultMaxBins
	}
	return c.MaxBins
}

// Digits returns a config rounding ranges to n decimal digits
func Digits(n int) CountConfig {
	return CountConfig{NDigits: &n}
}

// Bins returns a config splitting ranges into n bins
func Bins(n int) CountConfig {
	return CountConfig{NBins: &n}
}

// BinWidth returns a config splitting ranges into bins of width w
func BinWidth(w float64) CountConfig {
	return CountConfig{BinSize: &w}
}

// Mode returns the binning mode selected by the config.
// The result is only meaningful for a config that passes Validate.
func (c CountConfig) Mode() BinningMode {
	switch {
	case c.NDigits != nil:
		return ModeDigits
	case c.NBins != nil:
		return ModeNBins
	case c.BinSize != nil:
		return ModeBinSize
	default:
		return ModeRaw
	}
}

// Validate checks that at most one binning mode is requested and that its
// parameter is usable
func (c CountConfig) Validate() error {
	set := 0
	for _, given := range []bool{c.NDigits != nil, c.NBins != nil, c.BinSize != nil} {
		if given {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("%w: ndigits, nbins and binsize are mutually exclusive", ErrInvalidConfiguration)
	}

	if c.NDigits != nil && (*c.NDigits > maxDigits || *c.NDigits < -maxDigits) {
		return fmt.Errorf("%w: ndigits must be within [-%d, %d], got %d",
			ErrInvalidConfiguration, maxDigits, maxDigits, *c.NDigits)
	}

	if c.MaxBins < 0 {
		return fmt.Errorf("%w: max bins cannot be negative, got %d", ErrInvalidConfiguration, c.MaxBins)
	}

	if c.NBins != nil && *c.NBins < 1 {
		return fmt.Errorf("%w: nbins must be positive, got %d", ErrInvalidConfiguration, *c.NBins)
	}

	if c.NBins != nil && *c.NBins > c.BinLimit() {
		return fmt.Errorf("%w: nbins %d exceeds the limit of %d bins",
			ErrInvalidConfiguration, *c.NBins, c.BinLimit())
	}

	if c.BinSize != nil {
		w := *c.BinSize
		if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
			return fmt.Errorf("%w: binsize must be a positive finite number, got %v", ErrInvalidConfiguration, w)
		}
	}

	return nil
}
