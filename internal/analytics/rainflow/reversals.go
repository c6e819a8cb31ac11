package rainflow

import (
	"iter"
)

// Reversals returns the reversal points of series in ascending index order.
//
// The first point is always a reversal. A run of equal consecutive values is
// treated as a single point and reported at the last index of the run. The
// last point is reported when at least three values were read and the series
// is not flat. Series with fewer than two values yield nothing.
func Reversals(series iter.Seq[float64]) iter.Seq[Reversal] {
	return func(yield func(Reversal) bool) {
		var (
			i       = -1
			current float64 // latest distinct value
			at      int     // last index holding current
			slope   float64 // difference leading into current
			moved   bool    // series left its first value
		)

		for v := range series {
			i++
			switch i {
			case 0:
				current = v
				continue
			case 1:
				if !yield(Reversal{Index: 0, Value: current}) {
					return
				}
				slope = v - current
				moved = slope != 0
				current, at = v, 1
				continue
			}

			if v == current {
				at = i
				continue
			}

			d := v - current
			if slope*d < 0 {
				if !yield(Reversal{Index: at, Value: current}) {
					return
				}
			}
			current, at, slope = v, i, d
			moved = true
		}

		if i >= 2 && moved {
			yield(Reversal{Index: i, Value: current})
		}
	}
}
