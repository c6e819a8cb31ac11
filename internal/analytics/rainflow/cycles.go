package rainflow

import (
	"iter"
	"math"

	"github.com/gammazero/deque"
)

// ExtractCycles returns the cycles of series in the order the reduction
// discovers them, which is not chronological.
func ExtractCycles(series iter.Seq[float64]) iter.Seq[Cycle] {
	return ExtractCyclesFromReversals(Reversals(series))
}

// ExtractCyclesFromReversals runs the rainflow reduction over an already
// extracted reversal sequence.
//
// For every new reversal the two most recent ranges are compared: X between
// the newest two points and Y between the two before. While X >= Y, Y is
// counted. If Y contains the oldest pending point it is a half cycle and that
// point is dropped; otherwise it is a full cycle and both of its points are
// dropped. Whatever remains once the input ends is counted as half cycles.
func ExtractCyclesFromReversals(reversals iter.Seq[Reversal]) iter.Seq[Cycle] {
	return func(yield func(Cycle) bool) {
		var points deque.Deque[Reversal]

		for r := range reversals {
			points.PushBack(r)

			for points.Len() >= 3 {
				n := points.Len()
				p1, p2, p3 := points.At(n-3), points.At(n-2), points.At(n-1)
				x := math.Abs(p3.Value - p2.Value)
				y := math.Abs(p2.Value - p1.Value)

				if x < y {
					break
				}

				if n == 3 {
					if !yield(newCycle(p1, p2, HalfCycle)) {
						return
					}
					points.PopFront()
					continue
				}

				if !yield(newCycle(p1, p2, FullCycle)) {
					return
				}
				last := points.PopBack()
				points.PopBack()
				points.PopBack()
				points.PushBack(last)
			}
		}

		// Residue
		for points.Len() > 1 {
			if !yield(newCycle(points.At(0), points.At(1), HalfCycle)) {
				return
			}
			points.PopFront()
		}
	}
}
