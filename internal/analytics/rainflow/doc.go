/*
Package rainflow implements rainflow cycle counting as defined in
ASTM E1049-85 section 5.4.4.

Counting runs as a three-stage pipeline. Each stage is a lazy iter.Seq that
pulls from the previous one, so a series is consumed exactly once and only the
pending reversal stack is held in memory:

	series -> Reversals -> ExtractCycles -> CountCycles

Reversals yields the turning points of a series (plus its first and last
points). ExtractCycles reduces them into full cycles (count 1.0) and half
cycles (count 0.5), each reported as range, mean and the series positions of
the two points bounding it. CountCycles aggregates cycle ranges into a sorted
histogram, either raw, rounded to a number of decimal digits, split into a
fixed number of bins, or split into bins of a fixed width.

	bins, err := rainflow.CountSlice(loads, rainflow.Bins(16))

All functions are pure and keep no package state, so independent calls may
run concurrently.
*/
package rainflow
