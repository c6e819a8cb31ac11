// Package analytics provides common types and utilities shared by the
// series analysis packages (rainflow counting and its callers).
package analytics

import (
	"iter"
	"math"
	"slices"
)

// Sample is a single value of a series together with its zero-based position.
// This is the unit of reference used across all analytics packages.
type Sample struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Series is an ordered, finite sequence of measurements
type Series []float64

// Len returns the number of values
func (s Series) Len() int {
	return len(s)
}

// Values returns a lazy sequence over the series values
func (s Series) Values() iter.Seq[float64] {
	return slices.Values(s)
}

// Samples returns a lazy sequence of index/value pairs
func (s Series) Samples() iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for i, v := range s {
			if !yield(Sample{Index: i, Value: v}) {
				return
			}
		}
	}
}

// MinMax returns the smallest and largest value of the series.
// ok is false for an empty series.
func (s Series) MinMax() (lo, hi float64, ok bool) {
	var e Extent
	for _, v := range s {
		e.Observe(v)
	}
	return e.Min(), e.Max(), e.Count() > 0
}

// Span returns max - min, or 0 for an empty series
func (s Series) Span() float64 {
	lo, hi, ok := s.MinMax()
	if !ok {
		return 0
	}
	return hi - lo
}

// Extent tracks the running minimum and maximum of a stream of values.
// The zero value is ready to use.
type Extent struct {
	min   float64
	max   float64
	count int
}

// Observe records a value
func (e *Extent) Observe(v float64) {
	if e.count == 0 {
		e.min, e.max = v, v
	} else {
		e.min = math.Min(e.min, v)
		e.max = math.Max(e.max, v)
	}
	e.count++
}

// Min returns the smallest observed value (0 if nothing was observed)
func (e *Extent) Min() float64 {
	return e.min
}

// Max returns the largest observed value (0 if nothing was observed)
func (e *Extent) Max() float64 {
	return e.max
}

// Count returns the number of observed values
func (e *Extent) Count() int {
	return e.count
}

// Span returns max - min of the observed values
func (e *Extent) Span() float64 {
	return e.max - e.min
}

// Track wraps seq so that every value it yields is observed by e
func (e *Extent) Track(seq iter.Seq[float64]) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for v := range seq {
			e.Observe(v)
			if !yield(v) {
				return
			}
		}
	}
}
