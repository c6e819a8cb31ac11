// Package utils holds service constants and float helpers shared across packages.
package utils

import "math"

// AlmostEqual reports whether a and b differ by at most tol relative to the
// larger magnitude (absolute tol for magnitudes below 1).
func AlmostEqual(a, b, tol float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tol*scale
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
