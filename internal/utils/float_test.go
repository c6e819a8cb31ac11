package utils

import (
	"math"
	"testing"
)

func TestAlmostEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		tol      float64
		expected bool
	}{
		{"identical", 2.5, 2.5, 0, true},
		{"float noise", 10.000000000000002, 10, 1e-9, true},
		{"relative to magnitude", 1e12 + 1, 1e12, 1e-9, true},
		{"absolute below one", 1e-10, 0, 1e-9, true},
		{"distinct", 3.0, 3.1, 1e-9, false},
		{"nan", math.NaN(), math.NaN(), 1e-9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlmostEqual(tt.a, tt.b, tt.tol); got != tt.expected {
				t.Errorf("AlmostEqual(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.tol, got, tt.expected)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) {
		t.Error("1.5 should be finite")
	}
	if IsFinite(math.Inf(-1)) {
		t.Error("-Inf should not be finite")
	}
	if IsFinite(math.NaN()) {
		t.Error("NaN should not be finite")
	}
}

func BenchmarkAlmostEqual(b *testing.B) {
	for i := 0; i < b.N; i++ {
		AlmostEqual(float64(i)/3, float64(i)/3+1e-12, 1e-9)
	}
}
