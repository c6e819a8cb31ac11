package models

import "github.com/soltixdb/rainflow/internal/analytics/rainflow"

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Version   string         `json:"version"`
	Counting  CountingLimits `json:"counting"`
}

// CountingLimits describes how the service counts when a request leaves
// binning unset, and the largest inputs it accepts (0 series length means
// unlimited)
type CountingLimits struct {
	DefaultMode     rainflow.BinningMode `json:"default_mode"`
	MaxSeriesLength int                  `json:"max_series_length"`
	MaxBins         int                  `json:"max_bins"`
}

// ReversalsResponse lists the reversals of a series
type ReversalsResponse struct {
	Reversals []rainflow.Reversal `json:"reversals"`
	Count     int                 `json:"count"`
}

// CyclesResponse lists the cycles of a series in discovery order
type CyclesResponse struct {
	Cycles []rainflow.Cycle `json:"cycles"`
	Count  int              `json:"count"`
	Total  float64          `json:"total"` // Weighted sum, half cycles count 0.5
}

// CountsResponse is the cycle histogram of a series
type CountsResponse struct {
	Mode  rainflow.BinningMode `json:"mode"`
	Bins  []rainflow.Bin       `json:"bins"`
	Total float64              `json:"total"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
