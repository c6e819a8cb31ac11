package models

import "github.com/soltixdb/rainflow/internal/analytics/rainflow"

// SeriesRequest is the body accepted by the /v1 endpoints.
// The binning parameters only apply to /v1/counts; at most one may be given.
type SeriesRequest struct {
	Series  []float64 `json:"series"`
	NDigits *int      `json:"ndigits,omitempty"`
	NBins   *int      `json:"nbins,omitempty"`
	BinSize *float64  `json:"binsize,omitempty"`
}

// HasBinning reports whether the request selects a binning mode itself
func (r *SeriesRequest) HasBinning() bool {
	return r.NDigits != nil || r.NBins != nil || r.BinSize != nil
}

// CountConfig returns the binning requested by the body
func (r *SeriesRequest) CountConfig() rainflow.CountConfig {
	return rainflow.CountConfig{
		NDigits: r.NDigits,
		NBins:   r.NBins,
		BinSize: r.BinSize,
	}
}
