package services

import (
	"context"
	"errors"
	"iter"
	"slices"
	"time"

	"github.com/soltixdb/rainflow/internal/analytics/rainflow"
	"github.com/soltixdb/rainflow/internal/logging"
	"github.com/soltixdb/rainflow/internal/metrics"
	"github.com/soltixdb/rainflow/internal/models"
	"github.com/soltixdb/rainflow/internal/utils"
)

// Operation names used in logs and metrics
const (
	OpReversals = "reversals"
	OpCycles    = "cycles"
	OpCounts    = "counts"
)

// cancelCheckInterval is how many values are consumed between context checks
const cancelCheckInterval = 4096

// CountingService runs the rainflow pipeline on submitted series
type CountingService struct {
	logger          *logging.Logger
	metrics         *metrics.Metrics
	defaults        rainflow.CountConfig
	maxSeriesLength int
}

// NewCountingService creates a new CountingService.
// defaults is used by Counts when a request selects no binning, and its
// MaxBins caps every binned request; m may be nil.
func NewCountingService(
	logger *logging.Logger,
	m *metrics.Metrics,
	defaults rainflow.CountConfig,
	maxSeriesLength int,
) *CountingService {
	return &CountingService{
		logger:          logger,
		metrics:         m,
		defaults:        defaults,
		maxSeriesLength: maxSeriesLength,
	}
}

// DefaultMode returns the binning Counts applies when a request selects none
func (s *CountingService) DefaultMode() rainflow.BinningMode {
	return s.defaults.Mode()
}

// MaxBins returns the histogram length cap for binned counts
func (s *CountingService) MaxBins() int {
	return s.defaults.BinLimit()
}

// MaxSeriesLength returns the longest accepted series, 0 when unlimited
func (s *CountingService) MaxSeriesLength() int {
	return s.maxSeriesLength
}

// CountRequest represents a histogram request
type CountRequest struct {
	Series  []float64
	Binning *rainflow.CountConfig // nil selects the configured default
}

// Reversals extracts the reversal points of series
func (s *CountingService) Reversals(ctx context.Context, series []float64) (resp *models.ReversalsResponse, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, OpReversals, len(series), start, err) }()

	if err := s.validateSeries(series); err != nil {
		return nil, err
	}

	reversals := collect(rainflow.Reversals(guard(ctx, series)))
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	s.metrics.AddReversals(len(reversals))
	return &models.ReversalsResponse{
		Reversals: reversals,
		Count:     len(reversals),
	}, nil
}

// Cycles extracts the half and full cycles of series in discovery order
func (s *CountingService) Cycles(ctx context.Context, series []float64) (resp *models.CyclesResponse, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, OpCycles, len(series), start, err) }()

	if err := s.validateSeries(series); err != nil {
		return nil, err
	}

	cycles := collect(rainflow.ExtractCycles(guard(ctx, series)))
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	total := 0.0
	for _, c := range cycles {
		total += c.Count
	}
	s.metrics.AddCycles(OpCycles, total)

	return &models.CyclesResponse{
		Cycles: cycles,
		Count:  len(cycles),
		Total:  total,
	}, nil
}

// Counts aggregates the cycles of a series into a histogram
func (s *CountingService) Counts(ctx context.Context, req *CountRequest) (resp *models.CountsResponse, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, OpCounts, len(req.Series), start, err) }()

	cfg := s.defaults
	if req.Binning != nil {
		cfg = *req.Binning
		cfg.MaxBins = s.defaults.MaxBins
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ServiceError{
			Code:    CodeInvalidConfiguration,
			Message: err.Error(),
			Err:     err,
		}
	}

	if err := s.validateSeries(req.Series); err != nil {
		return nil, err
	}

	bins, err := rainflow.CountCycles(guard(ctx, req.Series), cfg)
	if err != nil {
		return nil, &ServiceError{Code: CodeInvalidConfiguration, Message: err.Error(), Err: err}
	}
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	total := rainflow.TotalCount(bins)
	s.metrics.AddCycles(OpCounts, total)

	return &models.CountsResponse{
		Mode:  cfg.Mode(),
		Bins:  bins,
		Total: total,
	}, nil
}

func (s *CountingService) validateSeries(series []float64) error {
	if s.maxSeriesLength > 0 && len(series) > s.maxSeriesLength {
		return NewServiceErrorWithDetails(CodeSeriesTooLarge, "series exceeds the maximum length",
			map[string]interface{}{
				"length": len(series),
				"limit":  s.maxSeriesLength,
			})
	}

	for i, v := range series {
		if !utils.IsFinite(v) {
			return NewServiceErrorWithDetails(CodeInvalidSeries, "series values must be finite numbers",
				map[string]interface{}{"index": i})
		}
	}
	return nil
}

func (s *CountingService) finish(ctx context.Context, op string, n int, start time.Time, err error) {
	duration := time.Since(start)
	s.metrics.ObserveRequest(op, n, duration, err)

	logger := s.logger.WithContext(ctx)
	if err != nil {
		logger.Warn("Counting request rejected", "operation", op, "length", n, "error", err)
		return
	}
	logger.Debug("Counting request completed", "operation", op, "length", n, "duration", duration)
}

// guard yields series until ctx is done
func guard(ctx context.Context, series []float64) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for i, v := range series {
			if i%cancelCheckInterval == 0 && ctx.Err() != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		msg := "request cancelled"
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "request timed out"
		}
		return &ServiceError{Code: CodeRequestCancelled, Message: msg, Err: err}
	}
	return nil
}

// collect drains seq into a non-nil slice
func collect[T any](seq iter.Seq[T]) []T {
	return slices.AppendSeq(make([]T, 0), seq)
}
