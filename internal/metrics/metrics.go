// Package metrics exposes prometheus collectors for the counting service.
package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes used for the status label
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the service collectors and the registry they are exposed from.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	ProcessingDuration *prometheus.HistogramVec
	SeriesLength       *prometheus.HistogramVec
	CyclesTotal        *prometheus.CounterVec
	ReversalsTotal     prometheus.Counter
}

// New creates the collectors under namespace and registers them, together
// with the Go runtime and process collectors, on a private registry
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of counting requests",
			},
			[]string{"operation", "status"},
		),

		ProcessingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "processing_duration_seconds",
				Help:      "Time spent extracting and counting cycles",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation"},
		),

		SeriesLength: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "series_length",
				Help:      "Number of values per submitted series",
				Buckets:   prometheus.ExponentialBuckets(10, 10, 6),
			},
			[]string{"operation"},
		),

		CyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "Weighted number of cycles extracted (half cycles count 0.5)",
			},
			[]string{"operation"},
		),

		ReversalsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reversals_total",
				Help:      "Total number of reversals extracted",
			},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.ProcessingDuration,
		m.SeriesLength,
		m.CyclesTotal,
		m.ReversalsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records the outcome of one operation
func (m *Metrics) ObserveRequest(operation string, seriesLen int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.RequestsTotal.WithLabelValues(operation, status).Inc()
	m.ProcessingDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.SeriesLength.WithLabelValues(operation).Observe(float64(seriesLen))
}

// AddCycles adds the weighted cycle count produced by an operation
func (m *Metrics) AddCycles(operation string, count float64) {
	if m == nil || count <= 0 {
		return
	}
	m.CyclesTotal.WithLabelValues(operation).Add(count)
}

// AddReversals adds n extracted reversals
func (m *Metrics) AddReversals(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ReversalsTotal.Add(float64(n))
}

// Handler returns a Fiber handler serving the registry in the prometheus
// exposition format
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
}
