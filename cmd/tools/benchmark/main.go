package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soltixdb/rainflow/internal/analytics/rainflow"
	"github.com/soltixdb/rainflow/internal/models"
)

// BenchmarkConfig holds benchmark configuration
type BenchmarkConfig struct {
	BaseURL      string
	Operations   []string
	SeriesLength int
	NumSeries    int // Distinct series each worker cycles through
	NBins        int
	Duration     time.Duration
	Workers      int
	Iterations   int // Local mode only
	Local        bool
	Seed         uint64
	APIKey       string
	OutputDir    string
	HTTPClient   *http.Client // Shared HTTP client for connection pooling
}

// Metrics holds the latencies and outcomes of one operation
type Metrics struct {
	Latencies  []float64
	Errors     int64
	Success    int64
	FirstError string
	mu         sync.Mutex
}

func (m *Metrics) record(latency float64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Latencies = append(m.Latencies, latency)
	if err != nil {
		m.Errors++
		if m.FirstError == "" {
			m.FirstError = err.Error()
		}
		return
	}
	m.Success++
}

// Result represents benchmark results
type Result struct {
	Operation  string
	TotalOps   int64
	SuccessOps int64
	ErrorOps   int64
	Duration   time.Duration
	Throughput float64 // ops/sec
	AvgLatency float64 // ms
	MinLatency float64 // ms
	MaxLatency float64 // ms
	P50Latency float64 // ms
	P95Latency float64 // ms
	P99Latency float64 // ms
	ErrorMsg   string  // First error message
}

func main() {
	config := BenchmarkConfig{}
	var ops string
	flag.StringVar(&config.BaseURL, "url", "http://127.0.0.1:5555", "Base URL of the API")
	flag.StringVar(&ops, "ops", "reversals,cycles,counts", "Comma separated operations to exercise")
	flag.IntVar(&config.SeriesLength, "length", 10000, "Number of values per series")
	flag.IntVar(&config.NumSeries, "series", 16, "Number of distinct series per worker")
	flag.IntVar(&config.NBins, "nbins", 37, "Bins requested by counts (0 for raw counting)")
	flag.DurationVar(&config.Duration, "duration", 30*time.Second, "Benchmark duration")
	flag.IntVar(&config.Workers, "workers", 8, "Number of concurrent workers")
	flag.IntVar(&config.Iterations, "iterations", 100, "Iterations per operation in local mode")
	flag.BoolVar(&config.Local, "local", false, "Time the counting pipeline in-process instead of over HTTP")
	flag.Uint64Var(&config.Seed, "seed", 1, "Random seed for generated series")
	flag.StringVar(&config.APIKey, "api-key", "", "API key for authentication")
	flag.StringVar(&config.OutputDir, "out", "benchmark_results", "Directory for result files")
	flag.Parse()

	config.Operations = splitOps(ops)
	config.HTTPClient = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	fmt.Printf("=== Rainflow Benchmark Tool ===\n")
	printConfig(os.Stdout, config)
	fmt.Printf("\n")

	var results []Result
	if config.Local {
		results = runLocal(config)
	} else {
		results = runBenchmark(config)
	}

	fmt.Printf("\n=== Benchmark Results ===\n\n")
	for i, r := range results {
		if i > 0 {
			fmt.Println()
		}
		writeResult(os.Stdout, r)
	}

	saveResults(config, results)
}

func splitOps(s string) []string {
	var ops []string
	for _, op := range strings.Split(s, ",") {
		if op = strings.TrimSpace(op); op != "" {
			ops = append(ops, op)
		}
	}
	return ops
}

func printConfig(w io.Writer, config BenchmarkConfig) {
	_, _ = fmt.Fprintf(w, "Configuration:\n")
	if config.Local {
		_, _ = fmt.Fprintf(w, "  Mode: local\n")
		_, _ = fmt.Fprintf(w, "  Iterations: %d\n", config.Iterations)
	} else {
		_, _ = fmt.Fprintf(w, "  URL: %s\n", config.BaseURL)
		_, _ = fmt.Fprintf(w, "  Operations: %s\n", strings.Join(config.Operations, ","))
		_, _ = fmt.Fprintf(w, "  Duration: %s\n", config.Duration)
		_, _ = fmt.Fprintf(w, "  Workers: %d\n", config.Workers)
	}
	_, _ = fmt.Fprintf(w, "  Series Length: %d\n", config.SeriesLength)
	_, _ = fmt.Fprintf(w, "  NBins: %d\n", config.NBins)
	_, _ = fmt.Fprintf(w, "  Seed: %d\n", config.Seed)
}

// randomWalk returns a series of n cumulative standard normal steps
func randomWalk(rng *rand.Rand, n int) []float64 {
	series := make([]float64, n)
	sum := 0.0
	for i := range series {
		sum += rng.NormFloat64()
		series[i] = sum
	}
	return series
}

// buildPayloads encodes the request bodies a worker sends
func buildPayloads(config BenchmarkConfig, rng *rand.Rand) ([][]byte, error) {
	payloads := make([][]byte, 0, config.NumSeries)
	for i := 0; i < max(config.NumSeries, 1); i++ {
		req := models.SeriesRequest{Series: randomWalk(rng, config.SeriesLength)}
		if config.NBins > 0 {
			nbins := config.NBins
			req.NBins = &nbins
		}
		data, err := json.Marshal(req)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, data)
	}
	return payloads, nil
}

func runBenchmark(config BenchmarkConfig) []Result {
	metrics := make(map[string]*Metrics, len(config.Operations))
	for _, op := range config.Operations {
		metrics[op] = &Metrics{Latencies: make([]float64, 0, 10000)}
	}

	var wg sync.WaitGroup
	var sent atomic.Int64
	stopCh := make(chan struct{})
	startTime := time.Now()

	for i := 0; i < config.Workers; i++ {
		rng := rand.New(rand.NewPCG(config.Seed, uint64(i)))
		payloads, err := buildPayloads(config, rng)
		if err != nil {
			fmt.Printf("Failed to build payloads: %v\n", err)
			os.Exit(1)
		}

		wg.Add(1)
		go worker(i, config, payloads, metrics, &sent, stopCh, &wg)
	}

	go progressReporter(&sent, config.Duration, startTime)

	time.Sleep(config.Duration)
	close(stopCh)
	wg.Wait()

	results := make([]Result, 0, len(config.Operations))
	for _, op := range config.Operations {
		m := metrics[op]
		results = append(results, calculateResult(op, m.Latencies, m.Success, m.Errors, config.Duration, m.FirstError))
	}
	return results
}

func worker(id int, config BenchmarkConfig, payloads [][]byte, metrics map[string]*Metrics,
	sent *atomic.Int64, stopCh chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()

	for n := id; ; n++ {
		select {
		case <-stopCh:
			return
		default:
		}

		op := config.Operations[n%len(config.Operations)]
		url := fmt.Sprintf("%s/v1/%s", config.BaseURL, op)

		start := time.Now()
		err := makeRequest(config, url, payloads[n%len(payloads)])
		metrics[op].record(time.Since(start).Seconds()*1000, err)
		sent.Add(1)
	}
}

type localCase struct {
	name string
	cfg  rainflow.CountConfig
}

// runLocal times the counting pipeline without a server, raw counting
// against nbins binning on the same series
func runLocal(config BenchmarkConfig) []Result {
	rng := rand.New(rand.NewPCG(config.Seed, 0))
	series := randomWalk(rng, config.SeriesLength)

	cases := []localCase{{name: "counts raw"}}
	if config.NBins > 0 {
		cases = append(cases, localCase{
			name: fmt.Sprintf("counts nbins=%d", config.NBins),
			cfg:  rainflow.Bins(config.NBins),
		})
	}

	results := make([]Result, 0, len(cases))
	for _, tc := range cases {
		m := &Metrics{Latencies: make([]float64, 0, config.Iterations)}
		begin := time.Now()
		for i := 0; i < config.Iterations; i++ {
			start := time.Now()
			_, err := rainflow.CountSlice(series, tc.cfg)
			m.record(time.Since(start).Seconds()*1000, err)
		}
		results = append(results, calculateResult(tc.name, m.Latencies, m.Success, m.Errors, time.Since(begin), m.FirstError))
	}
	return results
}

func progressReporter(sent *atomic.Int64, duration time.Duration, startTime time.Time) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		<-ticker.C
		elapsed := time.Since(startTime)
		if elapsed >= duration {
			return
		}

		requests := sent.Load()
		remaining := duration - elapsed
		fmt.Printf("[%s remaining] Requests: %d (%.0f/s)\n",
			remaining.Round(time.Second), requests, float64(requests)/elapsed.Seconds())
	}
}

func makeRequest(config BenchmarkConfig, url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Connection", "keep-alive")
	if config.APIKey != "" {
		req.Header.Set("X-API-Key", config.APIKey)
	}

	resp, err := config.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	// Read and discard body to reuse connection
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}

func calculateResult(operation string, latencies []float64, success, errors int64, duration time.Duration, errorMsg string) Result {
	if len(latencies) == 0 {
		return Result{
			Operation: operation,
			TotalOps:  success + errors,
			ErrorMsg:  errorMsg,
		}
	}

	sort.Float64s(latencies)

	result := Result{
		Operation:  operation,
		TotalOps:   success + errors,
		SuccessOps: success,
		ErrorOps:   errors,
		Duration:   duration,
		Throughput: float64(success) / duration.Seconds(),
		MinLatency: latencies[0],
		MaxLatency: latencies[len(latencies)-1],
		P50Latency: percentile(latencies, 50),
		P95Latency: percentile(latencies, 95),
		P99Latency: percentile(latencies, 99),
		ErrorMsg:   errorMsg,
	}

	var sum float64
	for _, lat := range latencies {
		sum += lat
	}
	result.AvgLatency = sum / float64(len(latencies))

	return result
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(math.Ceil(float64(len(sorted)) * p / 100.0))
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

func ratio(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func writeResult(w io.Writer, r Result) {
	_, _ = fmt.Fprintf(w, "=== %s ===\n", r.Operation)
	_, _ = fmt.Fprintf(w, "Total Operations: %d\n", r.TotalOps)
	_, _ = fmt.Fprintf(w, "Success:          %d (%.2f%%)\n", r.SuccessOps, ratio(r.SuccessOps, r.TotalOps))
	_, _ = fmt.Fprintf(w, "Errors:           %d (%.2f%%)\n", r.ErrorOps, ratio(r.ErrorOps, r.TotalOps))
	_, _ = fmt.Fprintf(w, "Duration:         %s\n", r.Duration)
	_, _ = fmt.Fprintf(w, "Throughput:       %.2f ops/sec\n", r.Throughput)
	if r.ErrorOps > 0 && len(r.ErrorMsg) > 0 {
		_, _ = fmt.Fprintf(w, "First Error:      %s\n", r.ErrorMsg)
	}
	_, _ = fmt.Fprintf(w, "\nLatency (ms):\n")
	_, _ = fmt.Fprintf(w, "  Min:  %.2f\n", r.MinLatency)
	_, _ = fmt.Fprintf(w, "  Avg:  %.2f\n", r.AvgLatency)
	_, _ = fmt.Fprintf(w, "  P50:  %.2f\n", r.P50Latency)
	_, _ = fmt.Fprintf(w, "  P95:  %.2f\n", r.P95Latency)
	_, _ = fmt.Fprintf(w, "  P99:  %.2f\n", r.P99Latency)
	_, _ = fmt.Fprintf(w, "  Max:  %.2f\n", r.MaxLatency)
}

func saveResults(config BenchmarkConfig, results []Result) {
	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		fmt.Printf("Failed to create result directory: %v\n", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(config.OutputDir, fmt.Sprintf("rainflow_benchmark_%s.txt", timestamp))

	f, err := os.Create(filename)
	if err != nil {
		fmt.Printf("Failed to create result file: %v\n", err)
		return
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintf(f, "=== Rainflow Benchmark Results ===\n")
	_, _ = fmt.Fprintf(f, "Date: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	printConfig(f, config)
	_, _ = fmt.Fprintf(f, "\n")

	for i, r := range results {
		if i > 0 {
			_, _ = fmt.Fprintf(f, "\n")
		}
		writeResult(f, r)
	}

	fmt.Printf("\nResults saved to: %s\n", filename)
}
