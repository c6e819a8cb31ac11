package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/soltixdb/rainflow/internal/analytics/rainflow"
	"github.com/soltixdb/rainflow/internal/compression"
	"github.com/soltixdb/rainflow/internal/config"
	"github.com/soltixdb/rainflow/internal/logging"
	"github.com/soltixdb/rainflow/internal/models"
	"github.com/soltixdb/rainflow/internal/seriesio"
	"github.com/soltixdb/rainflow/internal/services"
	"github.com/soltixdb/rainflow/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command line
type options struct {
	configPath  string
	input       string
	format      string
	column      int
	compression string
	skipHeader  bool
	op          string
	ndigits     int
	nbins       int
	binsize     float64
	output      string
	version     bool

	set map[string]bool // flags given explicitly
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("rainflow", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.input, "input", "-", "Series file, or - for stdin")
	fs.StringVar(&opts.format, "format", "", "Input format: auto, text, csv, json, binary")
	fs.IntVar(&opts.column, "column", 0, "CSV column holding the series")
	fs.StringVar(&opts.compression, "compression", "", "Input compression: none, snappy, snappy-framed")
	fs.BoolVar(&opts.skipHeader, "skip-header", false, "Skip the first CSV record")
	fs.StringVar(&opts.op, "op", "counts", "Operation: reversals, cycles, counts")
	fs.IntVar(&opts.ndigits, "ndigits", 0, "Round cycle ranges to this many decimals")
	fs.IntVar(&opts.nbins, "nbins", 0, "Count cycles in this many equal bins")
	fs.Float64Var(&opts.binsize, "binsize", 0, "Count cycles in bins of this width")
	fs.StringVar(&opts.output, "output", "csv", "Output format: csv, json")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// countConfig returns the binning chosen on the command line, or nil when
// no binning flag was given
func (o *options) countConfig() *rainflow.CountConfig {
	var cfg rainflow.CountConfig
	if o.set["ndigits"] {
		cfg.NDigits = &o.ndigits
	}
	if o.set["nbins"] {
		cfg.NBins = &o.nbins
	}
	if o.set["binsize"] {
		cfg.BinSize = &o.binsize
	}
	if cfg.NDigits == nil && cfg.NBins == nil && cfg.BinSize == nil {
		return nil
	}
	return &cfg
}

// inputOptions merges the input flags over the configured input section
func (o *options) inputOptions(in config.InputConfig) (seriesio.Options, error) {
	if o.set["format"] {
		in.Format = o.format
	}
	if o.set["column"] {
		in.Column = o.column
	}
	if o.set["compression"] {
		in.Compression = o.compression
	}
	if o.set["skip-header"] {
		in.SkipHeader = o.skipHeader
	}
	return in.Options()
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	if opts.version {
		_, _ = fmt.Fprintf(stdout, "rainflow %s\n", utils.Version)
		return 0
	}

	if err := execute(opts, stdout, stderr); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func execute(opts *options, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	// Results go to stdout, so logs never do
	if cfg.Logging.OutputPath == "" || cfg.Logging.OutputPath == "stdout" {
		cfg.Logging.OutputPath = "stderr"
	}
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return err
	}

	if opts.output != "csv" && opts.output != "json" {
		return fmt.Errorf("unsupported output format %q", opts.output)
	}

	inputOpts, err := opts.inputOptions(cfg.Input)
	if err != nil {
		return err
	}

	binning := opts.countConfig()
	if binning != nil {
		if err := binning.Validate(); err != nil {
			return err
		}
	}

	defaults, err := cfg.Counting.CountConfig()
	if err != nil {
		return err
	}

	series, err := seriesio.DecodeFile(opts.input, inputOpts)
	if err != nil {
		return err
	}
	lo, hi, _ := series.MinMax()
	logger.Debug("Series loaded",
		"input", opts.input,
		"format", string(inputOpts.Format),
		"compressed", inputOpts.Compression != compression.None,
		"length", series.Len(),
		"min", lo,
		"max", hi,
	)
	if series.Len() > 1 && series.Span() == 0 {
		logger.Warn("Series has no variation, no cycles will be counted", "input", opts.input)
	}

	svc := services.NewCountingService(logger, nil, defaults, 0)
	ctx := context.Background()

	var result interface{}
	switch opts.op {
	case services.OpReversals:
		result, err = svc.Reversals(ctx, series)
	case services.OpCycles:
		result, err = svc.Cycles(ctx, series)
	case services.OpCounts:
		result, err = svc.Counts(ctx, &services.CountRequest{Series: series, Binning: binning})
	default:
		return fmt.Errorf("unsupported operation %q", opts.op)
	}
	if err != nil {
		return err
	}

	if opts.output == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return writeCSV(stdout, result)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeCSV writes one record per result row, preceded by a header
func writeCSV(w io.Writer, result interface{}) error {
	var records [][]string
	switch r := result.(type) {
	case *models.ReversalsResponse:
		records = append(records, []string{"index", "value"})
		for _, rev := range r.Reversals {
			records = append(records, []string{strconv.Itoa(rev.Index), formatFloat(rev.Value)})
		}
	case *models.CyclesResponse:
		records = append(records, []string{"range", "mean", "count", "start", "end"})
		for _, c := range r.Cycles {
			records = append(records, []string{
				formatFloat(c.Range),
				formatFloat(c.Mean),
				formatFloat(c.Count),
				strconv.Itoa(c.Start),
				strconv.Itoa(c.End),
			})
		}
	case *models.CountsResponse:
		records = append(records, []string{"magnitude", "count"})
		for _, b := range r.Bins {
			records = append(records, []string{formatFloat(b.Magnitude), formatFloat(b.Count)})
		}
	default:
		return fmt.Errorf("unexpected result type %T", result)
	}

	if err := csv.NewWriter(w).WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
