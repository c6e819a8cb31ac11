package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soltixdb/rainflow/internal/analytics"
	"github.com/soltixdb/rainflow/internal/compression"
	"github.com/soltixdb/rainflow/internal/logging"
	"github.com/soltixdb/rainflow/internal/seriesio"
)

func main() {
	// Command line flags
	pattern := flag.String("input", "", "Binary series file or glob, e.g. ./data/*.f64.sz")
	output := flag.String("output", "./data/csv", "Output CSV directory")
	algo := flag.String("compression", "", "Input compression (none, snappy, snappy-framed); detected from the extension when empty")
	withIndex := flag.Bool("index", true, "Write the sample index as the first column")

	flag.Parse()

	logger := logging.NewDevelopment()

	if *pattern == "" {
		log.Fatal("Error: -input parameter is required")
	}

	opts := seriesio.Options{Format: seriesio.FormatBinary}
	if *algo != "" {
		parsed, err := compression.ParseAlgorithm(*algo)
		if err != nil {
			log.Fatalf("Error: %v\n", err)
		}
		opts.Compression = parsed
	}

	files, err := filepath.Glob(*pattern)
	if err != nil {
		log.Fatalf("Error: Invalid input pattern '%s': %v\n", *pattern, err)
	}
	if len(files) == 0 {
		log.Printf("Warning: No files match %s\n", *pattern)
		return
	}

	// Ensure output directory exists
	if err := os.MkdirAll(*output, 0o755); err != nil {
		log.Fatalf("Error creating output directory: %v\n", err)
	}

	for _, file := range files {
		target, n, err := convertFile(file, *output, opts, *withIndex)
		if err != nil {
			log.Fatalf("Error converting %s: %v\n", file, err)
		}
		logger.Info("Converted series", "input", file, "output", target, "values", n)
	}

	fmt.Printf("Converted %d file(s) into %s\n", len(files), *output)
}

// convertFile decodes one binary series and writes it as CSV into dir.
// It returns the written path and the number of values.
func convertFile(path, dir string, opts seriesio.Options, withIndex bool) (string, int, error) {
	if opts.Compression == "" {
		opts.Compression = compressionFromName(path)
	}

	series, err := seriesio.DecodeFile(path, opts)
	if err != nil {
		return "", 0, err
	}

	target := filepath.Join(dir, csvName(path))
	f, err := os.Create(target)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create csv file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := writeCSV(f, series, withIndex); err != nil {
		return "", 0, err
	}
	return target, series.Len(), f.Close()
}

func compressionFromName(path string) compression.Algorithm {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sz", ".snappy":
		return compression.Snappy
	default:
		return compression.None
	}
}

// csvName strips the compression and binary extensions: load.f64.sz -> load.csv
func csvName(path string) string {
	name := filepath.Base(path)
	for {
		ext := strings.ToLower(filepath.Ext(name))
		switch ext {
		case ".sz", ".snappy", ".bin", ".f64":
			name = name[:len(name)-len(ext)]
			continue
		}
		return name + ".csv"
	}
}

func writeCSV(f *os.File, series analytics.Series, withIndex bool) error {
	writer := csv.NewWriter(f)

	header := []string{"value"}
	if withIndex {
		header = []string{"index", "value"}
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for s := range series.Samples() {
		value := strconv.FormatFloat(s.Value, 'g', -1, 64)
		record := []string{value}
		if withIndex {
			record = []string{strconv.Itoa(s.Index), value}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", s.Index, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
