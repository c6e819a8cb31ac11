// Package seriesio reads and writes the series files consumed by the
// rainflow tools.
package seriesio

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soltixdb/rainflow/internal/analytics"
	"github.com/soltixdb/rainflow/internal/compression"
	"github.com/soltixdb/rainflow/internal/utils"
)

// Format identifies the layout of a series payload
type Format string

const (
	FormatAuto   Format = "auto"
	FormatText   Format = "text"
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatBinary Format = "binary" // little-endian float64
)

// maxLineSize bounds a single text line
const maxLineSize = 16 * 1024 * 1024

var (
	// ErrInvalidValue is returned when a token is not a finite number
	ErrInvalidValue = errors.New("invalid series value")

	// ErrUnsupportedFormat is returned for unknown format names
	ErrUnsupportedFormat = errors.New("unsupported series format")
)

// Options control how a payload is decoded
type Options struct {
	Format      Format
	Column      int  // CSV column holding the series
	SkipHeader  bool // CSV: drop the first record
	Compression compression.Algorithm
}

// ParseFormat converts a configuration value into a Format.
// An empty string means auto detection.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatText, FormatCSV, FormatJSON, FormatBinary:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Decode reads a whole series from r.
// With FormatAuto the payload is sniffed: a leading '[' means JSON, anything
// else is read as text.
func Decode(r io.Reader, opts Options) (analytics.Series, error) {
	r, err := compression.NewReader(r, opts.Compression)
	if err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" || format == FormatAuto {
		br := bufio.NewReader(r)
		format = sniff(br)
		r = br
	}

	switch format {
	case FormatText:
		return decodeText(r)
	case FormatCSV:
		return decodeCSV(r, opts.Column, opts.SkipHeader)
	case FormatJSON:
		return decodeJSON(r)
	case FormatBinary:
		return decodeBinary(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// DecodeFile reads a series from path, or from stdin when path is "-".
// FormatAuto resolves the format from the file extension, and a trailing
// .sz or .snappy selects snappy compression unless one is configured.
func DecodeFile(path string, opts Options) (analytics.Series, error) {
	if path == "-" {
		return Decode(os.Stdin, opts)
	}

	if opts.Format == "" || opts.Format == FormatAuto {
		format, algo := detect(path)
		opts.Format = format
		if opts.Compression == "" || opts.Compression == compression.None {
			opts.Compression = algo
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open series file: %w", err)
	}
	defer func() { _ = file.Close() }()

	series, err := Decode(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return series, nil
}

// EncodeBinary writes series as little-endian float64 values
func EncodeBinary(w io.Writer, series []float64) error {
	buf := make([]byte, 8*len(series))
	for i, v := range series {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	_, err := w.Write(buf)
	return err
}

func detect(path string) (Format, compression.Algorithm) {
	algo := compression.None
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".sz" || ext == ".snappy" {
		algo = compression.Snappy
		path = strings.TrimSuffix(path, filepath.Ext(path))
		ext = strings.ToLower(filepath.Ext(path))
	}

	switch ext {
	case ".csv":
		return FormatCSV, algo
	case ".json":
		return FormatJSON, algo
	case ".bin", ".f64":
		return FormatBinary, algo
	default:
		return FormatAuto, algo
	}
}

func sniff(br *bufio.Reader) Format {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return FormatText
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			_ = br.UnreadByte()
			return FormatJSON
		default:
			_ = br.UnreadByte()
			return FormatText
		}
	}
}

func parseValue(token string) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || !utils.IsFinite(v) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, token)
	}
	return v, nil
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', ',', ';':
		return true
	}
	return false
}

func decodeText(r io.Reader) (analytics.Series, error) {
	series := analytics.Series{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, token := range strings.FieldsFunc(text, isSeparator) {
			v, err := parseValue(token)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			series = append(series, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read series: %w", err)
	}
	return series, nil
}

func decodeCSV(r io.Reader, column int, skipHeader bool) (analytics.Series, error) {
	if column < 0 {
		return nil, fmt.Errorf("invalid csv column: %d", column)
	}

	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	series := analytics.Series{}
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if row == 1 && skipHeader {
			continue
		}
		if column >= len(record) {
			return nil, fmt.Errorf("row %d: column %d out of range (%d columns)", row, column, len(record))
		}
		v, err := parseValue(strings.TrimSpace(record[column]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		series = append(series, v)
	}
	return series, nil
}

func decodeJSON(r io.Reader) (analytics.Series, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode json series: %w", err)
	}

	series := make(analytics.Series, 0, len(raw))
	for i, item := range raw {
		v, err := parseValue(string(item))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		series = append(series, v)
	}
	return series, nil
}

func decodeBinary(r io.Reader) (analytics.Series, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read series: %w", err)
	}
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("binary series length %d is not a multiple of 8", len(data))
	}

	series := make(analytics.Series, len(data)/8)
	for i := range series {
		v := math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
		if !utils.IsFinite(v) {
			return nil, fmt.Errorf("value %d: %w: %v", i, ErrInvalidValue, v)
		}
		series[i] = v
	}
	return series, nil
}

