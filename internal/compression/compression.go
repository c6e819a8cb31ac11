package compression

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Algorithm identifies how a series payload is compressed
type Algorithm string

const (
	None         Algorithm = "none"
	Snappy       Algorithm = "snappy"        // Snappy block format
	SnappyFramed Algorithm = "snappy-framed" // Snappy framing (stream) format
)

// Compressor interface for compression algorithms
type Compressor interface {
	// Compress compresses data
	Compress(data []byte) ([]byte, error)

	// Decompress decompresses data
	Decompress(data []byte) ([]byte, error)

	// Algorithm returns the compression algorithm type
	Algorithm() Algorithm
}

// StreamCompressor is implemented by compressors whose format can be
// decoded incrementally
type StreamCompressor interface {
	Compressor

	// NewReader returns a reader decompressing r
	NewReader(r io.Reader) io.Reader

	// NewWriter returns a writer compressing into w; Close flushes it
	NewWriter(w io.Writer) io.WriteCloser
}

// ParseAlgorithm converts a configuration value into an Algorithm.
// An empty string means no compression.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch algo := Algorithm(strings.ToLower(strings.TrimSpace(name))); algo {
	case "":
		return None, nil
	case None, Snappy, SnappyFramed:
		return algo, nil
	default:
		return "", fmt.Errorf("unsupported compression algorithm: %q", name)
	}
}

// GetCompressor returns a compressor for the given algorithm
func GetCompressor(algo Algorithm) (Compressor, error) {
	switch algo {
	case None, "":
		return &NoneCompressor{}, nil
	case Snappy:
		return NewSnappyCompressor(), nil
	case SnappyFramed:
		return NewFramedSnappyCompressor(), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %q", algo)
	}
}

// NewReader wraps r so that reading from it yields decompressed bytes.
// Block formats are read fully before decoding.
func NewReader(r io.Reader, algo Algorithm) (io.Reader, error) {
	c, err := GetCompressor(algo)
	if err != nil {
		return nil, err
	}
	if sc, ok := c.(StreamCompressor); ok {
		return sc.NewReader(r), nil
	}
	if algo == None || algo == "" {
		return r, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s payload: %w", algo, err)
	}
	decoded, err := c.Decompress(data)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(decoded), nil
}

// NoneCompressor is a no-op compressor
type NoneCompressor struct{}

func (n *NoneCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (n *NoneCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

func (n *NoneCompressor) Algorithm() Algorithm {
	return None
}
