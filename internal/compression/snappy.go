package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// SnappyCompressor implements Compressor using the Snappy block format
type SnappyCompressor struct{}

// NewSnappyCompressor creates a new Snappy compressor
func NewSnappyCompressor() *SnappyCompressor {
	return &SnappyCompressor{}
}

// Compress compresses data using Snappy
func (s *SnappyCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	return snappy.Encode(nil, data), nil
}

// Decompress decompresses Snappy compressed data
func (s *SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	decompressed, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompress failed: %w", err)
	}
	return decompressed, nil
}

// Algorithm returns Snappy
func (s *SnappyCompressor) Algorithm() Algorithm {
	return Snappy
}

// FramedSnappyCompressor implements StreamCompressor using the Snappy
// framing format, as written by snappy stream tools
type FramedSnappyCompressor struct{}

// NewFramedSnappyCompressor creates a new framed Snappy compressor
func NewFramedSnappyCompressor() *FramedSnappyCompressor {
	return &FramedSnappyCompressor{}
}

// NewReader returns a reader decompressing the framed stream r
func (s *FramedSnappyCompressor) NewReader(r io.Reader) io.Reader {
	return snappy.NewReader(r)
}

// NewWriter returns a buffered framed writer; Close must be called to flush
func (s *FramedSnappyCompressor) NewWriter(w io.Writer) io.WriteCloser {
	return snappy.NewBufferedWriter(w)
}

// Compress compresses data into a single framed stream
func (s *FramedSnappyCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := s.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("snappy stream compress failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("snappy stream compress failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress decompresses a complete framed stream
func (s *FramedSnappyCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := io.ReadAll(s.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("snappy stream decompress failed: %w", err)
	}
	return out, nil
}

// Algorithm returns SnappyFramed
func (s *FramedSnappyCompressor) Algorithm() Algorithm {
	return SnappyFramed
}
