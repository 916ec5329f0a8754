// Package gzipcodec provides a gzip compression codec.
package gzipcodec

import (
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/discochess/huffpack/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements gzip compression.
type Codec struct {
	level int
}

// New returns a gzip codec at the default compression level.
func New() *Codec {
	return &Codec{level: gzip.DefaultCompression}
}

// NewLevel returns a gzip codec at the given level, from gzip.HuffmanOnly
// to gzip.BestCompression.
func NewLevel(level int) *Codec {
	return &Codec{level: level}
}

// Name returns "gzip".
func (c *Codec) Name() string {
	return "gzip"
}

// Reader wraps r to decompress gzip data.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// Writer wraps w to compress data with gzip. An invalid level is reported
// here rather than at construction.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, c.level)
}

// Extension returns "gz".
func (c *Codec) Extension() string {
	return "gz"
}
