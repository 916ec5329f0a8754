// Package zstdcodec provides a zstd compression codec.
package zstdcodec

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/discochess/huffpack/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements zstd compression.
type Codec struct {
	level zstd.EncoderLevel
}

// New returns a zstd codec at the default encoder level.
func New() *Codec {
	return &Codec{level: zstd.SpeedDefault}
}

// NewLevel returns a zstd codec at the given encoder level.
func NewLevel(level zstd.EncoderLevel) *Codec {
	return &Codec{level: level}
}

// Name returns "zstd".
func (c *Codec) Name() string {
	return "zstd"
}

// Reader wraps r to decompress zstd data.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

// Writer wraps w to compress data with zstd.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(c.level))
}

// Extension returns "zst".
func (c *Codec) Extension() string {
	return "zst"
}
