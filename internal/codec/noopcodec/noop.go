// Package noopcodec provides a pass-through codec. It gives the baseline
// (uncompressed) size in codec comparisons.
package noopcodec

import (
	"io"

	"github.com/discochess/huffpack/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec copies bytes unchanged.
type Codec struct{}

// New returns a new no-op codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "none".
func (c *Codec) Name() string {
	return "none"
}

// Reader returns r unchanged. Closing it does not close r, matching the
// compressing codecs.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// Writer returns w unchanged. Closing it does not close w.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return writer{w}, nil
}

// Extension returns the empty string.
func (c *Codec) Extension() string {
	return ""
}

type writer struct {
	io.Writer
}

func (writer) Close() error { return nil }
