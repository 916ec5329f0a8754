// Package huffcodec exposes static Huffman compression as a codec.Codec.
//
// Huffman coding needs the byte frequencies of the whole input before it can
// emit anything, so the writer buffers everything until Close and the reader
// decodes the whole stream on first Read.
package huffcodec

import (
	"bytes"
	"errors"
	"io"

	"github.com/discochess/huffpack/internal/codec"
	"github.com/discochess/huffpack/internal/huffman"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements static Huffman compression.
type Codec struct{}

// New returns a new Huffman codec.
func New() *Codec {
	return &Codec{}
}

// Name returns "huffman".
func (c *Codec) Name() string {
	return "huffman"
}

// Reader wraps r to decompress Huffman data.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return &reader{src: r}, nil
}

// Writer wraps w to compress data with Huffman coding.
// Closing the writer over an empty input returns huffman.ErrEmptyInput.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return &writer{dst: w}, nil
}

// Extension returns "huf".
func (c *Codec) Extension() string {
	return "huf"
}

var errClosed = errors.New("huffcodec: use of closed stream")

type writer struct {
	dst    io.Writer
	buf    bytes.Buffer
	closed bool
}

func (w *writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errClosed
	}
	return w.buf.Write(p)
}

func (w *writer) Close() error {
	if w.closed {
		return errClosed
	}
	w.closed = true

	out, err := huffman.Encode(w.buf.Bytes())
	if err != nil {
		return err
	}
	_, err = w.dst.Write(out)
	return err
}

type reader struct {
	src     io.Reader
	decoded *bytes.Reader
	err     error
}

func (r *reader) Read(p []byte) (int, error) {
	if r.decoded == nil && r.err == nil {
		var buf bytes.Buffer
		if _, err := huffman.Decode(r.src, &buf); err != nil {
			r.err = err
		} else {
			r.decoded = bytes.NewReader(buf.Bytes())
		}
	}
	if r.err != nil {
		return 0, r.err
	}
	return r.decoded.Read(p)
}

func (r *reader) Close() error {
	return nil
}
