// Package codectest provides helpers for testing codec.Codec implementations.
package codectest

import (
	"bytes"
	"io"
	"testing"

	"github.com/discochess/huffpack/internal/codec"
)

// Compress writes data through c and returns the compressed bytes.
func Compress(t testing.TB, c codec.Codec, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := c.Writer(&buf)
	if err != nil {
		t.Fatalf("%s: Writer() error = %v", c.Name(), err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("%s: Write() error = %v", c.Name(), err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("%s: Close() error = %v", c.Name(), err)
	}
	return buf.Bytes()
}

// Decompress reads data through c and returns the decompressed bytes.
func Decompress(t testing.TB, c codec.Codec, data []byte) []byte {
	t.Helper()

	r, err := c.Reader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("%s: Reader() error = %v", c.Name(), err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("%s: ReadAll() error = %v", c.Name(), err)
	}
	return out
}

// RoundTrip compresses and decompresses data, fails t if the result
// differs, and returns the compressed form.
func RoundTrip(t testing.TB, c codec.Codec, data []byte) []byte {
	t.Helper()

	compressed := Compress(t, c, data)
	if got := Decompress(t, c, compressed); !bytes.Equal(got, data) {
		t.Errorf("%s: round trip returned %d bytes, want %d", c.Name(), len(got), len(data))
	}
	return compressed
}
