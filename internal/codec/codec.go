// Package codec defines the stream interface shared by the compressors that
// huffpack can compare against each other.
package codec

import "io"

// Codec provides compression and decompression functionality.
type Codec interface {
	// Name identifies the codec in reports (e.g., "huffman", "zstd").
	Name() string
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	// Callers must Close the writer to flush all output.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "huf", "zst").
	// Returns empty string for no compression.
	Extension() string
}
