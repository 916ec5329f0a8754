// Package format reads and writes the compressed file header.
//
// Layout:
//
//	[256]uint32  per-byte counts, little-endian
//	uint8        meaningful bits in the last payload byte (0 = all 8)
//	...          payload
package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/discochess/huffpack/internal/freq"
)

// Size is the encoded header length in bytes.
const Size = freq.Alphabet*4 + 1

var (
	// ErrCorruptHeader indicates a truncated or malformed header.
	ErrCorruptHeader = errors.New("format: corrupt header")

	// ErrFrequencyOverflow indicates a count that does not fit in 32 bits.
	ErrFrequencyOverflow = errors.New("format: frequency exceeds 32 bits")
)

// Header precedes the payload of every compressed file.
type Header struct {
	Freq     freq.Table
	LastBits uint8
}

// Write encodes h to w.
func Write(w io.Writer, h *Header) error {
	if h.LastBits > 7 {
		return fmt.Errorf("format: last byte bit count %d out of range", h.LastBits)
	}

	buf := make([]byte, Size)
	for i, c := range h.Freq {
		if c > math.MaxUint32 {
			return fmt.Errorf("%w: byte %#02x occurs %d times", ErrFrequencyOverflow, i, c)
		}
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(c))
	}
	buf[Size-1] = h.LastBits

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

// Read decodes a header from r.
func Read(r io.Reader) (*Header, error) {
	buf := make([]byte, Size)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated", ErrCorruptHeader)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	h := &Header{LastBits: buf[Size-1]}
	for i := range h.Freq {
		h.Freq[i] = uint64(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	if h.LastBits > 7 {
		return nil, fmt.Errorf("%w: last byte bit count %d", ErrCorruptHeader, h.LastBits)
	}
	return h, nil
}
