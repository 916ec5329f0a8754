// Package bitpack packs Huffman codes into bytes and walks a tree to unpack
// them again. Bits are written most significant first; the final partial
// byte is padded with zeros.
package bitpack

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"

	"github.com/discochess/huffpack/internal/code"
	"github.com/discochess/huffpack/internal/tree"
)

var (
	// ErrUnknownSymbol indicates an input byte with no code.
	ErrUnknownSymbol = errors.New("bitpack: byte has no code")

	// ErrTruncatedPayload indicates the payload ended in the middle of a code.
	ErrTruncatedPayload = errors.New("bitpack: payload ends mid-code")

	// ErrInvalidBit indicates a bit that leads nowhere in the tree.
	ErrInvalidBit = errors.New("bitpack: bit does not match tree")
)

// PackStats describes a packed payload.
type PackStats struct {
	// BytesRead is the number of input bytes consumed.
	BytesRead int64
	// Bits is the number of meaningful payload bits.
	Bits uint64
	// BytesWritten is the payload length, padding included.
	BytesWritten int64
	// LastBits is the number of meaningful bits in the final byte,
	// or 0 when the payload ends on a byte boundary.
	LastBits uint8
}

// LastBits returns the meaningful bit count of the final byte of a payload
// holding bits bits, using 0 for "all 8".
func LastBits(bits uint64) uint8 {
	return uint8(bits % 8)
}

// PayloadBytes returns the padded payload length for bits bits.
func PayloadBytes(bits uint64) int64 {
	return int64((bits + 7) / 8)
}

// Pack encodes every byte of r with codes and writes the packed bits to w.
func Pack(r io.Reader, codes *code.Table, w io.Writer) (PackStats, error) {
	var st PackStats
	br := bufio.NewReader(r)
	bw := bitio.NewWriter(w)

	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return st, fmt.Errorf("reading input: %w", err)
		}
		st.BytesRead++

		c, ok := codes.Lookup(b)
		if !ok {
			return st, fmt.Errorf("%w: %#02x", ErrUnknownSymbol, b)
		}
		for _, bit := range c {
			if err := bw.WriteBool(bit == 1); err != nil {
				return st, fmt.Errorf("writing payload: %w", err)
			}
		}
		st.Bits += uint64(len(c))
	}

	// Align pads the last byte and flushes bitio's internal buffer.
	if _, err := bw.Align(); err != nil {
		return st, fmt.Errorf("flushing payload: %w", err)
	}

	st.BytesWritten = PayloadBytes(st.Bits)
	st.LastBits = LastBits(st.Bits)
	return st, nil
}

// Unpack decodes a payload of n bytes read from r by walking t, and writes
// the decoded bytes to w. lastBits is the meaningful bit count of the final
// byte, 0 meaning all 8. It returns the number of bytes written.
func Unpack(r io.Reader, n int64, lastBits uint8, t *tree.Tree, w io.Writer) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	if lastBits > 7 {
		return 0, fmt.Errorf("bitpack: last byte bit count %d out of range", lastBits)
	}

	total := uint64(n) * 8
	if lastBits != 0 {
		total -= uint64(8 - lastBits)
	}

	br := bitio.NewReader(r)
	bw := bufio.NewWriter(w)
	root := t.Root()
	single := t.IsLeaf(root)
	cur := root

	var written int64
	for i := uint64(0); i < total; i++ {
		bit, err := br.ReadBool()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return written, fmt.Errorf("%w: %d of %d bits read", ErrTruncatedPayload, i, total)
			}
			return written, fmt.Errorf("reading payload: %w", err)
		}

		if single {
			if bit {
				return written, fmt.Errorf("%w: bit %d", ErrInvalidBit, i)
			}
		} else {
			node := t.Node(cur)
			if bit {
				cur = node.Right
			} else {
				cur = node.Left
			}
			if !t.IsLeaf(cur) {
				continue
			}
		}

		if err := bw.WriteByte(t.Node(cur).Symbol); err != nil {
			return written, fmt.Errorf("writing output: %w", err)
		}
		written++
		cur = root
	}

	if cur != root {
		return written, fmt.Errorf("%w: stream ends inside a code", ErrTruncatedPayload)
	}
	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("writing output: %w", err)
	}
	return written, nil
}
