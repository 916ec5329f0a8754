// Package huffman implements static per-file Huffman compression.
//
// Compression takes two passes over the input: one to count byte
// frequencies, one to encode. The frequency table is stored in the output
// header so the decoder can rebuild the same tree.
package huffman

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/discochess/huffpack/internal/bitpack"
	"github.com/discochess/huffpack/internal/code"
	"github.com/discochess/huffpack/internal/format"
	"github.com/discochess/huffpack/internal/freq"
	"github.com/discochess/huffpack/internal/tree"
)

// Sentinel errors for well-defined failure conditions.
var (
	// ErrEmptyInput indicates there is nothing to compress.
	ErrEmptyInput = errors.New("huffman: empty input")

	// ErrCorruptHeader indicates a truncated or malformed header.
	ErrCorruptHeader = format.ErrCorruptHeader

	// ErrTreeReconstructionFailed indicates a header with no non-zero counts.
	ErrTreeReconstructionFailed = errors.New("huffman: no frequencies to rebuild tree from")

	// ErrCorruptPayload indicates a payload that does not match its header.
	ErrCorruptPayload = errors.New("huffman: corrupt payload")

	// ErrOutOfMemory indicates the tree could not be allocated.
	ErrOutOfMemory = tree.ErrOutOfMemory
)

// Result summarizes one encode or decode.
type Result struct {
	// BytesIn is the number of bytes consumed, header included on decode.
	BytesIn int64
	// BytesOut is the number of bytes produced, header included on encode.
	BytesOut int64
	// Symbols is the number of distinct byte values.
	Symbols int
	// LastBits is the meaningful bit count of the final payload byte.
	LastBits uint8
}

// Plan holds everything derived from a frequency table: the tree, the
// codes and the expected payload size.
type Plan struct {
	Freq  freq.Table
	Tree  *tree.Tree
	Codes code.Table
	// Bits is the payload length in bits.
	Bits uint64
}

// NewPlan builds the tree and codes for the given counts.
func NewPlan(counts freq.Table) (*Plan, error) {
	if counts.Total() == 0 {
		return nil, ErrEmptyInput
	}
	t, err := tree.Build(counts.Symbols())
	if err != nil {
		return nil, fmt.Errorf("building tree: %w", err)
	}
	p := &Plan{Freq: counts, Tree: t, Codes: code.Generate(t)}
	p.Bits = p.Codes.TotalBits(counts)
	return p, nil
}

// Header returns the header describing this plan's output.
func (p *Plan) Header() *format.Header {
	return &format.Header{Freq: p.Freq, LastBits: bitpack.LastBits(p.Bits)}
}

// Size returns the compressed size in bytes, header included.
func (p *Plan) Size() int64 {
	return format.Size + bitpack.PayloadBytes(p.Bits)
}

// Encode writes the header, then the packed encoding of r, to w. r must
// yield exactly the bytes the plan was counted from.
func (p *Plan) Encode(r io.Reader, w io.Writer) (Result, error) {
	h := p.Header()
	if err := format.Write(w, h); err != nil {
		return Result{}, err
	}

	st, err := bitpack.Pack(r, &p.Codes, w)
	res := Result{
		BytesIn:  st.BytesRead,
		BytesOut: format.Size + st.BytesWritten,
		Symbols:  p.Freq.Distinct(),
		LastBits: h.LastBits,
	}
	if err != nil {
		return res, err
	}
	if st.Bits != p.Bits {
		return res, fmt.Errorf("input changed between passes: encoded %d bits, expected %d", st.Bits, p.Bits)
	}
	return res, nil
}

// Decode reads a compressed stream from r and writes the original bytes
// to w. The payload is decoded as it is read; bytes already written to w
// are not taken back if a later check fails.
func Decode(r io.Reader, w io.Writer) (Result, error) {
	br := bufio.NewReader(r)
	h, err := format.Read(br)
	if err != nil {
		return Result{}, err
	}
	return DecodePayload(br, h, w)
}

// DecodePayload decodes the payload that follows header h in r. r must be
// positioned just past the header and end where the payload ends.
func DecodePayload(r io.Reader, h *format.Header, w io.Writer) (Result, error) {
	p, err := NewPlan(h.Freq)
	if err != nil {
		if errors.Is(err, ErrEmptyInput) {
			return Result{}, ErrTreeReconstructionFailed
		}
		return Result{}, err
	}

	res := Result{
		BytesIn:  format.Size,
		Symbols:  h.Freq.Distinct(),
		LastBits: h.LastBits,
	}
	if want := bitpack.LastBits(p.Bits); h.LastBits != want {
		return res, fmt.Errorf("%w: last byte holds %d bits, header implies %d",
			ErrCorruptPayload, h.LastBits, want)
	}

	// bitio reads through io.ByteReader one byte at a time, so it never
	// consumes past the payload length it is given.
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	size := bitpack.PayloadBytes(p.Bits)
	n, err := bitpack.Unpack(br, size, h.LastBits, p.Tree, w)
	res.BytesOut = n
	if err != nil {
		if errors.Is(err, bitpack.ErrTruncatedPayload) || errors.Is(err, bitpack.ErrInvalidBit) {
			return res, fmt.Errorf("%w: %w", ErrCorruptPayload, err)
		}
		return res, err
	}
	res.BytesIn += size

	if _, err := br.ReadByte(); err != io.EOF {
		if err != nil {
			return res, fmt.Errorf("reading payload: %w", err)
		}
		return res, fmt.Errorf("%w: data after %d payload bytes", ErrCorruptPayload, size)
	}
	if uint64(n) != h.Freq.Total() {
		return res, fmt.Errorf("%w: decoded %d bytes, header counts %d",
			ErrCorruptPayload, n, h.Freq.Total())
	}
	return res, nil
}

// Encode compresses data in memory.
func Encode(data []byte) ([]byte, error) {
	var counts freq.Table
	counts.Add(data)

	p, err := NewPlan(counts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(int(p.Size()))
	if _, err := p.Encode(bytes.NewReader(data), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeBytes decompresses data in memory.
func DecodeBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Decode(bytes.NewReader(data), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
