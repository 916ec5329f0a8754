package huffpack

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/discochess/huffpack/internal/format"
	"github.com/discochess/huffpack/internal/huffman"
)

// Report describes one completed compression or decompression.
type Report struct {
	// Src and Dst are the names the operation read from and wrote to.
	Src string
	Dst string

	// BytesIn is the number of bytes read from Src.
	BytesIn int64

	// BytesOut is the number of bytes written to Dst.
	BytesOut int64

	// Symbols is the number of distinct byte values in the original data.
	Symbols int

	// LastBits is the number of meaningful bits in the final payload byte,
	// 0 meaning all eight.
	LastBits uint8

	Duration time.Duration
}

func newReport(src, dst string, res huffman.Result, d time.Duration) *Report {
	return &Report{
		Src:      src,
		Dst:      dst,
		BytesIn:  res.BytesIn,
		BytesOut: res.BytesOut,
		Symbols:  res.Symbols,
		LastBits: res.LastBits,
		Duration: d,
	}
}

// Ratio returns BytesOut divided by BytesIn, or 0 if nothing was read.
func (r *Report) Ratio() float64 {
	if r.BytesIn == 0 {
		return 0
	}
	return float64(r.BytesOut) / float64(r.BytesIn)
}

// Change returns the relative size change as a signed percentage string.
// Examples: "-42.10%", "+3.75%"
func (r *Report) Change() string {
	if r.BytesIn == 0 {
		return "?"
	}
	pct := (r.Ratio() - 1) * 100
	sign := "+"
	if pct < 0 {
		sign = "-"
		pct = -pct
	}
	return sign + strconv.FormatFloat(pct, 'f', 2, 64) + "%"
}

// Info describes a compressed file as implied by its header.
type Info struct {
	Path string `json:"path"`

	// Size is the compressed size in bytes. Inspect derives it from the
	// header; Verify reports the actual size.
	Size int64 `json:"size"`

	// Original is the decompressed size in bytes.
	Original uint64 `json:"original"`

	Symbols  int   `json:"symbols"`
	LastBits uint8 `json:"last_bits"`

	// Bits is the payload length in bits.
	Bits uint64 `json:"bits"`

	// MaxCodeLength is the length of the longest code in bits.
	MaxCodeLength int `json:"max_code_length"`

	// Entropy is the Shannon entropy of the byte distribution in bits per
	// byte, the lower bound for any symbol-by-symbol code.
	Entropy float64 `json:"entropy"`

	// Table lists every byte value present, in ascending order.
	Table []SymbolInfo `json:"table"`
}

// SymbolInfo is one row of the code table.
type SymbolInfo struct {
	Value byte   `json:"value"`
	Count uint64 `json:"count"`
	Code  string `json:"code"`
}

// AverageCodeLength returns the mean code length in bits per byte.
func (i *Info) AverageCodeLength() float64 {
	if i.Original == 0 {
		return 0
	}
	return float64(i.Bits) / float64(i.Original)
}

// Efficiency returns entropy divided by average code length, in [0, 1].
func (i *Info) Efficiency() float64 {
	avg := i.AverageCodeLength()
	if avg == 0 {
		return 0
	}
	return i.Entropy / avg
}

// Label returns a printable form of the symbol.
func (s SymbolInfo) Label() string {
	if s.Value >= 0x21 && s.Value < 0x7f {
		return strconv.QuoteRune(rune(s.Value))
	}
	return fmt.Sprintf("0x%02x", s.Value)
}

func describe(src string, h *format.Header) (*Info, error) {
	plan, err := huffman.NewPlan(h.Freq)
	if err != nil {
		if errors.Is(err, huffman.ErrEmptyInput) {
			return nil, fmt.Errorf("inspecting %q: %w", src, ErrTreeReconstructionFailed)
		}
		return nil, fmt.Errorf("inspecting %q: %w", src, err)
	}

	info := &Info{
		Path:     src,
		Size:     plan.Size(),
		Original: h.Freq.Total(),
		Symbols:  h.Freq.Distinct(),
		LastBits: h.LastBits,
		Bits:     plan.Bits,
		Entropy:  h.Freq.Entropy(),
	}
	for _, n := range plan.Codes.Lengths() {
		info.MaxCodeLength = max(info.MaxCodeLength, n)
	}
	for _, s := range h.Freq.Symbols() {
		c, _ := plan.Codes.Lookup(s.Value)
		info.Table = append(info.Table, SymbolInfo{
			Value: s.Value,
			Count: s.Count,
			Code:  c.String(),
		})
	}
	return info, nil
}
