// Package freq counts byte occurrences in an input stream.
package freq

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Alphabet is the number of distinct byte values.
const Alphabet = 256

// Table holds one occurrence count per byte value.
type Table [Alphabet]uint64

// Symbol pairs a byte value with its count.
type Symbol struct {
	Value byte
	Count uint64
}

// Count reads r to EOF and returns the per-byte counts.
func Count(r io.Reader) (Table, error) {
	var t Table
	if _, err := t.ReadFrom(r); err != nil {
		return Table{}, err
	}
	return t, nil
}

// ReadFrom adds the bytes of r to the table. It implements io.ReaderFrom.
func (t *Table) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 64*1024)

	var n int64
	for {
		m, err := r.Read(buf)
		for _, b := range buf[:m] {
			t[b]++
		}
		n += int64(m)
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("counting bytes: %w", err)
		}
	}
}

// Add counts the bytes in p.
func (t *Table) Add(p []byte) {
	for _, b := range p {
		t[b]++
	}
}

// Total returns the number of bytes counted.
func (t *Table) Total() uint64 {
	var sum uint64
	for _, c := range t {
		sum += c
	}
	return sum
}

// Distinct returns the number of byte values with a non-zero count.
func (t *Table) Distinct() int {
	n := 0
	for _, c := range t {
		if c > 0 {
			n++
		}
	}
	return n
}

// Symbols returns the present byte values in ascending byte order.
func (t *Table) Symbols() []Symbol {
	syms := make([]Symbol, 0, t.Distinct())
	for i, c := range t {
		if c > 0 {
			syms = append(syms, Symbol{Value: byte(i), Count: c})
		}
	}
	return syms
}

// Entropy returns the Shannon entropy of the distribution in bits per byte.
// It is the lower bound on the average code length of any prefix code.
func (t *Table) Entropy() float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	p := make([]float64, 0, t.Distinct())
	for _, c := range t {
		if c > 0 {
			p = append(p, float64(c)/float64(total))
		}
	}
	return stat.Entropy(p) / math.Ln2
}
