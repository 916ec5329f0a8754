// Package code derives prefix-free bit codes from a Huffman tree.
package code

import (
	"strings"

	"github.com/discochess/huffpack/internal/freq"
	"github.com/discochess/huffpack/internal/tree"
)

// Code is a sequence of bits, each 0 or 1, most significant first.
type Code []byte

// String renders the code as a string of '0' and '1'.
func (c Code) String() string {
	var sb strings.Builder
	sb.Grow(len(c))
	for _, b := range c {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

// Table maps byte values to codes. Slots for absent symbols are nil.
type Table [freq.Alphabet]Code

// Generate walks t depth-first, appending 0 for a left descent and 1 for a
// right descent. A root that is itself a leaf is given the code "0".
func Generate(t *tree.Tree) Table {
	var tbl Table
	path := make([]byte, 0, freq.Alphabet)

	var walk func(id tree.NodeID)
	walk = func(id tree.NodeID) {
		if t.IsLeaf(id) {
			c := Code{0}
			if len(path) > 0 {
				c = append(Code(nil), path...)
			}
			tbl[t.Node(id).Symbol] = c
			return
		}
		n := t.Node(id)
		path = append(path, 0)
		walk(n.Left)
		path[len(path)-1] = 1
		walk(n.Right)
		path = path[:len(path)-1]
	}
	walk(t.Root())

	return tbl
}

// Lookup returns the code for b.
func (t *Table) Lookup(b byte) (Code, bool) {
	c := t[b]
	return c, c != nil
}

// Lengths returns the code length per byte value; absent symbols are 0.
func (t *Table) Lengths() [freq.Alphabet]int {
	var l [freq.Alphabet]int
	for i, c := range t {
		l[i] = len(c)
	}
	return l
}

// TotalBits returns the encoded payload size, in bits, of an input with the
// given counts.
func (t *Table) TotalBits(counts freq.Table) uint64 {
	var bits uint64
	for i, n := range counts {
		bits += n * uint64(len(t[i]))
	}
	return bits
}
