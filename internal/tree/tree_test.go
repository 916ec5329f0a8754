package tree

import (
	"errors"
	"testing"

	"github.com/discochess/huffpack/internal/freq"
)

func symbols(s string) []freq.Symbol {
	var tbl freq.Table
	tbl.Add([]byte(s))
	return tbl.Symbols()
}

func TestBuild_NoSymbols(t *testing.T) {
	_, err := Build(nil)
	if !errors.Is(err, ErrNoSymbols) {
		t.Errorf("Build(nil) error = %v, want ErrNoSymbols", err)
	}
}

func TestBuild_ZeroFrequency(t *testing.T) {
	_, err := Build([]freq.Symbol{{Value: 'a', Count: 1}, {Value: 'b', Count: 0}})
	if !errors.Is(err, ErrZeroFrequency) {
		t.Errorf("Build() error = %v, want ErrZeroFrequency", err)
	}
}

func TestBuild_SingleSymbol(t *testing.T) {
	tr, err := Build([]freq.Symbol{{Value: 'x', Count: 42}})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
	if !tr.IsLeaf(tr.Root()) {
		t.Error("root of single-symbol tree should be a leaf")
	}
	if got := tr.Node(tr.Root()).Symbol; got != 'x' {
		t.Errorf("root symbol = %q, want 'x'", got)
	}
	if tr.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", tr.Depth())
	}
}

func TestBuild_AAABBC(t *testing.T) {
	tr, err := Build(symbols("aaabbc"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// c(1) and b(2) merge first into a node of 3; it queues behind a(3),
	// so a is extracted first and becomes the left child of the root.
	root := tr.Node(tr.Root())
	if root.Freq != 6 {
		t.Errorf("root freq = %d, want 6", root.Freq)
	}
	if !tr.IsLeaf(root.Left) || tr.Node(root.Left).Symbol != 'a' {
		t.Errorf("root.Left = %+v, want leaf 'a'", tr.Node(root.Left))
	}

	inner := tr.Node(root.Right)
	if inner.Freq != 3 || tr.IsLeaf(root.Right) {
		t.Fatalf("root.Right = %+v, want internal node of 3", inner)
	}
	if tr.Node(inner.Left).Symbol != 'c' || tr.Node(inner.Right).Symbol != 'b' {
		t.Errorf("inner children = %q, %q, want c, b",
			tr.Node(inner.Left).Symbol, tr.Node(inner.Right).Symbol)
	}
	if tr.Len() != 5 {
		t.Errorf("Len() = %d, want 5", tr.Len())
	}
}

func TestBuild_FullAlphabet(t *testing.T) {
	leaves := make([]freq.Symbol, freq.Alphabet)
	for i := range leaves {
		leaves[i] = freq.Symbol{Value: byte(i), Count: uint64(i%7 + 1)}
	}

	tr, err := Build(leaves)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if tr.Len() != 2*freq.Alphabet-1 {
		t.Errorf("Len() = %d, want %d", tr.Len(), 2*freq.Alphabet-1)
	}

	var sum uint64
	for _, l := range leaves {
		sum += l.Count
	}
	if got := tr.Node(tr.Root()).Freq; got != sum {
		t.Errorf("root freq = %d, want %d", got, sum)
	}

	// Every internal node has exactly two children.
	for id := NodeID(0); int(id) < tr.Len(); id++ {
		n := tr.Node(id)
		if (n.Left == None) != (n.Right == None) {
			t.Fatalf("node %d has exactly one child", id)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	in := symbols("the quick brown fox jumps over the lazy dog, again and again")

	a, err := Build(in)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	b, err := Build(in)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !a.Equal(b) {
		t.Error("two builds over the same input produced different trees")
	}
}

func TestBuild_TooManySymbols(t *testing.T) {
	leaves := make([]freq.Symbol, freq.Alphabet+1)
	for i := range leaves {
		leaves[i] = freq.Symbol{Value: byte(i), Count: 1}
	}
	if _, err := Build(leaves); err == nil {
		t.Error("Build() with more than 256 symbols should fail")
	}
}

func TestTree_Alloc_OutOfMemory(t *testing.T) {
	tr := &Tree{nodes: make([]Node, 0, 1)}
	if _, err := tr.alloc(Node{Left: None, Right: None}); err != nil {
		t.Fatalf("alloc() error = %v", err)
	}
	if _, err := tr.alloc(Node{Left: None, Right: None}); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("alloc() on full arena error = %v, want ErrOutOfMemory", err)
	}
}
