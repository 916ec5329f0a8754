// Package tree builds Huffman code trees.
//
// Nodes live in a fixed-size arena and refer to each other by index. A tree
// built from n symbols holds exactly 2n-1 nodes.
package tree

import (
	"errors"
	"fmt"

	"github.com/discochess/huffpack/internal/freq"
	"github.com/discochess/huffpack/internal/pqueue"
)

var (
	// ErrNoSymbols indicates an empty symbol set.
	ErrNoSymbols = errors.New("tree: no symbols")

	// ErrZeroFrequency indicates a leaf with a zero count.
	ErrZeroFrequency = errors.New("tree: zero frequency symbol")

	// ErrOutOfMemory indicates the node arena is exhausted.
	ErrOutOfMemory = errors.New("tree: node arena exhausted")
)

// NodeID addresses a node in a tree's arena.
type NodeID int32

// None marks an absent child.
const None NodeID = -1

// Node is a leaf (no children) or an internal node (two children).
type Node struct {
	Symbol byte // meaningful for leaves only
	Freq   uint64
	Left   NodeID
	Right  NodeID
}

// Tree is a Huffman tree.
type Tree struct {
	nodes []Node
	root  NodeID
}

// Build runs Huffman's algorithm over leaves, which are queued in the order
// given. Callers wanting reproducible trees must pass a stable order.
func Build(leaves []freq.Symbol) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrNoSymbols
	}
	if len(leaves) > freq.Alphabet {
		return nil, fmt.Errorf("tree: %d symbols exceeds alphabet size", len(leaves))
	}

	t := &Tree{nodes: make([]Node, 0, 2*len(leaves)-1)}
	q := pqueue.New[NodeID]()

	for _, s := range leaves {
		if s.Count == 0 {
			return nil, fmt.Errorf("%w: %#02x", ErrZeroFrequency, s.Value)
		}
		id, err := t.alloc(Node{Symbol: s.Value, Freq: s.Count, Left: None, Right: None})
		if err != nil {
			return nil, err
		}
		q.Push(id, s.Count)
	}

	for q.Len() > 1 {
		left, _ := q.Pop()
		right, _ := q.Pop()
		sum := t.nodes[left].Freq + t.nodes[right].Freq
		id, err := t.alloc(Node{Freq: sum, Left: left, Right: right})
		if err != nil {
			return nil, err
		}
		q.Push(id, sum)
	}

	t.root, _ = q.Pop()
	return t, nil
}

func (t *Tree) alloc(n Node) (NodeID, error) {
	if len(t.nodes) == cap(t.nodes) {
		return None, ErrOutOfMemory
	}
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1), nil
}

// Root returns the root node ID.
func (t *Tree) Root() NodeID {
	return t.root
}

// Node returns the node with the given ID.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// IsLeaf reports whether id has no children.
func (t *Tree) IsLeaf(id NodeID) bool {
	n := t.nodes[id]
	return n.Left == None && n.Right == None
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(id NodeID) int
	walk = func(id NodeID) int {
		if t.IsLeaf(id) {
			return 0
		}
		n := t.nodes[id]
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(t.root)
}

// Equal reports whether t and o have the same shape, symbols and counts.
func (t *Tree) Equal(o *Tree) bool {
	var eq func(a, b NodeID) bool
	eq = func(a, b NodeID) bool {
		na, nb := t.nodes[a], o.nodes[b]
		if na.Freq != nb.Freq || t.IsLeaf(a) != o.IsLeaf(b) {
			return false
		}
		if t.IsLeaf(a) {
			return na.Symbol == nb.Symbol
		}
		return eq(na.Left, nb.Left) && eq(na.Right, nb.Right)
	}
	return eq(t.root, o.root)
}
