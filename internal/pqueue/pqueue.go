// Package pqueue provides a min-priority queue keyed by frequency.
//
// Entries with equal frequency leave the queue in the order they entered it.
// The Huffman tree shape, and with it every code length, depends on this
// tie-break, so it must not change.
package pqueue

import "container/heap"

// Queue is a min-priority queue of items ordered by (frequency, arrival).
// The zero value is not usable; call New.
type Queue[T any] struct {
	entries entries[T]
	seq     uint64
}

type entry[T any] struct {
	item T
	freq uint64
	seq  uint64
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push inserts item with the given frequency.
func (q *Queue[T]) Push(item T, freq uint64) {
	heap.Push(&q.entries, entry[T]{item: item, freq: freq, seq: q.seq})
	q.seq++
}

// Pop removes and returns the item with the lowest frequency.
// It returns false if the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	if len(q.entries) == 0 {
		var zero T
		return zero, false
	}
	e := heap.Pop(&q.entries).(entry[T])
	return e.item, true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return len(q.entries)
}

// entries implements heap.Interface.
type entries[T any] []entry[T]

func (h entries[T]) Len() int { return len(h) }

func (h entries[T]) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].seq < h[j].seq
}

func (h entries[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entries[T]) Push(x any) { *h = append(*h, x.(entry[T])) }

func (h *entries[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
