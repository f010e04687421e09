// Package deque provides a fixed-capacity double-ended queue backed by one
// array. The calculator keeps its recent network snapshots in it.
package deque

type Deque[T any] interface {
	// number of stored elements
	Size() int

	// element at position i counted from the front
	Get(i int) (T, bool)

	// Push appends at the back, evicting the front when full
	Push(v T)

	// front to back
	Slice() []T

	IsFull() bool

	IsEmpty() bool
}
