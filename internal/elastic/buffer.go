// Package elastic provides a growable, indexable sequence that supports
// in-place insertion and removal by shifting its tail.
//
// It is the storage primitive for per-line working buffers, the character
// arena and the document's line list. Insert and Remove are O(n) in the
// number of elements right of the mutation point; lines are expected to stay
// short relative to the whole document.
package elastic

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an index or length falls outside the buffer.
var ErrOutOfRange = errors.New("index out of range")

// growThreshold switches the growth policy from 1.5x+16 to 1.25x.
const growThreshold = 100000

// Buffer is a growable sequence of T. The zero value is an empty buffer
// ready to use.
type Buffer[T any] struct {
	items []T // len(items) is the capacity; n is the logical length
	n     int
}

// New creates a buffer with room for capacity elements.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer[T]{items: make([]T, capacity)}
}

// From creates a buffer holding a copy of values.
func From[T any](values []T) *Buffer[T] {
	b := New[T](len(values))
	b.AppendSlice(values)
	return b
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int { return b.n }

// Cap returns the allocated capacity.
func (b *Buffer[T]) Cap() int { return len(b.items) }

// At returns the element at i. It panics if i is out of range, like a slice.
func (b *Buffer[T]) At(i int) T {
	if i < 0 || i >= b.n {
		panic(fmt.Errorf("elastic: At(%d) with length %d: %w", i, b.n, ErrOutOfRange))
	}
	return b.items[i]
}

// Set replaces the element at i. It panics if i is out of range.
func (b *Buffer[T]) Set(i int, v T) {
	if i < 0 || i >= b.n {
		panic(fmt.Errorf("elastic: Set(%d) with length %d: %w", i, b.n, ErrOutOfRange))
	}
	b.items[i] = v
}

// Slice returns a view of the live elements. The view is invalidated by the
// next mutation and must not be modified by the caller.
func (b *Buffer[T]) Slice() []T {
	return b.items[:b.n:b.n]
}

// Clear sets the length to zero and keeps the allocation.
func (b *Buffer[T]) Clear() {
	var zero T
	for i := 0; i < b.n; i++ {
		b.items[i] = zero
	}
	b.n = 0
}

// Truncate shortens the buffer to n elements.
func (b *Buffer[T]) Truncate(n int) error {
	if n < 0 || n > b.n {
		return fmt.Errorf("truncate to %d with length %d: %w", n, b.n, ErrOutOfRange)
	}
	var zero T
	for i := n; i < b.n; i++ {
		b.items[i] = zero
	}
	b.n = n
	return nil
}

// Append adds v at the end.
func (b *Buffer[T]) Append(v T) {
	b.ensure(b.n + 1)
	b.items[b.n] = v
	b.n++
}

// AppendSlice adds values at the end.
func (b *Buffer[T]) AppendSlice(values []T) {
	if len(values) == 0 {
		return
	}
	b.ensure(b.n + len(values))
	copy(b.items[b.n:], values)
	b.n += len(values)
}

// Insert places v at index i, shifting the tail right.
func (b *Buffer[T]) Insert(i int, v T) error {
	if i < 0 || i > b.n {
		return fmt.Errorf("insert at %d with length %d: %w", i, b.n, ErrOutOfRange)
	}
	b.ensure(b.n + 1)
	copy(b.items[i+1:b.n+1], b.items[i:b.n])
	b.items[i] = v
	b.n++
	return nil
}

// InsertSlice places values starting at index i, shifting the tail right.
func (b *Buffer[T]) InsertSlice(i int, values []T) error {
	if i < 0 || i > b.n {
		return fmt.Errorf("insert %d values at %d with length %d: %w", len(values), i, b.n, ErrOutOfRange)
	}
	if len(values) == 0 {
		return nil
	}
	k := len(values)
	b.ensure(b.n + k)
	copy(b.items[i+k:b.n+k], b.items[i:b.n])
	copy(b.items[i:i+k], values)
	b.n += k
	return nil
}

// Remove deletes n elements starting at i, shifting the tail left.
func (b *Buffer[T]) Remove(i, n int) error {
	if i < 0 || n < 0 || i+n > b.n {
		return fmt.Errorf("remove %d at %d with length %d: %w", n, i, b.n, ErrOutOfRange)
	}
	if n == 0 {
		return nil
	}
	copy(b.items[i:], b.items[i+n:b.n])
	var zero T
	for j := b.n - n; j < b.n; j++ {
		b.items[j] = zero
	}
	b.n -= n
	return nil
}

// CopyTo appends n elements starting at start to dst and returns the result.
func (b *Buffer[T]) CopyTo(dst []T, start, n int) ([]T, error) {
	if start < 0 || n < 0 || start+n > b.n {
		return dst, fmt.Errorf("copy %d at %d with length %d: %w", n, start, b.n, ErrOutOfRange)
	}
	return append(dst, b.items[start:start+n]...), nil
}

// ensure grows the backing array so that it can hold needed elements.
func (b *Buffer[T]) ensure(needed int) {
	if needed <= len(b.items) {
		return
	}
	items := make([]T, grow(needed))
	copy(items, b.items[:b.n])
	b.items = items
}

func grow(needed int) int {
	if needed < growThreshold {
		return max(needed, needed+needed/2+16)
	}
	return needed + needed/4
}
