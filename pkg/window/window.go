// Package window provides a fixed-capacity FIFO buffer that evicts its
// oldest element on overflow. It is the backing store for per-symbol
// price history: memory stays bounded no matter how many ticks arrive.
package window

import "fmt"

// Window is a bounded FIFO buffer backed by a ring: head tracks the
// oldest element, appends at full capacity overwrite it in O(1).
// Not safe for concurrent use; owners synchronize.
type Window[T any] struct {
	capacity int
	items    []T // ring storage, len == capacity
	head     int // index of the oldest element
	size     int
}

// New returns a window that retains at most capacity elements.
func New[T any](capacity int) (*Window[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("window capacity must be positive, got %d", capacity)
	}
	return &Window[T]{
		capacity: capacity,
		items:    make([]T, capacity),
	}, nil
}

// Append adds item at the tail. If the window is full, exactly one
// element (the oldest) is evicted. O(1).
func (w *Window[T]) Append(item T) {
	w.items[(w.head+w.size)%w.capacity] = item
	if w.size < w.capacity {
		w.size++
		return
	}
	w.head = (w.head + 1) % w.capacity
}

// AppendAll appends each item in order. With a small capacity, later
// items may evict earlier ones from the same call.
func (w *Window[T]) AppendAll(items []T) {
	for _, item := range items {
		w.Append(item)
	}
}

// All returns a copy of the contents, oldest first. Mutating the result
// does not affect the window.
func (w *Window[T]) All() []T {
	out := make([]T, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.items[(w.head+i)%w.capacity]
	}
	return out
}

// Recent returns the last min(n, Len) elements, oldest of the requested
// subset first. n <= 0 returns an empty slice.
func (w *Window[T]) Recent(n int) []T {
	if n <= 0 {
		return []T{}
	}
	if n > w.size {
		n = w.size
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = w.items[(w.head+w.size-n+i)%w.capacity]
	}
	return out
}

// Latest returns the newest element, or false if the window is empty.
func (w *Window[T]) Latest() (T, bool) {
	if w.size == 0 {
		var zero T
		return zero, false
	}
	return w.items[(w.head+w.size-1)%w.capacity], true
}

func (w *Window[T]) Len() int { return w.size }

func (w *Window[T]) Cap() int { return w.capacity }

func (w *Window[T]) IsFull() bool { return w.size >= w.capacity }

// Clear empties the window without changing its capacity. Slots are
// zeroed so evicted values do not pin referenced memory.
func (w *Window[T]) Clear() {
	var zero T
	for i := range w.items {
		w.items[i] = zero
	}
	w.head = 0
	w.size = 0
}
