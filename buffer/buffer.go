// Package buffer provides a simple accumulate-and-flush batcher: a lighter
// cousin of the adaptive engine in the batch package for callers that need
// strict submit-order or key-order flushing without concurrency, retries, or
// caching.
package buffer

import (
	"sort"
	"sync"
)

// FlushFunc receives the drained contents of the buffer. It runs
// synchronously on the goroutine that triggered the flush.
type FlushFunc[T any] func(items []T)

// KeyFunc extracts the numeric sort key used to order items before a flush.
type KeyFunc[T any] func(item T) float64

// Buffer accumulates items up to a fixed capacity and then flushes them
// synchronously, optionally sorted by a caller-supplied key. Add triggers a
// flush automatically once the buffer reaches capacity.
//
// Buffer is safe for concurrent use; flushes run while holding the buffer's
// lock, so the flush function must not call back into the same Buffer.
type Buffer[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
	flush    FlushFunc[T]
	key      KeyFunc[T]
}

// New creates a Buffer that flushes through fn once capacity items have
// accumulated. Capacity values below 1 are raised to 1. A nil fn means
// flushed items are simply discarded.
func New[T any](capacity int, fn FlushFunc[T]) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{
		capacity: capacity,
		flush:    fn,
	}
}

// WithSortKey sets the key used to sort items ascending before each flush.
// Items with equal keys keep their submit order. It returns the same Buffer
// for chaining and must be called before any Add.
func (b *Buffer[T]) WithSortKey(key KeyFunc[T]) *Buffer[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.key = key
	return b
}

// Add appends an item, flushing automatically when the buffer reaches
// capacity.
func (b *Buffer[T]) Add(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, item)
	if len(b.items) >= b.capacity {
		b.flushLocked()
	}
}

// Flush drains the buffer through the flush function. It is a no-op on an
// empty buffer.
func (b *Buffer[T]) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flushLocked()
}

// Clear discards all buffered items without flushing. It is a no-op on an
// empty buffer.
func (b *Buffer[T]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = nil
}

// Len returns the number of items currently buffered.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *Buffer[T]) flushLocked() {
	if len(b.items) == 0 {
		return
	}

	items := b.items
	b.items = nil

	if b.key != nil {
		sort.SliceStable(items, func(i, j int) bool {
			return b.key(items[i]) < b.key(items[j])
		})
	}
	if b.flush != nil {
		b.flush(items)
	}
}
