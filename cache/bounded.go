package cache

import (
	"container/list"
	"sync"
)

// Bounded is an LRU-evicting Cache with a fixed capacity. It is an opt-in
// wrapper for long-lived processors where the default unbounded Store would
// grow without limit; pass one as Config.Cache to use it in the engine.
type Bounded[V any] struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	index    map[string]*list.Element
}

type boundedEntry[V any] struct {
	key   string
	value V
}

// NewBounded creates a Bounded cache holding at most capacity entries.
// Capacity values below 1 are raised to 1.
func NewBounded[V any](capacity int) *Bounded[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Bounded[V]{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Get implements the Cache interface. A hit marks the entry most recently
// used.
func (b *Bounded[V]) Get(key string) (V, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	el, ok := b.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	b.order.MoveToFront(el)
	return el.Value.(*boundedEntry[V]).value, true
}

// Put implements the Cache interface. Inserting beyond capacity evicts the
// least recently used entry.
func (b *Bounded[V]) Put(key string, value V) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if el, ok := b.index[key]; ok {
		el.Value.(*boundedEntry[V]).value = value
		b.order.MoveToFront(el)
		return
	}

	b.index[key] = b.order.PushFront(&boundedEntry[V]{key: key, value: value})

	if b.order.Len() > b.capacity {
		oldest := b.order.Back()
		b.order.Remove(oldest)
		delete(b.index, oldest.Value.(*boundedEntry[V]).key)
	}
}

// Len implements the Cache interface.
func (b *Bounded[V]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.order.Len()
}

// Clear implements the Cache interface.
func (b *Bounded[V]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.order.Init()
	b.index = make(map[string]*list.Element)
}
