// Package cache provides the result cache used by the batch engine to skip
// redundant work. Results are keyed by a deterministic fingerprint of the
// input item (see Fingerprint).
//
// Store is the default implementation: a sharded in-memory map that grows
// without bound for the lifetime of its owner. Bounded wraps the same surface
// with an LRU capacity for long-lived uses.
package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Cache is the surface the batch engine requires from a result cache.
// Implementations must be safe for concurrent use.
type Cache[V any] interface {
	// Get returns the cached value for key, if present.
	Get(key string) (V, bool)

	// Put stores value under key, replacing any existing value.
	Put(key string, value V)

	// Len returns the number of cached entries.
	Len() int

	// Clear removes all entries.
	Clear()
}

// DefaultNumShards is the shard count used when NewStore is given a
// non-positive value.
const DefaultNumShards = 16

// Store is a sharded fingerprint-to-result map. Sharding keeps concurrent
// lookups and stores on different keys from contending on a single lock.
//
// Entries are never evicted. Unbounded growth is a deliberate property for
// short-lived batch runs; callers needing a cap should use Bounded.
//
// Two goroutines racing on the same key may both store; the last write wins.
// At-most-one-execution per key is not a Store guarantee.
type Store[V any] struct {
	shards    []*lockedMap[V]
	numShards uint64
}

type lockedMap[V any] struct {
	sync.RWMutex
	data map[string]V
}

// NewStore creates a Store with the given shard count. Non-positive values
// fall back to DefaultNumShards.
func NewStore[V any](numShards int) *Store[V] {
	if numShards <= 0 {
		numShards = DefaultNumShards
	}

	s := &Store[V]{
		shards:    make([]*lockedMap[V], numShards),
		numShards: uint64(numShards),
	}
	for i := range s.shards {
		s.shards[i] = &lockedMap[V]{data: make(map[string]V)}
	}
	return s
}

func (s *Store[V]) shard(key string) *lockedMap[V] {
	return s.shards[xxhash.Sum64String(key)%s.numShards]
}

// Get implements the Cache interface.
func (s *Store[V]) Get(key string) (V, bool) {
	sh := s.shard(key)
	sh.RLock()
	defer sh.RUnlock()
	v, ok := sh.data[key]
	return v, ok
}

// Put implements the Cache interface.
func (s *Store[V]) Put(key string, value V) {
	sh := s.shard(key)
	sh.Lock()
	defer sh.Unlock()
	sh.data[key] = value
}

// Len implements the Cache interface.
func (s *Store[V]) Len() int {
	var n int
	for _, sh := range s.shards {
		sh.RLock()
		n += len(sh.data)
		sh.RUnlock()
	}
	return n
}

// Clear implements the Cache interface. Each shard's map is reinitialized
// and the old ones are left to the garbage collector.
func (s *Store[V]) Clear() {
	for _, sh := range s.shards {
		sh.Lock()
		sh.data = make(map[string]V)
		sh.Unlock()
	}
}
