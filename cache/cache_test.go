package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutAndGet(t *testing.T) {
	s := NewStore[string](8)

	_, ok := s.Get("missing")
	assert.False(t, ok, "Get on empty store should miss")

	s.Put("k1", "v1")
	v, ok := s.Get("k1")
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	s.Put("k1", "v2")
	v, _ = s.Get("k1")
	assert.Equal(t, "v2", v, "Put should replace an existing value")
}

func TestStore_LenAndClear(t *testing.T) {
	s := NewStore[int](4)
	for i := 0; i < 50; i++ {
		s.Put(fmt.Sprintf("key-%d", i), i)
	}
	assert.Equal(t, 50, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, ok := s.Get("key-0")
	assert.False(t, ok)
}

func TestStore_DefaultShardCount(t *testing.T) {
	s := NewStore[int](0)
	require.Len(t, s.shards, DefaultNumShards)
	s.Put("a", 1)
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore[int](8)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("key-%d", i)
				s.Put(key, g)
				s.Get(key)
			}
		}(g)
	}
	wg.Wait()

	// Every key was written by some goroutine; last writer wins per key.
	assert.Equal(t, 100, s.Len())
}

func TestFingerprint(t *testing.T) {
	type payload struct {
		ID   int
		Tags []string
	}

	t.Run("equal values produce equal fingerprints", func(t *testing.T) {
		a, err := Fingerprint(payload{ID: 7, Tags: []string{"x", "y"}})
		require.NoError(t, err)
		b, err := Fingerprint(payload{ID: 7, Tags: []string{"x", "y"}})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("different values produce different fingerprints", func(t *testing.T) {
		a, err := Fingerprint(payload{ID: 7})
		require.NoError(t, err)
		b, err := Fingerprint(payload{ID: 8})
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("map key order does not matter", func(t *testing.T) {
		a, err := Fingerprint(map[string]int{"a": 1, "b": 2, "c": 3})
		require.NoError(t, err)
		b, err := Fingerprint(map[string]int{"c": 3, "a": 1, "b": 2})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("unmarshalable values return an error", func(t *testing.T) {
		_, err := Fingerprint(make(chan int))
		assert.Error(t, err)
	})

	t.Run("fixed width", func(t *testing.T) {
		fp, err := Fingerprint("anything")
		require.NoError(t, err)
		assert.Len(t, fp, 32)
	})
}

func TestBounded_EvictsLeastRecentlyUsed(t *testing.T) {
	b := NewBounded[int](3)
	b.Put("a", 1)
	b.Put("b", 2)
	b.Put("c", 3)

	// Touch "a" so "b" is now the oldest.
	_, ok := b.Get("a")
	require.True(t, ok)

	b.Put("d", 4)
	assert.Equal(t, 3, b.Len())

	_, ok = b.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	for _, key := range []string{"a", "c", "d"} {
		_, ok := b.Get(key)
		assert.True(t, ok, "key %q should survive eviction", key)
	}
}

func TestBounded_UpdateDoesNotEvict(t *testing.T) {
	b := NewBounded[int](2)
	b.Put("a", 1)
	b.Put("b", 2)
	b.Put("a", 10)

	assert.Equal(t, 2, b.Len())
	v, ok := b.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, v)
	_, ok = b.Get("b")
	assert.True(t, ok)
}

func TestBounded_Clear(t *testing.T) {
	b := NewBounded[string](4)
	b.Put("a", "x")
	b.Put("b", "y")

	b.Clear()
	assert.Equal(t, 0, b.Len())
	_, ok := b.Get("a")
	assert.False(t, ok)

	// Usable after Clear.
	b.Put("c", "z")
	v, ok := b.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "z", v)
}
