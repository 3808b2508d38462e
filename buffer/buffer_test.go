package buffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_AutoFlushAtCapacity(t *testing.T) {
	var flushes [][]int
	b := New(3, func(items []int) {
		flushes = append(flushes, items)
	})

	b.Add(1)
	b.Add(2)
	assert.Empty(t, flushes, "no flush before capacity")
	assert.Equal(t, 2, b.Len())

	b.Add(3)
	assert.Equal(t, [][]int{{1, 2, 3}}, flushes, "reaching capacity should flush")
	assert.Equal(t, 0, b.Len())

	b.Add(4)
	b.Add(5)
	b.Add(6)
	assert.Len(t, flushes, 2)
	assert.Equal(t, []int{4, 5, 6}, flushes[1])
}

func TestBuffer_SortedFlush(t *testing.T) {
	type job struct {
		name string
		cost float64
	}

	var got []job
	b := New(10, func(items []job) {
		got = items
	}).WithSortKey(func(j job) float64 { return j.cost })

	b.Add(job{"c", 3})
	b.Add(job{"a", 1})
	b.Add(job{"b", 2})
	b.Flush()

	assert.Equal(t, []job{{"a", 1}, {"b", 2}, {"c", 3}}, got, "flush should sort ascending by key")
}

func TestBuffer_SortIsStableForEqualKeys(t *testing.T) {
	var got []string
	b := New(10, func(items []string) {
		got = items
	}).WithSortKey(func(string) float64 { return 0 })

	b.Add("first")
	b.Add("second")
	b.Add("third")
	b.Flush()

	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestBuffer_FlushAndClearOnEmpty(t *testing.T) {
	calls := 0
	b := New[int](2, func([]int) { calls++ })

	b.Flush()
	b.Clear()
	b.Flush()
	assert.Zero(t, calls, "empty flushes must not invoke the flush func")

	b.Add(1)
	b.Clear()
	assert.Equal(t, 0, b.Len())
	b.Flush()
	assert.Zero(t, calls, "Clear should discard without flushing")
}

func TestBuffer_NilFlushFuncDiscards(t *testing.T) {
	b := New[int](2, nil)
	b.Add(1)
	b.Add(2)
	assert.Equal(t, 0, b.Len(), "auto-flush with nil func should still drain")
}

func TestBuffer_ConcurrentAdd(t *testing.T) {
	var mu sync.Mutex
	total := 0
	b := New(10, func(items []int) {
		mu.Lock()
		total += len(items)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				b.Add(i)
			}
		}()
	}
	wg.Wait()
	b.Flush()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1000, total, "every added item should be flushed exactly once")
}
