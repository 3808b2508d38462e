// Package queue provides a priority queue used to stage work before batch
// processing. Items are dequeued in order of descending priority; items with
// equal priority are dequeued in the order they were enqueued.
//
// PriorityQueue is not safe for concurrent use. Callers that share a queue
// between goroutines must serialize access themselves; batch.Processor does
// this with its own mutex.
package queue

type entry[T any] struct {
	item     T
	priority int
}

// PriorityQueue is an ordered staging structure for pending work.
// The zero value is not usable; create one with New.
type PriorityQueue[T any] struct {
	entries []entry[T]
}

// New creates an empty PriorityQueue.
func New[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{}
}

// Enqueue inserts item so that entries remain sorted by non-increasing
// priority. Among entries with equal priority, enqueue order is preserved.
// Insertion scans for the first entry with strictly lower priority, so it
// is O(n).
func (q *PriorityQueue[T]) Enqueue(item T, priority int) {
	e := entry[T]{item: item, priority: priority}

	for i := range q.entries {
		if q.entries[i].priority < priority {
			q.entries = append(q.entries, entry[T]{})
			copy(q.entries[i+1:], q.entries[i:])
			q.entries[i] = e
			return
		}
	}

	q.entries = append(q.entries, e)
}

// Dequeue removes and returns the highest-priority item. The second return
// value is false if the queue is empty.
func (q *PriorityQueue[T]) Dequeue() (T, bool) {
	if len(q.entries) == 0 {
		var zero T
		return zero, false
	}

	e := q.entries[0]
	// Zero the vacated slot so the backing array doesn't retain the item.
	copy(q.entries, q.entries[1:])
	q.entries[len(q.entries)-1] = entry[T]{}
	q.entries = q.entries[:len(q.entries)-1]
	return e.item, true
}

// DequeueMany removes and returns up to n items in priority order. It returns
// fewer than n items if the queue empties first, and nil if n <= 0 or the
// queue is already empty.
func (q *PriorityQueue[T]) DequeueMany(n int) []T {
	if n <= 0 || len(q.entries) == 0 {
		return nil
	}

	var items []T
	for len(items) < n {
		item, ok := q.Dequeue()
		if !ok {
			break
		}
		items = append(items, item)
	}
	return items
}

// DequeueAll drains the queue, returning every item in priority order.
func (q *PriorityQueue[T]) DequeueAll() []T {
	return q.DequeueMany(len(q.entries))
}

// Peek returns the highest-priority item without removing it. The second
// return value is false if the queue is empty.
func (q *PriorityQueue[T]) Peek() (T, bool) {
	if len(q.entries) == 0 {
		var zero T
		return zero, false
	}
	return q.entries[0].item, true
}

// Len returns the number of staged items.
func (q *PriorityQueue[T]) Len() int {
	return len(q.entries)
}

// IsEmpty reports whether the queue holds no items.
func (q *PriorityQueue[T]) IsEmpty() bool {
	return len(q.entries) == 0
}

// Clear removes all staged items.
func (q *PriorityQueue[T]) Clear() {
	q.entries = nil
}
