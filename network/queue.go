package network

import "sync"

// Queue is a bounded, concurrency-safe inbox. Transport callbacks push from
// whatever goroutine delivers them; the simulation drains exactly once per
// tick, which keeps all registry mutation on the tick's execution context.
// When full, the oldest entry is dropped: newer samples carry fresher truth.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	limit int
}

// NewQueue builds a queue holding at most limit entries. A non-positive
// limit falls back to 1.
func NewQueue[T any](limit int) *Queue[T] {
	if limit < 1 {
		limit = 1
	}
	return &Queue[T]{limit: limit}
}

// Push appends an entry, evicting the oldest when the queue is full.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.limit {
		copy(q.items, q.items[1:])
		q.items = q.items[:len(q.items)-1]
	}
	q.items = append(q.items, item)
}

// Drain returns everything queued so far and empties the queue.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// Len returns the number of queued entries.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
