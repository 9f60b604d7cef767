// Package queue provides the unbounded FIFO queues used to hand events between goroutines without blocking the
// producer.
package queue

import (
	"sync"
)

// Queue is a closable FIFO queue. Push never blocks; PopAll drains everything queued so far.
type Queue[T any] struct {
	lock   sync.Mutex
	items  []T
	closed bool
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends items in order. It returns false if the queue is closed.
func (q *Queue[T]) Push(items ...T) bool {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.closed {
		return false
	}

	q.items = append(q.items, items...)

	return true
}

// PopAll removes and returns all queued items in FIFO order.
func (q *Queue[T]) PopAll() []T {
	q.lock.Lock()
	defer q.lock.Unlock()

	items := q.items
	q.items = nil

	return items
}

func (q *Queue[T]) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()

	return len(q.items)
}

// Close discards the queued items; subsequent pushes are rejected.
func (q *Queue[T]) Close() {
	q.lock.Lock()
	defer q.lock.Unlock()

	q.closed = true
	q.items = nil
}
