package queue

import (
	"sync"
	"sync/atomic"

	"github.com/imapcore/imapcore/async"
)

// QueuedChannel is a channel with an unbounded queue in front of it: Enqueue never blocks, items are delivered on
// the channel in order.
type QueuedChannel[T any] struct {
	ch     chan T
	items  []T
	cond   *sync.Cond
	closed atomic.Bool
	done   chan struct{}
}

func NewQueuedChannel[T any](chanBufferSize, queueCapacity int, panicHandler async.PanicHandler) *QueuedChannel[T] {
	queue := &QueuedChannel[T]{
		ch:    make(chan T, chanBufferSize),
		items: make([]T, 0, queueCapacity),
		cond:  sync.NewCond(&sync.Mutex{}),
		done:  make(chan struct{}),
	}

	go func() {
		defer async.HandlePanic(panicHandler)
		defer close(queue.done)
		defer close(queue.ch)

		for {
			item, ok := queue.pop()
			if !ok {
				return
			}

			queue.ch <- item
		}
	}()

	return queue
}

func (q *QueuedChannel[T]) Enqueue(items ...T) bool {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	if q.closed.Load() {
		return false
	}

	q.items = append(q.items, items...)
	q.cond.Broadcast()

	return true
}

func (q *QueuedChannel[T]) GetChannel() <-chan T {
	return q.ch
}

// Close stops accepting items. Items already queued are still delivered.
func (q *QueuedChannel[T]) Close() {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	q.closed.Store(true)
	q.cond.Broadcast()
}

// CloseAndDiscardQueued closes the queue and drops the items not yet delivered.
func (q *QueuedChannel[T]) CloseAndDiscardQueued() {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	q.closed.Store(true)
	q.items = nil
	q.cond.Broadcast()
}

// Wait blocks until the delivery goroutine has exited. The channel must be drained for this to return.
func (q *QueuedChannel[T]) Wait() {
	<-q.done
}

func (q *QueuedChannel[T]) pop() (T, bool) {
	q.cond.L.Lock()
	defer q.cond.L.Unlock()

	var item T

	// A closed queue keeps delivering what it holds and stops once empty.
	for len(q.items) == 0 {
		if q.closed.Load() {
			return item, false
		}

		q.cond.Wait()
	}

	item, q.items = q.items[0], q.items[1:]

	return item, true
}
