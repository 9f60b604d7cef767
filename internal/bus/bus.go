// Package bus fans mailbox events out to every session that has the mailbox selected.
package bus

import (
	"sync"

	"github.com/imapcore/imapcore/internal/metrics"
	"github.com/imapcore/imapcore/internal/queue"
	"github.com/sirupsen/logrus"
)

type SubscriberID uint64

// EchoPolicy decides whether a session's own removals are also queued back to it.
type EchoPolicy int

const (
	// SuppressEcho never queues a publisher's events to itself.
	SuppressEcho EchoPolicy = iota

	// EchoOwnRemovals queues a publisher's Removal events to itself as well; they surface as duplicate
	// EXPUNGE lines on its next response.
	EchoOwnRemovals
)

// Bus is the per-mailbox publish/subscribe point. Publishing only appends to subscriber queues; it never blocks
// and never calls back into a session.
type Bus struct {
	name   string
	echo   EchoPolicy
	lock   sync.Mutex
	subs   map[SubscriberID]*Subscription
	nextID SubscriberID
}

func New(name string, echo EchoPolicy) *Bus {
	return &Bus{
		name: name,
		echo: echo,
		subs: make(map[SubscriberID]*Subscription),
	}
}

func (b *Bus) Subscribe() *Subscription {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.nextID++

	sub := &Subscription{
		id:    b.nextID,
		bus:   b,
		queue: queue.NewQueue[Event](),
	}

	b.subs[sub.id] = sub

	return sub
}

// Publish queues events to every subscriber other than source, in order. A zero source means the events come from
// outside any session (delivery, flag changes).
func (b *Bus) Publish(source SubscriberID, events ...Event) {
	if len(events) == 0 {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	for id, sub := range b.subs {
		toQueue := events

		if id == source {
			if toQueue = b.echoed(events); len(toQueue) == 0 {
				continue
			}
		}

		if !sub.queue.Push(toQueue...) {
			continue
		}

		for _, event := range toQueue {
			metrics.NotificationsQueued.WithLabelValues(typeLabel(event)).Inc()
		}
	}

	logrus.WithField("mailbox", b.name).WithField("count", len(events)).Trace("Published events")
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.lock.Lock()
	defer b.lock.Unlock()

	return len(b.subs)
}

func (b *Bus) echoed(events []Event) []Event {
	if b.echo != EchoOwnRemovals {
		return nil
	}

	var res []Event

	for _, event := range events {
		if _, ok := event.(Removal); ok {
			res = append(res, event)
		}
	}

	return res
}

func (b *Bus) unsubscribe(id SubscriberID) {
	b.lock.Lock()
	defer b.lock.Unlock()

	delete(b.subs, id)
}

// Subscription is one session's FIFO queue of pending events.
type Subscription struct {
	id    SubscriberID
	bus   *Bus
	queue *queue.Queue[Event]
	once  sync.Once
}

func (s *Subscription) ID() SubscriberID {
	return s.id
}

// Drain pops every queued event in publication order.
func (s *Subscription) Drain() []Event {
	return s.queue.PopAll()
}

func (s *Subscription) Pending() int {
	return s.queue.Len()
}

// Close unsubscribes and discards the queued events. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.unsubscribe(s.id)
		s.queue.Close()
	})
}
