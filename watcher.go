package imapcore

import (
	"reflect"

	"github.com/bradenaw/juniper/xslices"
	"github.com/imapcore/imapcore/async"
	"github.com/imapcore/imapcore/events"
	"github.com/imapcore/imapcore/internal/queue"
	"golang.org/x/exp/slices"
)

// watcher forwards server events of the watched types to one consumer. Events are queued without bound so that
// publishing never waits on a slow consumer.
type watcher struct {
	accepts func(events.Event) bool
	eventCh *queue.QueuedChannel[events.Event]
}

func newWatcher(panicHandler async.PanicHandler, ofType ...events.Event) *watcher {
	return &watcher{
		accepts: eventFilter(ofType),
		eventCh: queue.NewQueuedChannel[events.Event](1, 1, panicHandler),
	}
}

// eventFilter matches events whose concrete type is one of the given examples. No examples match everything.
func eventFilter(ofType []events.Event) func(events.Event) bool {
	if len(ofType) == 0 {
		return func(events.Event) bool { return true }
	}

	types := xslices.Map(ofType, func(event events.Event) reflect.Type {
		return reflect.TypeOf(event)
	})

	return func(event events.Event) bool {
		return slices.Contains(types, reflect.TypeOf(event))
	}
}

func (w *watcher) isWatching(event events.Event) bool {
	return w.accepts(event)
}

func (w *watcher) getChannel() <-chan events.Event {
	return w.eventCh.GetChannel()
}

// send queues the event; it returns false once the watcher is closed.
func (w *watcher) send(event events.Event) bool {
	return w.eventCh.Enqueue(event)
}

func (w *watcher) close() {
	w.eventCh.Close()
}
