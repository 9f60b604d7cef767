package imapcore

import (
	"testing"

	"github.com/imapcore/imapcore/async"
	"github.com/imapcore/imapcore/events"
	"github.com/imapcore/imapcore/imap"
	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {
	watcher := newWatcher(
		async.NoopPanicHandler{},
		events.ListenerAdded{},
		events.Expunged{},
	)

	// The watcher is watching the correct types.
	require.True(t, watcher.isWatching(events.ListenerAdded{}))
	require.True(t, watcher.isWatching(events.Expunged{}))

	// The watcher is not watching the incorrect types.
	require.False(t, watcher.isWatching(events.Login{}))
	require.False(t, watcher.isWatching(events.Select{}))

	// Get a channel to read from the watcher.
	resCh := watcher.getChannel()

	// Send some events to the watcher.
	require.True(t, watcher.send(events.ListenerAdded{}))
	require.True(t, watcher.send(events.Expunged{SessionID: 1, Mailbox: imap.Inbox, UIDs: []imap.UID{2, 3}}))

	// Check we can read the events off the channel.
	require.Equal(t, events.ListenerAdded{}, <-resCh)
	require.Equal(t, events.Expunged{SessionID: 1, Mailbox: imap.Inbox, UIDs: []imap.UID{2, 3}}, <-resCh)

	// Close the watcher.
	watcher.close()

	// Sending more events after the watcher is closed should return false.
	require.False(t, watcher.send(events.ListenerAdded{}))

	// The channel is closed once drained.
	_, ok := <-resCh
	require.False(t, ok)
}

func TestWatcher_WatchesEverythingWithoutTypes(t *testing.T) {
	watcher := newWatcher(async.NoopPanicHandler{})
	defer watcher.close()

	require.True(t, watcher.isWatching(events.Login{}))
	require.True(t, watcher.isWatching(events.SessionRemoved{}))
}
