package session

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/imapcore/imapcore/async"
	"github.com/imapcore/imapcore/events"
	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/internal/backend"
	"github.com/imapcore/imapcore/internal/bus"
	"github.com/imapcore/imapcore/internal/liner"
	mailstore "github.com/imapcore/imapcore/internal/store"
	"github.com/imapcore/imapcore/limits"
	"github.com/imapcore/imapcore/store"
	"github.com/imapcore/imapcore/version"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) (*backend.Backend, string) {
	b := backend.New(backend.Config{
		DataDir:              t.TempDir(),
		StoreBuilder:         &store.InMemoryStoreBuilder{},
		Journal:              mailstore.NewNoopJournal(),
		Limits:               limits.DefaultLimits(),
		UIDValidityGenerator: imap.NewFixedUIDValidityGenerator(1),
		EchoPolicy:           bus.SuppressEcho,
		LoginJailTime:        time.Hour,
	})

	t.Cleanup(func() { require.NoError(t, b.Close(context.Background())) })

	userID, err := b.AddUser(context.Background(), "user", "pass")
	require.NoError(t, err)

	return b, userID
}

// serveSession runs a session on one end of a pipe and returns the other end and the session's result.
func serveSession(t *testing.T, b *backend.Backend, sessionID int) (net.Conn, <-chan error) {
	server, client := net.Pipe()

	eventCh := make(chan events.Event)

	go func() {
		for range eventCh {
		}
	}()

	sess := New(server, b, sessionID, version.Default(), async.NoopPanicHandler{}, eventCh)

	errCh := make(chan error, 1)

	go func() {
		defer close(eventCh)

		errCh <- sess.Serve(context.Background())
	}()

	return client, errCh
}

// readUntil reads lines until one starts with prefix and returns all of them.
func readUntil(t *testing.T, l *liner.Liner, prefix string) []string {
	var lines []string

	for {
		line, err := l.Read(func() error { return nil })
		require.NoError(t, err)

		lines = append(lines, strings.TrimSuffix(string(line), "\r\n"))

		if strings.HasPrefix(string(line), prefix) {
			return lines
		}
	}
}

func TestSession_DisconnectDuringExpungeResponse(t *testing.T) {
	ctx := context.Background()

	b, userID := newTestBackend(t)

	for i := 0; i < 5; i++ {
		_, err := b.Deliver(ctx, userID, imap.Inbox, []byte("To: user\r\n\r\nbody"), imap.FlagDeleted)
		require.NoError(t, err)
	}

	client, errCh := serveSession(t, b, 1)

	l := liner.New(client, 1<<20)

	readUntil(t, l, "* OK")

	_, err := client.Write([]byte("a login user pass\r\n"))
	require.NoError(t, err)
	readUntil(t, l, "a OK")

	_, err = client.Write([]byte("b select INBOX\r\n"))
	require.NoError(t, err)
	require.Contains(t, readUntil(t, l, "b OK"), "* 5 EXISTS")

	// Nobody reads the EXPUNGE lines.
	_, err = client.Write([]byte("c expunge\r\n"))
	require.NoError(t, err)
	require.NoError(t, client.Close())

	select {
	case <-errCh:
	case <-time.After(3 * time.Second):
		t.Fatal("session did not stop after the client went away")
	}

	// The removal ran to completion and the session's state was released.
	_, err = b.Content(userID, imap.Inbox, 5)
	require.ErrorIs(t, err, mailstore.ErrNoSuchMessage)

	st, err := b.GetState("user", "pass", 2)
	require.NoError(t, err)

	defer st.Release()

	sel, err := st.Select(ctx, imap.Inbox)
	require.NoError(t, err)
	require.Zero(t, sel.Exists)
}
