package tests

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"testing"

	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-mbox"
	"github.com/imapcore/imapcore"
	"github.com/imapcore/imapcore/events"
	"github.com/imapcore/imapcore/imap"
	"github.com/stretchr/testify/require"
)

type testSession struct {
	tb testing.TB

	listener      net.Listener
	server        *imapcore.Server
	eventCh       <-chan events.Event
	userIDs       map[string]string
	serverOptions *serverOptions
}

func newTestSession(
	tb testing.TB,
	listener net.Listener,
	server *imapcore.Server,
	eventCh <-chan events.Event,
	userIDs map[string]string,
	options *serverOptions,
) *testSession {
	return &testSession{
		tb:            tb,
		listener:      listener,
		server:        server,
		eventCh:       eventCh,
		userIDs:       userIDs,
		serverOptions: options,
	}
}

func (s *testSession) newConnection() *testConnection {
	conn, err := net.Dial(s.listener.Addr().Network(), s.listener.Addr().String())
	require.NoError(s.tb, err)

	return newTestConnection(s.tb, conn).Sx(`\* OK.*`)
}

func (s *testSession) newClient() *client.Client {
	client, err := client.Dial(s.listener.Addr().String())
	require.NoError(s.tb, err)

	return client
}

func (s *testSession) mailboxCreated(user, name string) {
	require.NoError(s.tb, s.server.CreateMailbox(context.Background(), s.userIDs[user], name))
}

func (s *testSession) messageCreated(user, mailbox string, literal []byte, flags ...string) imap.UID {
	uid, err := s.server.Deliver(context.Background(), s.userIDs[user], mailbox, literal, flags...)
	require.NoError(s.tb, err)

	return uid
}

// messagesCreated delivers n messages and returns their UIDs.
func (s *testSession) messagesCreated(user, mailbox string, n int, flags ...string) []imap.UID {
	var uids []imap.UID

	for i := 0; i < n; i++ {
		uids = append(uids, s.messageCreated(user, mailbox, []byte("To: user@example.com\r\n\r\nbody"), flags...))
	}

	return uids
}

func (s *testSession) messagesCreatedFromMBox(user, mailbox, path string, flags ...string) []imap.UID {
	f, err := os.Open(path)
	require.NoError(s.tb, err)
	defer f.Close()

	var uids []imap.UID

	require.NoError(s.tb, forMessageInMBox(f, func(literal []byte) {
		uids = append(uids, s.messageCreated(user, mailbox, literal, flags...))
	}))

	return uids
}

func (s *testSession) messageDeleted(user, mailbox string, uid imap.UID, deleted bool) {
	require.NoError(s.tb, s.server.SetFlag(context.Background(), s.userIDs[user], mailbox, uid, imap.FlagDeleted, deleted))
}

func (s *testSession) messageSeen(user, mailbox string, uid imap.UID, seen bool) {
	require.NoError(s.tb, s.server.SetFlag(context.Background(), s.userIDs[user], mailbox, uid, imap.FlagSeen, seen))
}

// expectExpunged waits for the server to report that a session removed the given messages.
func (s *testSession) expectExpunged(mailbox string, uids ...imap.UID) {
	event, ok := (<-s.eventCh).(events.Expunged)
	require.True(s.tb, ok)
	require.Equal(s.tb, mailbox, event.Mailbox)
	require.Equal(s.tb, uids, event.UIDs)
}

func forMessageInMBox(rr io.Reader, fn func([]byte)) error {
	mr := mbox.NewReader(rr)

	var (
		r   io.Reader
		err error
	)

	for r, err = mr.NextMessage(); err == nil; r, err = mr.NextMessage() {
		literal, err := io.ReadAll(r)
		if err != nil {
			return err
		}

		fn(literal)
	}

	if !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}
