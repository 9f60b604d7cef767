package tests

import (
	"testing"

	"github.com/emersion/go-imap/client"
	"github.com/imapcore/imapcore/imap"
	"github.com/stretchr/testify/require"
)

func TestClose(t *testing.T) {
	runManyToOneTestWithAuth(t, defaultServerOptions(t), []int{1, 2}, func(c map[int]*testConnection, s *testSession) {
		uids := s.messagesCreated("user", imap.Inbox, 3)

		s.messageDeleted("user", imap.Inbox, uids[0], true)
		s.messageDeleted("user", imap.Inbox, uids[2], true)

		c[1].Select(imap.Inbox)
		c[2].Select(imap.Inbox)

		// The deleted messages are removed without any untagged EXPUNGE response.
		c[1].C("A002 close").So("A002 OK CLOSE completed")

		s.expectExpunged(imap.Inbox, uids[0], uids[2])

		// The session is no longer selected.
		c[1].C("A003 expunge").NO("A003")

		// Other sessions still hear about the removals.
		c[2].C("B002 noop").So(
			`* 1 EXPUNGE`,
			`* 2 EXPUNGE`,
			`B002 OK NOOP completed`,
		)

		c[1].C("A004 select inbox").Sxe(`\* 1 EXISTS`).OK("A004")
	})
}

func TestCloseReadOnly(t *testing.T) {
	runOneToOneTestWithAuth(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		s.messagesCreated("user", imap.Inbox, 2, imap.FlagDeleted)

		c.C("A002 examine inbox").OK("A002", "READ-ONLY")

		// Closing a mailbox opened read-only removes nothing.
		c.C("A003 close").So("A003 OK CLOSE completed")

		c.C("A004 select inbox").Sxe(`\* 2 EXISTS`).OK("A004")
	})
}

func TestCloseNotSelected(t *testing.T) {
	runOneToOneTestWithAuth(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		c.C("A002 close").NO("A002")
	})
}

func TestCloseClient(t *testing.T) {
	runOneToOneTestClientWithAuth(t, defaultServerOptions(t), func(client *client.Client, s *testSession) {
		s.messagesCreated("user", imap.Inbox, 4, imap.FlagDeleted)

		_, err := client.Select(imap.Inbox, false)
		require.NoError(t, err)

		require.NoError(t, client.Close())

		status, err := client.Select(imap.Inbox, true)
		require.NoError(t, err)
		require.Equal(t, uint32(0), status.Messages)
	})
}
