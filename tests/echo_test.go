package tests

import (
	"testing"

	"github.com/imapcore/imapcore/imap"
)

func TestEchoOwnRemovals(t *testing.T) {
	runManyToOneTestWithAuth(t, defaultServerOptions(t, withEchoOwnRemovals()), []int{1, 2}, func(c map[int]*testConnection, s *testSession) {
		s.messagesCreated("user", imap.Inbox, 3)
		s.messageDeleted("user", imap.Inbox, 2, true)
		s.messageDeleted("user", imap.Inbox, 3, true)

		c[1].Select(imap.Inbox)
		c[2].Select(imap.Inbox)

		// The issuing session hears about its own removals a second time, numbered as they were when removed.
		c[1].C("A002 expunge").So(
			`* 2 EXPUNGE`,
			`* 2 EXPUNGE`,
			`* 2 EXPUNGE`,
			`* 2 EXPUNGE`,
			`A002 OK EXPUNGE Completed`,
		)

		c[2].C("B002 noop").So(
			`* 2 EXPUNGE`,
			`* 2 EXPUNGE`,
			`B002 OK NOOP completed`,
		)
	})
}
