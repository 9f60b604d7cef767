package tests

import (
	"testing"

	uidplus "github.com/emersion/go-imap-uidplus"
	"github.com/emersion/go-imap/client"
	"github.com/imapcore/imapcore/imap"
	"github.com/stretchr/testify/require"
)

// deliverTenMarkFive creates ten messages and marks 1, 2, 4, 7 and 9 as deleted.
func deliverTenMarkFive(s *testSession) {
	for _, uid := range s.messagesCreated("user", imap.Inbox, 10) {
		switch uid {
		case 1, 2, 4, 7, 9:
			s.messageDeleted("user", imap.Inbox, uid, true)
		}
	}
}

func TestUIDExpungeRange(t *testing.T) {
	runOneToOneTestWithAuth(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		deliverTenMarkFive(s)

		c.Select(imap.Inbox)

		c.C("A002 uid expunge 2:8").So(
			`* 2 EXPUNGE`,
			`* 3 EXPUNGE`,
			`* 5 EXPUNGE`,
			`A002 OK UID EXPUNGE Completed`,
		)

		s.expectExpunged(imap.Inbox, 2, 4, 7)

		// Messages outside the range stay, deleted or not.
		c.C("A003 expunge").So(
			`* 1 EXPUNGE`,
			`* 5 EXPUNGE`,
			`A003 OK EXPUNGE Completed`,
		)
	})
}

func TestUIDExpungeMixedSet(t *testing.T) {
	runOneToOneTestWithAuth(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		deliverTenMarkFive(s)

		c.Select(imap.Inbox)

		c.C("A002 UID EXPUNGE 1:2,7").So(
			`* 1 EXPUNGE`,
			`* 1 EXPUNGE`,
			`* 5 EXPUNGE`,
			`A002 OK UID EXPUNGE Completed`,
		)
	})
}

func TestUIDExpungeReversedRangeWithAsterisk(t *testing.T) {
	runOneToOneTestWithAuth(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		uids := s.messagesCreated("user", imap.Inbox, 5)

		s.messageDeleted("user", imap.Inbox, uids[1], true)
		s.messageDeleted("user", imap.Inbox, uids[4], true)

		c.Select(imap.Inbox)

		// *:4 is 4:5.
		c.C("A002 uid expunge *:4").So(
			`* 5 EXPUNGE`,
			`A002 OK UID EXPUNGE Completed`,
		)
	})
}

func TestUIDExpungeNothingInScope(t *testing.T) {
	runOneToOneTestWithAuth(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		deliverTenMarkFive(s)

		c.Select(imap.Inbox)

		c.C("A002 uid expunge 3,5:6,8").So(`A002 OK UID EXPUNGE Completed`)

		// UIDs that were never assigned are ignored.
		c.C("A003 uid expunge 100:200").So(`A003 OK UID EXPUNGE Completed`)
	})
}

func TestUIDExpungeSeenByOtherSession(t *testing.T) {
	runManyToOneTestWithAuth(t, defaultServerOptions(t), []int{1, 2}, func(c map[int]*testConnection, s *testSession) {
		deliverTenMarkFive(s)

		c[1].Select(imap.Inbox)
		c[2].Select(imap.Inbox)

		c[1].C("A002 uid expunge 2:8").So(
			`* 2 EXPUNGE`,
			`* 3 EXPUNGE`,
			`* 5 EXPUNGE`,
			`A002 OK UID EXPUNGE Completed`,
		)

		c[2].C("B002 noop").So(
			`* 2 EXPUNGE`,
			`* 3 EXPUNGE`,
			`* 5 EXPUNGE`,
			`B002 OK NOOP completed`,
		)
	})
}

func TestUIDExpungeBadSequenceSet(t *testing.T) {
	runOneToOneTestWithAuth(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		c.Select(imap.Inbox)

		c.C("A002 uid expunge").BAD("A002")
		c.C("A003 uid expunge 0").BAD("A003")
		c.C("A004 uid expunge a:b").BAD("A004")
	})
}

func TestUIDExpungeClient(t *testing.T) {
	runOneToOneTestClientWithAuth(t, defaultServerOptions(t), func(client *client.Client, s *testSession) {
		deliverTenMarkFive(s)

		_, err := client.Select(imap.Inbox, false)
		require.NoError(t, err)

		uidClient := uidplus.NewClient(client)

		supported, err := uidClient.SupportUidPlus()
		require.NoError(t, err)
		require.True(t, supported)

		require.Equal(t, []uint32{2, 3, 5}, uidExpungeClient(t, uidClient, mustParseSeqSet("2:8")))
		require.Equal(t, []uint32{1, 5}, uidExpungeClient(t, uidClient, mustParseSeqSet("1:*")))
	})
}
