package tests

import (
	"testing"
	"time"

	"github.com/imapcore/imapcore/imap"
)

func TestLogin(t *testing.T) {
	runOneToOneTest(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		c.C("A001 login user pass").So("A001 OK LOGIN completed")
	})
}

func TestLoginQuoted(t *testing.T) {
	runOneToOneTest(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		c.C(`A001 login "user" "pass"`).OK("A001")
	})
}

func TestLoginUsernameIsCaseInsensitive(t *testing.T) {
	runOneToOneTest(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		c.C("A001 login USER pass").OK("A001")
	})
}

func TestLoginFailure(t *testing.T) {
	runOneToOneTest(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		c.C("A001 login user wrong").So("A001 NO invalid username or password")
		c.C("A002 login nobody pass").So("A002 NO invalid username or password")

		// Still not authenticated.
		c.C("A003 select inbox").NO("A003")
	})
}

func TestLoginTwice(t *testing.T) {
	runOneToOneTestWithAuth(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		c.C("A002 login user pass").BAD("A002")
	})
}

func TestLoginJail(t *testing.T) {
	runOneToOneTest(t, defaultServerOptions(t, withLoginJailTime(500*time.Millisecond)), func(c *testConnection, s *testSession) {
		for i := 0; i < 3; i++ {
			withTag(func(tag string) { c.Cf("%v login user wrong", tag).NO(tag) })
		}

		// The right password is refused while the user is jailed.
		c.C("A001 login user pass").So("A001 NO too many login attempts")

		time.Sleep(time.Second)

		c.C("A002 login user pass").OK("A002")
	})
}

func TestLoginMultipleUsers(t *testing.T) {
	options := defaultServerOptions(t, withCredentials(
		credentials{username: "user1", password: "pass1"},
		credentials{username: "user2", password: "pass2"},
	))

	runManyToOneTest(t, options, []int{1, 2}, func(c map[int]*testConnection, s *testSession) {
		c[1].Login("user1", "pass1")
		c[2].Login("user2", "pass2")

		s.messagesCreated("user1", imap.Inbox, 2, imap.FlagDeleted)
		s.messagesCreated("user2", imap.Inbox, 1, imap.FlagDeleted)

		c[1].Select(imap.Inbox)
		c[2].Select(imap.Inbox)

		// Users do not see each other's mailboxes.
		c[1].C("A002 expunge").So(`* 1 EXPUNGE`, `* 1 EXPUNGE`, `A002 OK EXPUNGE Completed`)
		c[2].C("B002 noop").So(`B002 OK NOOP completed`)
		c[2].C("B003 expunge").So(`* 1 EXPUNGE`, `B003 OK EXPUNGE Completed`)
	})
}
