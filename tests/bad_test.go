package tests

import (
	"testing"
)

func TestBadCommands(t *testing.T) {
	runOneToOneTestWithAuth(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		c.C("A002 frobnicate").BAD("A002")
		c.C("A003 uid fetch 1:* flags").BAD("A003")
		c.C("A004 select").BAD("A004")
		c.C("A005 expunge now").BAD("A005")

		// An unparseable line without a tag gets an untagged BAD.
		c.C("").Sx(`\* BAD`)

		// The session keeps serving commands.
		c.C("A006 noop").So("A006 OK NOOP completed")
	})
}

func TestLiteralTooLarge(t *testing.T) {
	runOneToOneTest(t, defaultServerOptions(t), func(c *testConnection, s *testSession) {
		c.C("A001 login {999999999999}").Sx(`\* BYE`)

		c.expectClosed()
	})
}
