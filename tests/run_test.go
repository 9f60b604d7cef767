// Package tests drives a real server over TCP, both with raw protocol lines and with an IMAP client.
package tests

import (
	"testing"

	"github.com/emersion/go-imap/client"
	"github.com/stretchr/testify/require"
)

type connTest func(map[int]*testConnection, *testSession)

func runOneToOneTest(tb testing.TB, options *serverOptions, test func(*testConnection, *testSession)) {
	runManyToOneTest(tb, options, []int{1}, func(c map[int]*testConnection, s *testSession) {
		test(c[1], s)
	})
}

// runOneToOneTestWithAuth is runOneToOneTest with the connection logged in as the default user.
func runOneToOneTestWithAuth(tb testing.TB, options *serverOptions, test func(*testConnection, *testSession)) {
	runManyToOneTestWithAuth(tb, options, []int{1}, func(c map[int]*testConnection, s *testSession) {
		test(c[1], s)
	})
}

// runManyToOneTest opens one raw connection per ID, all against the same server and account.
func runManyToOneTest(tb testing.TB, options *serverOptions, connIDs []int, test connTest) {
	runServer(tb, options, func(s *testSession) {
		withConnections(tb, s, connIDs, func(c map[int]*testConnection) {
			test(c, s)
		})
	})
}

func runManyToOneTestWithAuth(tb testing.TB, options *serverOptions, connIDs []int, test connTest) {
	runManyToOneTest(tb, options, connIDs, func(c map[int]*testConnection, s *testSession) {
		for _, id := range connIDs {
			c[id].Login(options.defaultUsername(), options.defaultPassword())
		}

		test(c, s)
	})
}

// runOneToOneTestClientWithAuth drives the server with a logged in go-imap client.
func runOneToOneTestClientWithAuth(tb testing.TB, options *serverOptions, test func(*client.Client, *testSession)) {
	runServer(tb, options, func(s *testSession) {
		withClients(tb, s, []int{1}, func(c map[int]*client.Client) {
			require.NoError(tb, c[1].Login(options.defaultUsername(), options.defaultPassword()))

			test(c[1], s)
		})
	})
}
