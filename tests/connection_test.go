package tests

import (
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"testing"

	"github.com/bradenaw/juniper/xslices"
	"github.com/google/uuid"
	"github.com/imapcore/imapcore/internal/liner"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func withTag(fn func(string)) {
	fn(uuid.NewString())
}

func repeat(line string, n int) []string {
	return xslices.Repeat(line, n)
}

type testConnection struct {
	tb    testing.TB
	conn  net.Conn
	liner *liner.Liner
}

func newTestConnection(tb testing.TB, conn net.Conn) *testConnection {
	return &testConnection{
		tb:    tb,
		conn:  conn,
		liner: liner.New(conn, 1<<20),
	}
}

func (s *testConnection) C(value string) *testConnection {
	n, err := s.conn.Write([]byte(value + "\r\n"))
	require.NoError(s.tb, err)
	require.Greater(s.tb, n, 0)

	return s
}

func (s *testConnection) Cf(format string, a ...any) *testConnection {
	return s.C(fmt.Sprintf(format, a...))
}

func quoteLines(lines []string) []string {
	return xslices.Map(lines, func(line string) string { return "^" + regexp.QuoteMeta(line) + "\r\n" })
}

// takeMatch removes the first pattern matching line and reports whether there was one.
func takeMatch(patterns []string, line []byte) ([]string, bool) {
	idx := xslices.IndexFunc(patterns, func(pattern string) bool {
		return regexp.MustCompile(pattern).Match(line)
	})
	if idx < 0 {
		return patterns, false
	}

	return slices.Delete(patterns, idx, idx+1), true
}

// S expects the next len(want) lines to be exactly want, in any order.
func (s *testConnection) S(want ...string) *testConnection {
	return s.Sx(quoteLines(want)...)
}

// Sx is S with regular expressions.
func (s *testConnection) Sx(want ...string) *testConnection {
	var unexpected []string

	for _, line := range s.readN(len(want)) {
		var ok bool

		if want, ok = takeMatch(want, line); !ok {
			unexpected = append(unexpected, string(line))
		}
	}

	if len(unexpected) > 0 {
		require.Failf(s.tb, "Received unexpected responses", "want: %q\nbut have:%q", want, unexpected)
	}

	return s
}

// So expects the next lines to be exactly want, in this order.
func (s *testConnection) So(want ...string) *testConnection {
	for _, line := range want {
		require.Equal(s.tb, line+"\r\n", string(s.read()))
	}

	return s
}

// Se skips lines until every line of want was seen.
func (s *testConnection) Se(want ...string) *testConnection {
	return s.Sxe(quoteLines(want)...)
}

// Sxe is Se with regular expressions.
func (s *testConnection) Sxe(want ...string) *testConnection {
	for len(want) > 0 {
		want, _ = takeMatch(want, s.read())
	}

	return s
}

// OK skips lines until the tagged OK, optionally carrying the given response codes.
func (s *testConnection) OK(tag string, items ...string) {
	want := tag + " OK"

	if len(items) > 0 {
		want += fmt.Sprintf(" [%v]", strings.Join(items, " "))
	}

	s.Sxe(regexp.QuoteMeta(want))
}

func (s *testConnection) NO(tag string) {
	s.Sxe(regexp.QuoteMeta(tag + " NO"))
}

func (s *testConnection) BAD(tag string) {
	s.Sxe(regexp.QuoteMeta(tag + " BAD"))
}

func (s *testConnection) Login(username, password string) *testConnection {
	withTag(func(tag string) {
		s.Cf("%v login %v %v", tag, username, password).OK(tag)
	})

	return s
}

// Select selects the mailbox and discards the untagged responses describing it.
func (s *testConnection) Select(mailbox string) *testConnection {
	withTag(func(tag string) {
		s.Cf("%v select %v", tag, mailbox).OK(tag)
	})

	return s
}

func (s *testConnection) read() []byte {
	line, err := s.liner.Read(func() error { return nil })
	require.NoError(s.tb, err)

	return line
}

func (s *testConnection) readN(n int) [][]byte {
	lines := make([][]byte, n)

	for i := range lines {
		lines[i] = s.read()
	}

	return lines
}

func (s *testConnection) disconnect() error {
	return s.conn.Close()
}

func (s *testConnection) expectClosed() {
	_, err := s.liner.Read(func() error { return nil })
	require.ErrorIs(s.tb, err, io.EOF)
}
