// Package events defines the server events delivered to watchers.
package events

import (
	"net"

	"github.com/imapcore/imapcore/imap"
)

type Event interface {
	_isEvent()
}

type eventBase struct{}

func (eventBase) _isEvent() {}

type ListenerAdded struct {
	eventBase

	Addr net.Addr
}

type ListenerRemoved struct {
	eventBase

	Addr net.Addr
}

type SessionAdded struct {
	eventBase

	SessionID  int
	LocalAddr  net.Addr
	RemoteAddr net.Addr
}

type SessionRemoved struct {
	eventBase

	SessionID int
}

type Login struct {
	eventBase

	SessionID int
	UserID    string
}

type Select struct {
	eventBase

	SessionID int
	Mailbox   string
	ReadOnly  bool
}

// Expunged is sent after a removal command completes with at least one message removed.
type Expunged struct {
	eventBase

	SessionID int
	Mailbox   string
	UIDs      []imap.UID
}

type UserAdded struct {
	eventBase

	UserID string
}
