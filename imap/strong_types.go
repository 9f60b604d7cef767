package imap

import (
	"strconv"

	"github.com/google/uuid"
)

// UID is the stable, mailbox-scoped identifier of a message. UIDs are strictly increasing and never reused.
type UID uint32

func (u UID) Add(v uint32) UID {
	return UID(uint32(u) + v)
}

func (u UID) String() string {
	return strconv.FormatUint(uint64(u), 10)
}

// SeqID is a session-relative, 1-based message position.
type SeqID uint32

func (s SeqID) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// InternalMessageID references a message's content in the content store.
type InternalMessageID string

func NewInternalMessageID() InternalMessageID {
	return InternalMessageID(uuid.NewString())
}

func (i InternalMessageID) String() string {
	return string(i)
}

func (i InternalMessageID) ShortID() string {
	if len(i) < 8 {
		return string(i)
	}

	return string(i[:8])
}

const Inbox = "INBOX"
