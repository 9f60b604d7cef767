package state

import "errors"

var (
	ErrNoSuchMailbox      = errors.New("no such mailbox")
	ErrSessionNotSelected = errors.New("session is not selected")
	ErrReadOnly           = errors.New("mailbox is read-only")
)
