package store

import "errors"

var (
	ErrNoSuchMailbox = errors.New("no such mailbox")
	ErrMailboxExists = errors.New("mailbox already exists")
	ErrNoSuchMessage = errors.New("no such message")
	ErrJournal       = errors.New("journal write failed")
)
