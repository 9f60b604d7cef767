// Package imapcore implements an IMAP4rev1 server core focused on message sequencing and removal.
package imapcore

import (
	"errors"

	"github.com/imapcore/imapcore/internal/backend"
	"github.com/imapcore/imapcore/internal/store"
)

var ErrServerClosed = errors.New("server closed")

// IsNoSuchMessage returns true if the error is ErrNoSuchMessage.
func IsNoSuchMessage(err error) bool {
	return errors.Is(err, store.ErrNoSuchMessage)
}

// IsNoSuchMailbox returns true if the error is ErrNoSuchMailbox.
func IsNoSuchMailbox(err error) bool {
	return errors.Is(err, store.ErrNoSuchMailbox)
}

// IsNoSuchUser returns true if the error is ErrNoSuchUser.
func IsNoSuchUser(err error) bool {
	return errors.Is(err, backend.ErrNoSuchUser)
}

// IsJournalError returns true if the error was caused by a failed journal write.
func IsJournalError(err error) bool {
	return errors.Is(err, store.ErrJournal)
}
