package store

import (
	"errors"

	"github.com/imapcore/imapcore/imap"
)

var ErrNoSuchContent = errors.New("no such message content")

type Store interface {
	Get(messageID imap.InternalMessageID) ([]byte, error)
	Set(messageID imap.InternalMessageID, literal []byte) error
	Delete(messageIDs ...imap.InternalMessageID) error
	List() ([]imap.InternalMessageID, error)
	Close() error
}

// Builder creates the content store of one user.
type Builder interface {
	New(dir, userID string, passphrase []byte) (Store, error)
	Delete(dir, userID string) error
}
