package store

import (
	"context"
	"sync/atomic"

	"github.com/imapcore/imapcore/imap"
)

type MailboxID int64

// Entry is one message of a mailbox as seen through a snapshot.
type Entry struct {
	UID       imap.UID
	Flags     imap.FlagSet
	ContentID imap.InternalMessageID
}

// MailboxRecord is the persisted state of one mailbox.
type MailboxRecord struct {
	ID          MailboxID
	Name        string
	UIDValidity imap.UID
	UIDNext     imap.UID
	Entries     []Entry
}

// Journal persists every mailbox mutation before it becomes visible in memory.
type Journal interface {
	CreateMailbox(ctx context.Context, userID, name string, uidValidity imap.UID) (MailboxID, error)
	AddMessage(ctx context.Context, mboxID MailboxID, entry Entry) error
	UpdateFlags(ctx context.Context, mboxID MailboxID, uid imap.UID, flags imap.FlagSet) error
	RemoveMessage(ctx context.Context, mboxID MailboxID, uid imap.UID) error
	LoadMailboxes(ctx context.Context, userID string) ([]MailboxRecord, error)
	Close() error
}

// NoopJournal keeps nothing; mailboxes live as long as the process.
type NoopJournal struct {
	nextID int64
}

func NewNoopJournal() *NoopJournal {
	return &NoopJournal{}
}

func (j *NoopJournal) CreateMailbox(context.Context, string, string, imap.UID) (MailboxID, error) {
	return MailboxID(atomic.AddInt64(&j.nextID, 1)), nil
}

func (*NoopJournal) AddMessage(context.Context, MailboxID, Entry) error {
	return nil
}

func (*NoopJournal) UpdateFlags(context.Context, MailboxID, imap.UID, imap.FlagSet) error {
	return nil
}

func (*NoopJournal) RemoveMessage(context.Context, MailboxID, imap.UID) error {
	return nil
}

func (*NoopJournal) LoadMailboxes(context.Context, string) ([]MailboxRecord, error) {
	return nil, nil
}

func (*NoopJournal) Close() error {
	return nil
}
