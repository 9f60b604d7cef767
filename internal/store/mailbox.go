package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/internal/bus"
	"github.com/imapcore/imapcore/internal/metrics"
	"github.com/imapcore/imapcore/limits"
	"github.com/sirupsen/logrus"
)

// Mailbox is the authoritative, UID-ordered message list of one mailbox. All access goes through Read or Write,
// which hold the mailbox's own lock; there is no lock shared between mailboxes.
type Mailbox struct {
	id          MailboxID
	name        string
	uidValidity imap.UID

	lock    sync.RWMutex
	uidNext imap.UID
	entries []Entry

	bus     *bus.Bus
	journal Journal
	limits  limits.IMAP
	log     *logrus.Entry
}

func newMailbox(rec MailboxRecord, journal Journal, imapLimits limits.IMAP, echo bus.EchoPolicy) *Mailbox {
	uidNext := rec.UIDNext
	if uidNext == 0 {
		uidNext = 1
	}

	entries := append([]Entry(nil), rec.Entries...)

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UID < entries[j].UID
	})

	return &Mailbox{
		id:          rec.ID,
		name:        rec.Name,
		uidValidity: rec.UIDValidity,
		uidNext:     uidNext,
		entries:     entries,
		bus:         bus.New(rec.Name, echo),
		journal:     journal,
		limits:      imapLimits,
		log:         logrus.WithField("mailbox", rec.Name),
	}
}

func (m *Mailbox) ID() MailboxID {
	return m.id
}

func (m *Mailbox) Name() string {
	return m.name
}

func (m *Mailbox) UIDValidity() imap.UID {
	return m.uidValidity
}

// Bus returns the mailbox's notification bus. Events must be published while holding the write lock so that
// subscribers observe them in mutation order.
func (m *Mailbox) Bus() *bus.Bus {
	return m.bus
}

// Read runs fn under the shared lock.
func (m *Mailbox) Read(fn func(tx *ReadTx) error) error {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return fn(&ReadTx{mbox: m})
}

// Write runs fn under the exclusive lock.
func (m *Mailbox) Write(ctx context.Context, fn func(tx *WriteTx) error) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	return fn(&WriteTx{ReadTx: ReadTx{mbox: m}, ctx: ctx})
}

// Add appends a message with the next UID.
func (m *Mailbox) Add(ctx context.Context, flags imap.FlagSet, contentID imap.InternalMessageID) (uid imap.UID, err error) {
	err = m.Write(ctx, func(tx *WriteTx) error {
		uid, err = tx.Add(flags, contentID)
		return err
	})

	return uid, err
}

// Remove permanently deletes the message; an absent UID is a no-op.
func (m *Mailbox) Remove(ctx context.Context, uid imap.UID) error {
	return m.Write(ctx, func(tx *WriteTx) error {
		_, err := tx.Remove(uid)
		return err
	})
}

// SetFlag sets or clears one flag and returns the resulting flag set and whether it changed.
func (m *Mailbox) SetFlag(ctx context.Context, uid imap.UID, flag string, on bool) (flags imap.FlagSet, changed bool, err error) {
	err = m.Write(ctx, func(tx *WriteTx) error {
		flags, changed, err = tx.SetFlag(uid, flag, on)
		return err
	})

	return flags, changed, err
}

// Snapshot returns a consistent point-in-time copy of the mailbox.
func (m *Mailbox) Snapshot() (entries []Entry) {
	_ = m.Read(func(tx *ReadTx) error {
		entries = tx.Snapshot()
		return nil
	})

	return entries
}

func (m *Mailbox) UIDNext() (uidNext imap.UID) {
	_ = m.Read(func(tx *ReadTx) error {
		uidNext = tx.UIDNext()
		return nil
	})

	return uidNext
}

func (m *Mailbox) index(uid imap.UID) (int, bool) {
	idx := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].UID >= uid
	})

	return idx, idx < len(m.entries) && m.entries[idx].UID == uid
}

// ReadTx exposes the mailbox under its shared or exclusive lock.
type ReadTx struct {
	mbox *Mailbox
}

func (tx *ReadTx) Snapshot() []Entry {
	entries := make([]Entry, len(tx.mbox.entries))

	for i, entry := range tx.mbox.entries {
		entries[i] = Entry{UID: entry.UID, Flags: entry.Flags.Clone(), ContentID: entry.ContentID}
	}

	return entries
}

func (tx *ReadTx) Len() int {
	return len(tx.mbox.entries)
}

func (tx *ReadTx) UIDNext() imap.UID {
	return tx.mbox.uidNext
}

// MaxUID returns the largest UID currently in the mailbox, or 0 if it is empty.
func (tx *ReadTx) MaxUID() imap.UID {
	if len(tx.mbox.entries) == 0 {
		return 0
	}

	return tx.mbox.entries[len(tx.mbox.entries)-1].UID
}

func (tx *ReadTx) Get(uid imap.UID) (Entry, bool) {
	idx, ok := tx.mbox.index(uid)
	if !ok {
		return Entry{}, false
	}

	entry := tx.mbox.entries[idx]

	return Entry{UID: entry.UID, Flags: entry.Flags.Clone(), ContentID: entry.ContentID}, true
}

// WriteTx additionally mutates the mailbox. Every mutation is journaled first and only applied in memory once the
// journal accepted it.
type WriteTx struct {
	ReadTx

	ctx context.Context
}

// Add appends a message with the next UID. UIDs are never reused, even after the message is removed.
func (tx *WriteTx) Add(flags imap.FlagSet, contentID imap.InternalMessageID) (imap.UID, error) {
	mbox := tx.mbox

	if err := mbox.limits.CheckMailboxMessageCount(len(mbox.entries), 1); err != nil {
		return 0, err
	}

	if err := mbox.limits.CheckUIDCount(mbox.uidNext-1, 1); err != nil {
		return 0, err
	}

	entry := Entry{UID: mbox.uidNext, Flags: flags.Clone(), ContentID: contentID}

	if err := mbox.journal.AddMessage(tx.ctx, mbox.id, entry); err != nil {
		return 0, tx.journalError("add", err)
	}

	mbox.entries = append(mbox.entries, entry)
	mbox.uidNext++

	mbox.log.WithField("UID", entry.UID).Debug("Message added")

	return entry.UID, nil
}

// Remove permanently deletes the message and returns the removed entry. An absent UID is a no-op.
func (tx *WriteTx) Remove(uid imap.UID) (Entry, error) {
	mbox := tx.mbox

	idx, ok := mbox.index(uid)
	if !ok {
		return Entry{}, nil
	}

	if err := mbox.journal.RemoveMessage(tx.ctx, mbox.id, uid); err != nil {
		return Entry{}, tx.journalError("remove", err)
	}

	entry := mbox.entries[idx]

	mbox.entries = append(mbox.entries[:idx], mbox.entries[idx+1:]...)

	mbox.log.WithField("UID", uid).Debug("Message removed")

	return entry, nil
}

// SetFlag sets or clears one flag. Flag names are not validated.
func (tx *WriteTx) SetFlag(uid imap.UID, flag string, on bool) (imap.FlagSet, bool, error) {
	mbox := tx.mbox

	idx, ok := mbox.index(uid)
	if !ok {
		return nil, false, fmt.Errorf("%w: UID %v", ErrNoSuchMessage, uid)
	}

	current := mbox.entries[idx].Flags
	if current.Contains(flag) == on {
		return current.Clone(), false, nil
	}

	updated := current.Set(flag, on)

	if err := mbox.journal.UpdateFlags(tx.ctx, mbox.id, uid, updated); err != nil {
		return nil, false, tx.journalError("flags", err)
	}

	mbox.entries[idx].Flags = updated

	return updated.Clone(), true, nil
}

func (tx *WriteTx) journalError(op string, err error) error {
	metrics.JournalFailures.WithLabelValues(op).Inc()

	tx.mbox.log.WithError(err).WithField("op", op).Error("Journal write failed")

	return fmt.Errorf("%w: %w", ErrJournal, err)
}
