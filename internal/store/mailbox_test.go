package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/internal/bus"
	"github.com/imapcore/imapcore/limits"
	"github.com/stretchr/testify/require"
)

// failingJournal fails every removal of the UIDs in failRemove.
type failingJournal struct {
	NoopJournal

	lock       sync.Mutex
	failRemove map[imap.UID]bool
	failAdd    bool
}

func (j *failingJournal) AddMessage(context.Context, MailboxID, Entry) error {
	if j.failAdd {
		return errors.New("disk full")
	}

	return nil
}

func (j *failingJournal) RemoveMessage(_ context.Context, _ MailboxID, uid imap.UID) error {
	j.lock.Lock()
	defer j.lock.Unlock()

	if j.failRemove[uid] {
		return errors.New("disk full")
	}

	return nil
}

func newTestMailbox(t *testing.T, journal Journal) *Mailbox {
	reg, err := NewRegistry(context.Background(), "user", RegistryConfig{
		Journal:              journal,
		Limits:               limits.DefaultLimits(),
		UIDValidityGenerator: imap.NewFixedUIDValidityGenerator(7),
		EchoPolicy:           bus.SuppressEcho,
	})
	require.NoError(t, err)

	mbox, err := reg.Get("inbox")
	require.NoError(t, err)

	return mbox
}

func addMessages(t *testing.T, mbox *Mailbox, n int, flags ...string) []imap.UID {
	var uids []imap.UID

	for i := 0; i < n; i++ {
		uid, err := mbox.Add(context.Background(), imap.NewFlagSet(flags...), imap.NewInternalMessageID())
		require.NoError(t, err)

		uids = append(uids, uid)
	}

	return uids
}

func TestMailbox_UIDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	mbox := newTestMailbox(t, NewNoopJournal())

	require.Equal(t, []imap.UID{1, 2, 3}, addMessages(t, mbox, 3))

	require.NoError(t, mbox.Remove(ctx, 3))
	require.NoError(t, mbox.Remove(ctx, 2))

	require.Equal(t, []imap.UID{4}, addMessages(t, mbox, 1))
	require.Equal(t, imap.UID(5), mbox.UIDNext())
	require.Equal(t, imap.UID(7), mbox.UIDValidity())
}

func TestMailbox_RemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mbox := newTestMailbox(t, NewNoopJournal())

	addMessages(t, mbox, 2)

	require.NoError(t, mbox.Remove(ctx, 1))
	require.NoError(t, mbox.Remove(ctx, 1))
	require.NoError(t, mbox.Remove(ctx, 99))

	snap := mbox.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, imap.UID(2), snap[0].UID)
}

func TestMailbox_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	mbox := newTestMailbox(t, NewNoopJournal())

	addMessages(t, mbox, 2)

	snap := mbox.Snapshot()

	_, changed, err := mbox.SetFlag(ctx, 1, imap.FlagDeleted, true)
	require.NoError(t, err)
	require.True(t, changed)

	require.NoError(t, mbox.Remove(ctx, 2))

	require.Len(t, snap, 2)
	require.False(t, snap[0].Flags.Contains(imap.FlagDeleted))
}

func TestMailbox_SetFlag(t *testing.T) {
	ctx := context.Background()
	mbox := newTestMailbox(t, NewNoopJournal())

	addMessages(t, mbox, 1, imap.FlagSeen)

	flags, changed, err := mbox.SetFlag(ctx, 1, `\DELETED`, true)
	require.NoError(t, err)
	require.True(t, changed)
	require.True(t, flags.Equals(imap.NewFlagSet(imap.FlagSeen, imap.FlagDeleted)))

	_, changed, err = mbox.SetFlag(ctx, 1, imap.FlagDeleted, true)
	require.NoError(t, err)
	require.False(t, changed)

	flags, changed, err = mbox.SetFlag(ctx, 1, imap.FlagSeen, false)
	require.NoError(t, err)
	require.True(t, changed)
	require.True(t, flags.Equals(imap.NewFlagSet(imap.FlagDeleted)))

	_, _, err = mbox.SetFlag(ctx, 42, imap.FlagSeen, true)
	require.ErrorIs(t, err, ErrNoSuchMessage)
}

func TestMailbox_JournalFailureLeavesMemoryUntouched(t *testing.T) {
	ctx := context.Background()
	journal := &failingJournal{failRemove: map[imap.UID]bool{2: true}}
	mbox := newTestMailbox(t, journal)

	addMessages(t, mbox, 3)

	require.NoError(t, mbox.Remove(ctx, 1))
	require.ErrorIs(t, mbox.Remove(ctx, 2), ErrJournal)

	require.Equal(t, []imap.UID{2, 3}, uidsOf(mbox.Snapshot()))

	journal.failAdd = true

	_, err := mbox.Add(ctx, imap.NewFlagSet(), imap.NewInternalMessageID())
	require.ErrorIs(t, err, ErrJournal)
	require.Equal(t, imap.UID(4), mbox.UIDNext())
}

func TestMailbox_Limits(t *testing.T) {
	reg, err := NewRegistry(context.Background(), "user", RegistryConfig{
		Journal:              NewNoopJournal(),
		Limits:               limits.NewIMAPLimits(10, 2, 100, 100),
		UIDValidityGenerator: imap.NewIncrementalUIDValidityGenerator(),
	})
	require.NoError(t, err)

	mbox, err := reg.Get(imap.Inbox)
	require.NoError(t, err)

	addMessages(t, mbox, 2)

	_, err = mbox.Add(context.Background(), imap.NewFlagSet(), imap.NewInternalMessageID())
	require.ErrorIs(t, err, limits.ErrMaxMailboxMessageCountReached)
}

func TestMailbox_WriteTx(t *testing.T) {
	ctx := context.Background()
	mbox := newTestMailbox(t, NewNoopJournal())

	addMessages(t, mbox, 3)

	require.NoError(t, mbox.Write(ctx, func(tx *WriteTx) error {
		require.Equal(t, imap.UID(3), tx.MaxUID())

		entry, err := tx.Remove(3)
		require.NoError(t, err)
		require.Equal(t, imap.UID(3), entry.UID)

		require.Equal(t, imap.UID(2), tx.MaxUID())
		require.Equal(t, 2, tx.Len())

		_, ok := tx.Get(3)
		require.False(t, ok)

		return nil
	}))

	require.NoError(t, mbox.Read(func(tx *ReadTx) error {
		require.Equal(t, imap.UID(4), tx.UIDNext())
		return nil
	}))
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	reg, err := NewRegistry(ctx, "user", RegistryConfig{
		Journal:              NewNoopJournal(),
		Limits:               limits.DefaultLimits(),
		UIDValidityGenerator: imap.NewIncrementalUIDValidityGenerator(),
	})
	require.NoError(t, err)

	_, err = reg.Create(ctx, "Archive")
	require.NoError(t, err)

	_, err = reg.Create(ctx, "Archive")
	require.ErrorIs(t, err, ErrMailboxExists)

	_, err = reg.Create(ctx, "inbox")
	require.ErrorIs(t, err, ErrMailboxExists)

	_, err = reg.Get("archive")
	require.ErrorIs(t, err, ErrNoSuchMailbox)

	require.Equal(t, []string{"Archive", "INBOX"}, reg.List())
}

func uidsOf(entries []Entry) []imap.UID {
	uids := make([]imap.UID, 0, len(entries))

	for _, entry := range entries {
		uids = append(uids, entry.UID)
	}

	return uids
}
