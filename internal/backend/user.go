package backend

import (
	"context"
	"fmt"

	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/internal/bus"
	"github.com/imapcore/imapcore/internal/metrics"
	mailstore "github.com/imapcore/imapcore/internal/store"
	"github.com/imapcore/imapcore/store"
	"github.com/sirupsen/logrus"
)

type user struct {
	userID   string
	username string
	hash     []byte

	registry *mailstore.Registry
	content  store.Store

	log *logrus.Entry
}

func newUser(userID, username string, hash []byte, registry *mailstore.Registry, content store.Store) *user {
	return &user{
		userID:   userID,
		username: username,
		hash:     hash,
		registry: registry,
		content:  content,
		log:      logrus.WithField("userID", userID),
	}
}

func (user *user) close() error {
	return user.content.Close()
}

func (b *Backend) CreateMailbox(ctx context.Context, userID, name string) error {
	user, err := b.getUser(userID)
	if err != nil {
		return err
	}

	if _, err := user.registry.Create(ctx, name); err != nil {
		return err
	}

	return nil
}

// Mailboxes lists the names of the user's mailboxes.
func (b *Backend) Mailboxes(userID string) ([]string, error) {
	user, err := b.getUser(userID)
	if err != nil {
		return nil, err
	}

	return user.registry.List(), nil
}

// Deliver stores the literal and appends it to the mailbox with the next UID. Every session with the mailbox
// selected learns about it on its next response.
func (b *Backend) Deliver(ctx context.Context, userID, mailbox string, literal []byte, flags ...string) (imap.UID, error) {
	user, err := b.getUser(userID)
	if err != nil {
		return 0, err
	}

	mbox, err := user.registry.Get(mailbox)
	if err != nil {
		return 0, err
	}

	contentID := imap.NewInternalMessageID()

	if err := user.content.Set(contentID, literal); err != nil {
		return 0, fmt.Errorf("failed to store message content: %w", err)
	}

	var uid imap.UID

	if err := mbox.Write(ctx, func(tx *mailstore.WriteTx) error {
		flagSet := imap.NewFlagSet(flags...)

		added, err := tx.Add(flagSet, contentID)
		if err != nil {
			return err
		}

		mbox.Bus().Publish(0, bus.Exists{UID: added, Flags: flagSet})

		uid = added

		return nil
	}); err != nil {
		if derr := user.content.Delete(contentID); derr != nil {
			user.log.WithError(derr).Error("Failed to delete content of rejected message")
		}

		return 0, err
	}

	metrics.MessagesDelivered.Inc()

	user.log.WithField("mailbox", mbox.Name()).WithField("UID", uid).Debug("Message delivered")

	return uid, nil
}

// SetFlag sets or clears one flag of a message. A change is announced to every session with the mailbox selected.
func (b *Backend) SetFlag(ctx context.Context, userID, mailbox string, uid imap.UID, flag string, on bool) error {
	user, err := b.getUser(userID)
	if err != nil {
		return err
	}

	mbox, err := user.registry.Get(mailbox)
	if err != nil {
		return err
	}

	return mbox.Write(ctx, func(tx *mailstore.WriteTx) error {
		flags, changed, err := tx.SetFlag(uid, flag, on)
		if err != nil {
			return err
		}

		if changed {
			mbox.Bus().Publish(0, bus.Flags{UID: uid, Flags: flags})
		}

		return nil
	})
}

// Content returns the literal of the message with the given UID.
func (b *Backend) Content(userID, mailbox string, uid imap.UID) ([]byte, error) {
	user, err := b.getUser(userID)
	if err != nil {
		return nil, err
	}

	mbox, err := user.registry.Get(mailbox)
	if err != nil {
		return nil, err
	}

	var contentID imap.InternalMessageID

	if err := mbox.Read(func(tx *mailstore.ReadTx) error {
		entry, ok := tx.Get(uid)
		if !ok {
			return fmt.Errorf("%w: UID %v", mailstore.ErrNoSuchMessage, uid)
		}

		contentID = entry.ContentID

		return nil
	}); err != nil {
		return nil, err
	}

	return user.content.Get(contentID)
}
