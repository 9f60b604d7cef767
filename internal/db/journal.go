package db

import (
	"context"
	"fmt"

	"github.com/bradenaw/juniper/xslices"
	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/internal/store"
	"github.com/sirupsen/logrus"
)

var _ store.Journal = (*Client)(nil)

func (c *Client) CreateMailbox(ctx context.Context, userID, name string, uidValidity imap.UID) (store.MailboxID, error) {
	var id store.MailboxID

	if err := c.wrapTx(ctx, func(ctx context.Context, qw QueryWrapper, _ *logrus.Entry) error {
		v, err := MapQueryRow[int64](ctx, qw,
			"INSERT INTO `mailboxes` (`user_id`, `name`, `uid_validity`) VALUES (?, ?, ?) RETURNING `id`",
			userID, name, uidValidity,
		)
		if err != nil {
			return err
		}

		id = store.MailboxID(v)

		return nil
	}); err != nil {
		return 0, fmt.Errorf("failed to create mailbox %v: %w", name, err)
	}

	return id, nil
}

func (c *Client) AddMessage(ctx context.Context, mboxID store.MailboxID, entry store.Entry) error {
	return c.wrapTx(ctx, func(ctx context.Context, qw QueryWrapper, _ *logrus.Entry) error {
		if _, err := ExecQuery(ctx, qw,
			"INSERT INTO `messages` (`mailbox_id`, `uid`, `content_id`) VALUES (?, ?, ?)",
			mboxID, entry.UID, entry.ContentID,
		); err != nil {
			return err
		}

		if err := insertFlags(ctx, qw, mboxID, entry.UID, entry.Flags); err != nil {
			return err
		}

		return ExecQueryAndCheckUpdatedNotZero(ctx, qw,
			"UPDATE `mailboxes` SET `uid_next` = MAX(`uid_next`, ?) WHERE `id` = ?",
			entry.UID.Add(1), mboxID,
		)
	})
}

func (c *Client) UpdateFlags(ctx context.Context, mboxID store.MailboxID, uid imap.UID, flags imap.FlagSet) error {
	return c.wrapTx(ctx, func(ctx context.Context, qw QueryWrapper, _ *logrus.Entry) error {
		if _, err := ExecQuery(ctx, qw,
			"DELETE FROM `message_flags` WHERE `mailbox_id` = ? AND `uid` = ?",
			mboxID, uid,
		); err != nil {
			return err
		}

		return insertFlags(ctx, qw, mboxID, uid, flags)
	})
}

func (c *Client) RemoveMessage(ctx context.Context, mboxID store.MailboxID, uid imap.UID) error {
	return c.wrapTx(ctx, func(ctx context.Context, qw QueryWrapper, _ *logrus.Entry) error {
		return ExecQueryAndCheckUpdatedNotZero(ctx, qw,
			"DELETE FROM `messages` WHERE `mailbox_id` = ? AND `uid` = ?",
			mboxID, uid,
		)
	})
}

func (c *Client) LoadMailboxes(ctx context.Context, userID string) ([]store.MailboxRecord, error) {
	var records []store.MailboxRecord

	if err := c.read(ctx, func(ctx context.Context, qw QueryWrapper) error {
		mailboxes, err := MapQueryRowsFn(ctx, qw,
			"SELECT `id`, `name`, `uid_validity`, `uid_next` FROM `mailboxes` WHERE `user_id` = ? ORDER BY `id`",
			func(scanner RowScanner) (store.MailboxRecord, error) {
				var rec store.MailboxRecord

				err := scanner.Scan(&rec.ID, &rec.Name, &rec.UIDValidity, &rec.UIDNext)

				return rec, err
			},
			userID,
		)
		if err != nil {
			return err
		}

		for idx := range mailboxes {
			entries, err := loadEntries(ctx, qw, mailboxes[idx].ID)
			if err != nil {
				return err
			}

			mailboxes[idx].Entries = entries
		}

		records = mailboxes

		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to load mailboxes of %v: %w", userID, err)
	}

	return records, nil
}

type flagRow struct {
	uid   imap.UID
	value string
}

func loadEntries(ctx context.Context, qw QueryWrapper, mboxID store.MailboxID) ([]store.Entry, error) {
	entries, err := MapQueryRowsFn(ctx, qw,
		"SELECT `uid`, `content_id` FROM `messages` WHERE `mailbox_id` = ? ORDER BY `uid`",
		func(scanner RowScanner) (store.Entry, error) {
			var entry store.Entry

			err := scanner.Scan(&entry.UID, &entry.ContentID)

			return entry, err
		},
		mboxID,
	)
	if err != nil {
		return nil, err
	}

	flags, err := MapQueryRowsFn(ctx, qw,
		"SELECT `uid`, `value` FROM `message_flags` WHERE `mailbox_id` = ?",
		func(scanner RowScanner) (flagRow, error) {
			var row flagRow

			err := scanner.Scan(&row.uid, &row.value)

			return row, err
		},
		mboxID,
	)
	if err != nil {
		return nil, err
	}

	byUID := make(map[imap.UID][]string)

	for _, row := range flags {
		byUID[row.uid] = append(byUID[row.uid], row.value)
	}

	return xslices.Map(entries, func(entry store.Entry) store.Entry {
		entry.Flags = imap.NewFlagSet(byUID[entry.UID]...)

		return entry
	}), nil
}

func insertFlags(ctx context.Context, qw QueryWrapper, mboxID store.MailboxID, uid imap.UID, flags imap.FlagSet) error {
	for _, flag := range flags.ToSlice() {
		if _, err := ExecQuery(ctx, qw,
			"INSERT INTO `message_flags` (`mailbox_id`, `uid`, `value`) VALUES (?, ?, ?)",
			mboxID, uid, flag,
		); err != nil {
			return err
		}
	}

	return nil
}
