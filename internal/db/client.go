// Package db implements the mailbox journal on top of SQLite.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/imapcore/imapcore/reporter"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

type Client struct {
	db    *sql.DB
	lock  sync.Mutex
	debug bool
}

type Option interface {
	apply(client *Client)
}

type dbDebugOption struct{}

func (dbDebugOption) apply(client *Client) {
	client.debug = true
}

// Debug enables logging of the SQL queries and their values. Written to debug log.
func Debug() Option {
	return &dbDebugOption{}
}

// NewClient opens (or creates) the database at the given path and brings its schema up to date.
func NewClient(ctx context.Context, path string, options ...Option) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open("sqlite3", fmt.Sprintf("file:%v?cache=shared&_fk=1&_journal=WAL", path))
	if err != nil {
		return nil, err
	}

	client := &Client{db: sqlDB}

	for _, opt := range options {
		opt.apply(client)
	}

	if err := client.init(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, err
	}

	return client, nil
}

func (c *Client) init(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable db pragma: %w", err)
	}

	return c.wrapTx(ctx, func(ctx context.Context, qw QueryWrapper, entry *logrus.Entry) error {
		entry.Debugf("Running database migrations")

		if err := RunMigrations(ctx, qw); err != nil {
			return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
		}

		return nil
	})
}

func (c *Client) read(ctx context.Context, op func(context.Context, QueryWrapper) error) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	var qw QueryWrapper = c.db

	if c.debug {
		qw = debugQueries{qw: qw, log: logrus.WithField("rd", uuid.NewString())}
	}

	return op(ctx, qw)
}

func (c *Client) wrapTx(ctx context.Context, op func(context.Context, QueryWrapper, *logrus.Entry) error) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	var entry *logrus.Entry

	if c.debug {
		entry = logrus.WithField("tx", uuid.NewString())
	} else {
		entry = logrus.WithField("tx", "tx")
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if v := recover(); v != nil {
			if err := tx.Rollback(); err != nil {
				panic(fmt.Errorf("rolling back while recovering (%v): %w", v, err))
			}

			panic(v)
		}
	}()

	var qw QueryWrapper = tx

	if c.debug {
		qw = debugQueries{qw: tx, log: entry}
	}

	if err := op(ctx, qw, entry); err != nil {
		if c.debug {
			entry.Debugf("Rolling back Transaction")
		}

		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("rolling back transaction: %w", rerr)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		if !errors.Is(err, context.Canceled) {
			reporter.MessageWithContext(ctx,
				"Failed to commit database transaction",
				reporter.Context{"error": err},
			)
		}

		return fmt.Errorf("%v: %w", err, ErrTransactionFailed)
	}

	return nil
}

func (c *Client) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.db.Close()
}
