package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/imapcore/imapcore/imap"
	"github.com/sirupsen/logrus"
)

const badgerGCInterval = 5 * time.Minute

type BadgerStore struct {
	db       *badger.DB
	gcExitCh chan struct{}
	wg       sync.WaitGroup
}

// NewBadgerStore opens an encrypted Badger database under path/userID.
func NewBadgerStore(path, userID string, passphrase []byte) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(filepath.Join(path, userID)).
		WithLogger(logrus.StandardLogger()).
		WithLoggingLevel(badger.ERROR).
		WithEncryptionKey(hash(passphrase)).
		WithIndexCacheSize(16 * 1024 * 1024),
	)
	if err != nil {
		return nil, err
	}

	store := &BadgerStore{
		db:       db,
		gcExitCh: make(chan struct{}),
	}

	store.wg.Add(1)

	go store.collectGarbage()

	return store, nil
}

// collectGarbage runs value log GC periodically; Badger never does so on its own.
func (b *BadgerStore) collectGarbage() {
	defer b.wg.Done()

	ticker := time.NewTicker(badgerGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for b.db.RunValueLogGC(0.5) == nil {
			}

		case <-b.gcExitCh:
			return
		}
	}
}

func (b *BadgerStore) Get(messageID imap.InternalMessageID) ([]byte, error) {
	var data []byte

	if err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(messageID))
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)

		return err
	}); errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoSuchContent
	} else if err != nil {
		return nil, err
	}

	return data, nil
}

func (b *BadgerStore) Set(messageID imap.InternalMessageID, literal []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(messageID), literal)
	})
}

func (b *BadgerStore) Delete(messageIDs ...imap.InternalMessageID) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, id := range messageIDs {
			if err := txn.Delete([]byte(id)); err != nil {
				return err
			}
		}

		return nil
	})
}

func (b *BadgerStore) List() ([]imap.InternalMessageID, error) {
	var ids []imap.InternalMessageID

	if err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			ids = append(ids, imap.InternalMessageID(it.Item().KeyCopy(nil)))
		}

		return nil
	}); err != nil {
		return nil, err
	}

	return ids, nil
}

func (b *BadgerStore) Close() error {
	close(b.gcExitCh)
	b.wg.Wait()

	return b.db.Close()
}

type BadgerStoreBuilder struct{}

func (BadgerStoreBuilder) New(directory, userID string, passphrase []byte) (Store, error) {
	return NewBadgerStore(directory, userID, passphrase)
}

func (BadgerStoreBuilder) Delete(directory, userID string) error {
	return os.RemoveAll(filepath.Join(directory, userID))
}
