package store

import (
	"sync"

	"github.com/imapcore/imapcore/imap"
	"golang.org/x/exp/maps"
)

type inMemoryStore struct {
	data map[imap.InternalMessageID][]byte
	lock sync.RWMutex
}

func NewInMemoryStore() Store {
	return &inMemoryStore{
		data: make(map[imap.InternalMessageID][]byte),
	}
}

func (c *inMemoryStore) Get(messageID imap.InternalMessageID) ([]byte, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	literal, ok := c.data[messageID]
	if !ok {
		return nil, ErrNoSuchContent
	}

	return literal, nil
}

func (c *inMemoryStore) Set(messageID imap.InternalMessageID, literal []byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.data[messageID] = append([]byte(nil), literal...)

	return nil
}

func (c *inMemoryStore) Delete(ids ...imap.InternalMessageID) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	for _, id := range ids {
		delete(c.data, id)
	}

	return nil
}

func (c *inMemoryStore) List() ([]imap.InternalMessageID, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return maps.Keys(c.data), nil
}

func (c *inMemoryStore) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.data = make(map[imap.InternalMessageID][]byte)

	return nil
}

type InMemoryStoreBuilder struct{}

func (InMemoryStoreBuilder) New(string, string, []byte) (Store, error) {
	return NewInMemoryStore(), nil
}

func (InMemoryStoreBuilder) Delete(string, string) error {
	return nil
}
