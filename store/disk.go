package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/imapcore/imapcore/imap"
)

type onDiskStore struct {
	path string
	gcm  cipher.AEAD
	cmp  Compressor
	sem  *Semaphore
}

// NewOnDiskStore keeps each literal in its own file, sealed with AES-GCM under a key derived from pass.
func NewOnDiskStore(path string, pass []byte, opt ...Option) (Store, error) {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(hash(pass))
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	store := &onDiskStore{
		path: path,
		gcm:  gcm,
	}

	for _, opt := range opt {
		opt.config(store)
	}

	return store, nil
}

func (c *onDiskStore) Get(messageID imap.InternalMessageID) ([]byte, error) {
	defer c.lock()()

	enc, err := os.ReadFile(filepath.Join(c.path, messageID.String()))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSuchContent
	} else if err != nil {
		return nil, err
	}

	if len(enc) < c.gcm.NonceSize() {
		return nil, fmt.Errorf("content file of %v is truncated", messageID.ShortID())
	}

	b, err := c.gcm.Open(nil, enc[:c.gcm.NonceSize()], enc[c.gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}

	if c.cmp != nil {
		return c.cmp.Decompress(b)
	}

	return b, nil
}

func (c *onDiskStore) Set(messageID imap.InternalMessageID, b []byte) error {
	defer c.lock()()

	nonce := make([]byte, c.gcm.NonceSize())

	if _, err := rand.Read(nonce); err != nil {
		return err
	}

	if c.cmp != nil {
		enc, err := c.cmp.Compress(b)
		if err != nil {
			return err
		}

		b = enc
	}

	return os.WriteFile(filepath.Join(c.path, messageID.String()), c.gcm.Seal(nonce, nonce, b, nil), 0o600)
}

func (c *onDiskStore) Delete(messageIDs ...imap.InternalMessageID) error {
	defer c.lock()()

	for _, messageID := range messageIDs {
		if err := os.RemoveAll(filepath.Join(c.path, messageID.String())); err != nil {
			return err
		}
	}

	return nil
}

func (c *onDiskStore) List() ([]imap.InternalMessageID, error) {
	defer c.lock()()

	entries, err := os.ReadDir(c.path)
	if err != nil {
		return nil, err
	}

	var ids []imap.InternalMessageID

	for _, entry := range entries {
		if !entry.IsDir() {
			ids = append(ids, imap.InternalMessageID(entry.Name()))
		}
	}

	return ids, nil
}

func (c *onDiskStore) Close() error {
	return nil
}

func (c *onDiskStore) lock() func() {
	if c.sem == nil {
		return func() {}
	}

	c.sem.Lock()

	return c.sem.Unlock
}

type OnDiskStoreBuilder struct {
	Options []Option
}

func (b OnDiskStoreBuilder) New(path, userID string, passphrase []byte) (Store, error) {
	return NewOnDiskStore(filepath.Join(path, userID), passphrase, b.Options...)
}

func (OnDiskStoreBuilder) Delete(path, userID string) error {
	return os.RemoveAll(filepath.Join(path, userID))
}
