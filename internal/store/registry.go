package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/internal/bus"
	"github.com/imapcore/imapcore/limits"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Registry holds the mailboxes of one user.
type Registry struct {
	userID string

	lock      sync.RWMutex
	mailboxes map[string]*Mailbox

	journal              Journal
	limits               limits.IMAP
	uidValidityGenerator imap.UIDValidityGenerator
	echo                 bus.EchoPolicy
}

type RegistryConfig struct {
	Journal              Journal
	Limits               limits.IMAP
	UIDValidityGenerator imap.UIDValidityGenerator
	EchoPolicy           bus.EchoPolicy
}

// NewRegistry restores the user's mailboxes from the journal and makes sure INBOX exists.
func NewRegistry(ctx context.Context, userID string, cfg RegistryConfig) (*Registry, error) {
	reg := &Registry{
		userID:               userID,
		mailboxes:            make(map[string]*Mailbox),
		journal:              cfg.Journal,
		limits:               cfg.Limits,
		uidValidityGenerator: cfg.UIDValidityGenerator,
		echo:                 cfg.EchoPolicy,
	}

	records, err := cfg.Journal.LoadMailboxes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mailboxes: %w", err)
	}

	for _, rec := range records {
		reg.mailboxes[canonicalName(rec.Name)] = newMailbox(rec, reg.journal, reg.limits, reg.echo)
	}

	if _, ok := reg.mailboxes[imap.Inbox]; !ok {
		if _, err := reg.Create(ctx, imap.Inbox); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

func (r *Registry) UserID() string {
	return r.userID
}

func (r *Registry) Create(ctx context.Context, name string) (*Mailbox, error) {
	name = canonicalName(name)

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.mailboxes[name]; ok {
		return nil, fmt.Errorf("%w: %v", ErrMailboxExists, name)
	}

	if err := r.limits.CheckMailboxCount(len(r.mailboxes)); err != nil {
		return nil, err
	}

	uidValidity, err := r.uidValidityGenerator.Generate()
	if err != nil {
		return nil, err
	}

	if err := r.limits.CheckUIDValidity(uidValidity); err != nil {
		return nil, err
	}

	id, err := r.journal.CreateMailbox(ctx, r.userID, name, uidValidity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJournal, err)
	}

	mbox := newMailbox(MailboxRecord{ID: id, Name: name, UIDValidity: uidValidity, UIDNext: 1}, r.journal, r.limits, r.echo)

	r.mailboxes[name] = mbox

	return mbox, nil
}

func (r *Registry) Get(name string) (*Mailbox, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	mbox, ok := r.mailboxes[canonicalName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNoSuchMailbox, name)
	}

	return mbox, nil
}

// List returns the mailbox names in lexical order.
func (r *Registry) List() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	names := maps.Keys(r.mailboxes)

	slices.Sort(names)

	return names
}

// canonicalName maps any casing of INBOX onto INBOX; other names are case-sensitive.
func canonicalName(name string) string {
	if strings.EqualFold(name, imap.Inbox) {
		return imap.Inbox
	}

	return name
}
