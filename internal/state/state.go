package state

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/internal/bus"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/internal/store"
	"github.com/sirupsen/logrus"
)

type StateID int64

// ContentStore is the part of the message content store the state needs: dropping the content of removed messages.
type ContentStore interface {
	Delete(ids ...imap.InternalMessageID) error
}

// State is an authenticated session's state. It is only ever used from the session's own goroutine; everything it
// learns from other sessions arrives through its bus subscription and is applied when the session polls.
type State struct {
	StateID StateID

	registry *store.Registry
	content  ContentStore

	sel *selection

	log *logrus.Entry
}

type selection struct {
	mbox *store.Mailbox
	view *SessionView
	sub  *bus.Subscription
	ro   bool
}

// Selection describes a freshly selected mailbox.
type Selection struct {
	Name        string
	Flags       imap.FlagSet
	Exists      int
	UIDValidity imap.UID
	UIDNext     imap.UID
	ReadOnly    bool
}

var stateIDGenerator int64

func nextStateID() StateID {
	return StateID(atomic.AddInt64(&stateIDGenerator, 1))
}

func NewState(registry *store.Registry, content ContentStore) *State {
	stateID := nextStateID()

	return &State{
		StateID:  stateID,
		registry: registry,
		content:  content,
		log:      logrus.WithField("state", stateID).WithField("userID", registry.UserID()),
	}
}

func (state *State) UserID() string {
	return state.registry.UserID()
}

func (state *State) IsSelected() bool {
	return state.sel != nil
}

func (state *State) ReadOnly() bool {
	return state.sel != nil && state.sel.ro
}

// SelectedName returns the name of the selected mailbox, or the empty string.
func (state *State) SelectedName() string {
	if state.sel == nil {
		return ""
	}

	return state.sel.mbox.Name()
}

// View returns the session's current view of the selected mailbox.
func (state *State) View() (*SessionView, error) {
	if state.sel == nil {
		return nil, ErrSessionNotSelected
	}

	return state.sel.view, nil
}

func (state *State) Select(ctx context.Context, name string) (Selection, error) {
	return state.selectMailbox(ctx, name, false)
}

func (state *State) Examine(ctx context.Context, name string) (Selection, error) {
	return state.selectMailbox(ctx, name, true)
}

// selectMailbox drops any previous selection, then takes a snapshot and subscribes under the same read lock, so the
// subscription carries exactly the mutations that happen after the snapshot.
func (state *State) selectMailbox(_ context.Context, name string, ro bool) (Selection, error) {
	state.Unselect()

	mbox, err := state.registry.Get(name)
	if err != nil {
		if errors.Is(err, store.ErrNoSuchMailbox) {
			return Selection{}, ErrNoSuchMailbox
		}

		return Selection{}, err
	}

	var (
		sel  *selection
		info Selection
	)

	if err := mbox.Read(func(tx *store.ReadTx) error {
		sel = &selection{
			mbox: mbox,
			view: newSessionView(tx.Snapshot()),
			sub:  mbox.Bus().Subscribe(),
			ro:   ro,
		}

		info = Selection{
			Name:        mbox.Name(),
			Flags:       imap.SystemFlags(),
			Exists:      tx.Len(),
			UIDValidity: mbox.UIDValidity(),
			UIDNext:     tx.UIDNext(),
			ReadOnly:    ro,
		}

		return nil
	}); err != nil {
		return Selection{}, err
	}

	state.sel = sel

	state.log.WithField("mailbox", info.Name).WithField("readOnly", ro).Debug("Selected mailbox")

	return info, nil
}

// Unselect drops the selection together with any events still queued for it.
func (state *State) Unselect() {
	if state.sel == nil {
		return
	}

	state.sel.sub.Close()
	state.sel = nil
}

// Close silently removes the \Deleted messages of a read-write selection, then unselects. Other sessions are still
// notified of the removals.
func (state *State) Close(ctx context.Context) ([]imap.UID, error) {
	if state.sel == nil {
		return nil, ErrSessionNotSelected
	}

	defer state.Unselect()

	if state.sel.ro {
		return nil, nil
	}

	_, removed, err := state.expunge(ctx, expungeRequest{command: "CLOSE", silent: true})

	return removed, err
}

// Poll applies every queued event to the view and returns the untagged responses describing them. It is a no-op
// when nothing is selected.
func (state *State) Poll(context.Context) []response.Response {
	if state.sel == nil {
		return nil
	}

	return state.applyEvents(state.sel.sub.Drain())
}

// Release tears the state down when the session ends. The store is not touched.
func (state *State) Release() {
	state.Unselect()
}

func (state *State) String() string {
	return fmt.Sprintf("state %v (%v)", state.StateID, state.UserID())
}
