package state

import (
	"sort"

	"github.com/bradenaw/juniper/xslices"
	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/internal/store"
)

type viewMsg struct {
	uid   imap.UID
	flags imap.FlagSet
}

// SessionView maps the UIDs a session knows about onto the contiguous sequence numbers 1..N it shows its client.
// Sequence numbers are never stored; they are derived from the message's position in the ascending UID list, so
// removing a message implicitly renumbers every later one.
type SessionView struct {
	msgs []viewMsg
}

func newSessionView(entries []store.Entry) *SessionView {
	return &SessionView{
		msgs: xslices.Map(entries, func(entry store.Entry) viewMsg {
			return viewMsg{uid: entry.UID, flags: entry.Flags}
		}),
	}
}

func (v *SessionView) Len() int {
	return len(v.msgs)
}

// CurrentSequenceOf returns 1 + the number of UIDs in the view lesser than uid.
func (v *SessionView) CurrentSequenceOf(uid imap.UID) (imap.SeqID, bool) {
	idx, ok := v.index(uid)
	if !ok {
		return 0, false
	}

	return imap.SeqID(idx + 1), true
}

func (v *SessionView) UIDAt(seq imap.SeqID) (imap.UID, bool) {
	if seq < 1 || int(seq) > len(v.msgs) {
		return 0, false
	}

	return v.msgs[seq-1].uid, true
}

func (v *SessionView) Flags(uid imap.UID) (imap.FlagSet, bool) {
	idx, ok := v.index(uid)
	if !ok {
		return nil, false
	}

	return v.msgs[idx].flags.Clone(), true
}

func (v *SessionView) UIDs() []imap.UID {
	return xslices.Map(v.msgs, func(msg viewMsg) imap.UID {
		return msg.uid
	})
}

// remove drops uid and returns the sequence number it held just before.
func (v *SessionView) remove(uid imap.UID) (imap.SeqID, bool) {
	idx, ok := v.index(uid)
	if !ok {
		return 0, false
	}

	v.msgs = append(v.msgs[:idx], v.msgs[idx+1:]...)

	return imap.SeqID(idx + 1), true
}

// append adds a message at the end of the view. UIDs only grow, so anything not greater than the last UID is
// already known and ignored.
func (v *SessionView) append(uid imap.UID, flags imap.FlagSet) bool {
	if len(v.msgs) > 0 && v.msgs[len(v.msgs)-1].uid >= uid {
		return false
	}

	v.msgs = append(v.msgs, viewMsg{uid: uid, flags: flags.Clone()})

	return true
}

func (v *SessionView) setFlags(uid imap.UID, flags imap.FlagSet) (imap.SeqID, bool) {
	idx, ok := v.index(uid)
	if !ok {
		return 0, false
	}

	v.msgs[idx].flags = flags.Clone()

	return imap.SeqID(idx + 1), true
}

func (v *SessionView) index(uid imap.UID) (int, bool) {
	idx := sort.Search(len(v.msgs), func(i int) bool {
		return v.msgs[i].uid >= uid
	})

	return idx, idx < len(v.msgs) && v.msgs[idx].uid == uid
}
