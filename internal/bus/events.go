package bus

import (
	"fmt"

	"github.com/imapcore/imapcore/imap"
)

type Event interface {
	fmt.Stringer

	_isEvent()
}

// Removal is published once per permanently removed message. Seq is the sequence number the message held in the
// publishing session's view at the instant of its removal.
type Removal struct {
	UID    imap.UID
	Seq    imap.SeqID
	Source SubscriberID
}

func (Removal) _isEvent() {}

func (e Removal) String() string {
	return fmt.Sprintf("Removal: UID: %v, Seq: %v, Source: %v", e.UID, e.Seq, e.Source)
}

// Flags carries the complete new flag set of a message.
type Flags struct {
	UID   imap.UID
	Flags imap.FlagSet
}

func (Flags) _isEvent() {}

func (e Flags) String() string {
	return fmt.Sprintf("Flags: UID: %v, Flags: %v", e.UID, e.Flags.ToSlice())
}

// Exists announces a newly delivered message.
type Exists struct {
	UID   imap.UID
	Flags imap.FlagSet
}

func (Exists) _isEvent() {}

func (e Exists) String() string {
	return fmt.Sprintf("Exists: UID: %v, Flags: %v", e.UID, e.Flags.ToSlice())
}

func typeLabel(event Event) string {
	switch event.(type) {
	case Removal:
		return "removal"

	case Flags:
		return "flags"

	case Exists:
		return "exists"

	default:
		return "unknown"
	}
}
