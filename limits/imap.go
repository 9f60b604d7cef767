package limits

import (
	"errors"
	"math"

	"github.com/imapcore/imapcore/imap"
)

var (
	ErrMaxMailboxCountReached        = errors.New("max mailbox count reached")
	ErrMaxMailboxMessageCountReached = errors.New("max mailbox message count reached")
	ErrMaxUIDReached                 = errors.New("max UID value reached")
	ErrMaxUIDValidityReached         = errors.New("max UIDValidity value reached")
)

// IMAP contains configurable upper limits enforced by the server.
type IMAP struct {
	maxMailboxCount           int64
	maxMessageCountPerMailbox int64
	maxUIDValidity            int64
	maxUID                    int64
}

func DefaultLimits() IMAP {
	return IMAP{
		maxMailboxCount:           math.MaxUint32,
		maxMessageCountPerMailbox: math.MaxUint32,
		maxUIDValidity:            math.MaxUint32,
		maxUID:                    math.MaxUint32,
	}
}

func NewIMAPLimits(maxMailboxCount, maxMessageCount uint32, maxUID, maxUIDValidity imap.UID) IMAP {
	return IMAP{
		maxMailboxCount:           int64(maxMailboxCount),
		maxMessageCountPerMailbox: int64(maxMessageCount),
		maxUIDValidity:            int64(maxUIDValidity),
		maxUID:                    int64(maxUID),
	}
}

func (i IMAP) CheckMailboxCount(mailboxCount int) error {
	if int64(mailboxCount) >= i.maxMailboxCount {
		return ErrMaxMailboxCountReached
	}

	return nil
}

func (i IMAP) CheckMailboxMessageCount(existingCount, newCount int) error {
	if int64(existingCount)+int64(newCount) > i.maxMessageCountPerMailbox {
		return ErrMaxMailboxMessageCountReached
	}

	return nil
}

// CheckUIDCount checks that newCount UIDs can still be assigned after the last one handed out.
func (i IMAP) CheckUIDCount(lastUID imap.UID, newCount int) error {
	if int64(lastUID)+int64(newCount) > i.maxUID {
		return ErrMaxUIDReached
	}

	return nil
}

func (i IMAP) CheckUIDValidity(uidValidity imap.UID) error {
	if int64(uidValidity) > i.maxUIDValidity {
		return ErrMaxUIDValidityReached
	}

	return nil
}

func IsIMAPLimitErr(err error) bool {
	return errors.Is(err, ErrMaxUIDValidityReached) ||
		errors.Is(err, ErrMaxMailboxCountReached) ||
		errors.Is(err, ErrMaxUIDReached) ||
		errors.Is(err, ErrMaxMailboxMessageCountReached)
}
