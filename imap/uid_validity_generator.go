package imap

import (
	"errors"
	"sync/atomic"
	"time"
)

var ErrUIDValidityExhausted = errors.New("uid validity interval exceeded maximum capacity")

// UIDValidityGenerator hands out the UIDVALIDITY value of newly created mailboxes.
type UIDValidityGenerator interface {
	Generate() (UID, error)
}

// EpochUIDValidityGenerator derives values from the seconds elapsed since epochStart.
// Successive values are strictly increasing even within the same second.
type EpochUIDValidityGenerator struct {
	epochStart time.Time
	last       uint32
}

func NewEpochUIDValidityGenerator(epochStart time.Time) *EpochUIDValidityGenerator {
	return &EpochUIDValidityGenerator{epochStart: epochStart}
}

func DefaultEpochUIDValidityGenerator() *EpochUIDValidityGenerator {
	return NewEpochUIDValidityGenerator(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (e *EpochUIDValidityGenerator) Generate() (UID, error) {
	elapsed := uint64(time.Since(e.epochStart).Seconds())
	if elapsed >= uint64(0xFFFFFFFF) {
		return 0, ErrUIDValidityExhausted
	}

	// Zero is not a valid UIDVALIDITY.
	next := uint32(elapsed) + 1

	for {
		last := atomic.LoadUint32(&e.last)

		candidate := next
		if last >= candidate {
			if last == 0xFFFFFFFF {
				return 0, ErrUIDValidityExhausted
			}

			candidate = last + 1
		}

		if atomic.CompareAndSwapUint32(&e.last, last, candidate) {
			return UID(candidate), nil
		}
	}
}

type IncrementalUIDValidityGenerator struct {
	counter uint32
}

func NewIncrementalUIDValidityGenerator() *IncrementalUIDValidityGenerator {
	return &IncrementalUIDValidityGenerator{}
}

func (i *IncrementalUIDValidityGenerator) Generate() (UID, error) {
	return UID(atomic.AddUint32(&i.counter, 1)), nil
}

func (i *IncrementalUIDValidityGenerator) GetValue() UID {
	return UID(atomic.LoadUint32(&i.counter))
}

type FixedUIDValidityGenerator struct {
	Value UID
}

func NewFixedUIDValidityGenerator(value UID) *FixedUIDValidityGenerator {
	return &FixedUIDValidityGenerator{Value: value}
}

func (f FixedUIDValidityGenerator) Generate() (UID, error) {
	return f.Value, nil
}
