package limits

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIMAPLimits(t *testing.T) {
	l := NewIMAPLimits(2, 3, 10, 100)

	require.NoError(t, l.CheckMailboxCount(1))
	require.ErrorIs(t, l.CheckMailboxCount(2), ErrMaxMailboxCountReached)

	require.NoError(t, l.CheckMailboxMessageCount(2, 1))
	require.ErrorIs(t, l.CheckMailboxMessageCount(3, 1), ErrMaxMailboxMessageCountReached)

	require.NoError(t, l.CheckUIDCount(9, 1))
	require.ErrorIs(t, l.CheckUIDCount(10, 1), ErrMaxUIDReached)

	require.NoError(t, l.CheckUIDValidity(100))
	require.ErrorIs(t, l.CheckUIDValidity(101), ErrMaxUIDValidityReached)

	require.True(t, IsIMAPLimitErr(fmt.Errorf("wrapped: %w", ErrMaxUIDReached)))
	require.False(t, IsIMAPLimitErr(fmt.Errorf("other")))
}

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()

	require.NoError(t, l.CheckUIDCount(4294967294, 1))
	require.ErrorIs(t, l.CheckUIDCount(4294967295, 1), ErrMaxUIDReached)
}
