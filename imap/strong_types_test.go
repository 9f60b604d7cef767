package imap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternalMessageID(t *testing.T) {
	id := NewInternalMessageID()

	require.NotEqual(t, id, NewInternalMessageID())
	require.Len(t, id.ShortID(), 8)
	require.Equal(t, "abc", InternalMessageID("abc").ShortID())
}

func TestUID(t *testing.T) {
	require.Equal(t, UID(8), UID(5).Add(3))
	require.Equal(t, "42", UID(42).String())
	require.Equal(t, "3", SeqID(3).String())
}
