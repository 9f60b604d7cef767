package imap

import (
	"testing"
	"time"

	"github.com/bradenaw/juniper/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func TestEpochUIDValidityGenerator_Generate(t *testing.T) {
	generator := DefaultEpochUIDValidityGenerator()

	const count = 10

	uids := make([]UID, count)

	for i := 0; i < count; i++ {
		uid, err := generator.Generate()
		require.NoError(t, err)

		uids[i] = uid
	}

	for i := 0; i < count-1; i++ {
		assert.Less(t, uids[i], uids[i+1])
	}
}

func TestEpochUIDValidityGenerator_GenerateParallel(t *testing.T) {
	generator := DefaultEpochUIDValidityGenerator()

	const count = 1000

	uids := make([]UID, count)

	parallel.Do(0, count, func(i int) {
		uid, err := generator.Generate()
		require.NoError(t, err)

		uids[i] = uid
	})

	slices.Sort(uids)

	for i := 0; i < count-1; i++ {
		assert.Less(t, uids[i], uids[i+1])
	}
}

func TestEpochUIDValidityGenerator_Exhausted(t *testing.T) {
	generator := NewEpochUIDValidityGenerator(time.Now().Add(-200 * 365 * 24 * time.Hour))

	_, err := generator.Generate()
	require.ErrorIs(t, err, ErrUIDValidityExhausted)
}

func TestIncrementalUIDValidityGenerator(t *testing.T) {
	generator := NewIncrementalUIDValidityGenerator()

	first, err := generator.Generate()
	require.NoError(t, err)

	second, err := generator.Generate()
	require.NoError(t, err)

	require.Equal(t, UID(1), first)
	require.Equal(t, UID(2), second)
	require.Equal(t, UID(2), generator.GetValue())
}
