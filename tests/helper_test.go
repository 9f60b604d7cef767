package tests

import (
	"testing"

	"github.com/bradenaw/juniper/iterator"
	goimap "github.com/emersion/go-imap"
	uidplus "github.com/emersion/go-imap-uidplus"
	"github.com/emersion/go-imap/client"
	"github.com/stretchr/testify/require"
)

// collectSeqNums runs a command that reports expunged sequence numbers on a channel the client closes
// when the command completes.
func collectSeqNums(t testing.TB, run func(chan uint32) error) []uint32 {
	seqCh, errCh := make(chan uint32), make(chan error, 1)

	go func() { errCh <- run(seqCh) }()

	seqNums := iterator.Collect(iterator.Chan(seqCh))

	require.NoError(t, <-errCh)

	return seqNums
}

func expungeClient(t testing.TB, c *client.Client) []uint32 {
	return collectSeqNums(t, func(ch chan uint32) error {
		return c.Expunge(ch)
	})
}

func uidExpungeClient(t testing.TB, c *uidplus.Client, uids *goimap.SeqSet) []uint32 {
	return collectSeqNums(t, func(ch chan uint32) error {
		return c.UidExpunge(uids, ch)
	})
}

func mustParseSeqSet(set string) *goimap.SeqSet {
	seqSet, err := goimap.ParseSeqSet(set)
	if err != nil {
		panic(err)
	}

	return seqSet
}
