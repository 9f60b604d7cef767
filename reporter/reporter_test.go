package reporter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	NullReporter

	messages []string
	contexts []Context
}

func (r *recordingReporter) ReportMessageWithContext(msg string, ctx Context) error {
	r.messages = append(r.messages, msg)
	r.contexts = append(r.contexts, ctx)

	return nil
}

func TestMessageWithContext(t *testing.T) {
	rep := &recordingReporter{}
	ctx := NewContextWithReporter(context.Background(), rep)

	MessageWithContext(ctx, "journal failed", Context{"mailbox": "INBOX"})

	require.Equal(t, []string{"journal failed"}, rep.messages)
	require.Equal(t, "INBOX", rep.contexts[0]["mailbox"])
}

func TestNoReporterInContext(t *testing.T) {
	_, ok := GetReporterFromContext(context.Background())
	require.False(t, ok)

	require.NotPanics(t, func() {
		Message(context.Background(), "dropped")
		Exception(context.Background(), "dropped")
	})
}
