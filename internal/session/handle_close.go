package session

import (
	"context"

	"github.com/imapcore/imapcore/events"
	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/profiling"
)

// handleClose removes the \Deleted messages without sending EXPUNGE responses, then unselects.
func (s *Session) handleClose(ctx context.Context, tag string, cmd *command.Close, ch chan response.Response) (response.Response, error) {
	profiling.Start(ctx, profiling.CmdTypeClose)
	defer profiling.Stop(ctx, profiling.CmdTypeClose)

	name := s.state.SelectedName()

	removed, err := s.state.Close(ctx)

	if len(removed) > 0 {
		s.eventCh <- events.Expunged{
			SessionID: s.sessionID,
			Mailbox:   name,
			UIDs:      removed,
		}
	}

	if err != nil {
		return nil, err
	}

	return response.Ok(tag).WithMessage("CLOSE completed"), nil
}
