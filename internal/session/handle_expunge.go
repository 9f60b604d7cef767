package session

import (
	"context"

	"github.com/imapcore/imapcore/events"
	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/profiling"
)

func (s *Session) handleExpunge(ctx context.Context, tag string, cmd *command.Expunge, ch chan response.Response) (response.Response, error) {
	profiling.Start(ctx, profiling.CmdTypeExpunge)
	defer profiling.Stop(ctx, profiling.CmdTypeExpunge)

	if s.state.ReadOnly() {
		return nil, ErrReadOnly
	}

	res, removed, err := s.state.Expunge(ctx)

	s.sendExpunged(res, removed, ch)

	if err != nil {
		return nil, err
	}

	return response.Ok(tag).WithMessage("EXPUNGE Completed"), nil
}

func (s *Session) handleUIDExpunge(ctx context.Context, tag string, cmd *command.UIDExpunge, ch chan response.Response) (response.Response, error) {
	profiling.Start(ctx, profiling.CmdTypeUIDExpunge)
	defer profiling.Stop(ctx, profiling.CmdTypeUIDExpunge)

	if s.state.ReadOnly() {
		return nil, ErrReadOnly
	}

	res, removed, err := s.state.UIDExpunge(ctx, cmd.SeqSet)

	s.sendExpunged(res, removed, ch)

	if err != nil {
		return nil, err
	}

	return response.Ok(tag).WithMessage("UID EXPUNGE Completed"), nil
}

// sendExpunged writes the lines produced by a removal, including those of a removal that failed part-way.
func (s *Session) sendExpunged(res []response.Response, removed []imap.UID, ch chan response.Response) {
	for _, r := range res {
		ch <- r
	}

	if len(removed) > 0 {
		s.eventCh <- events.Expunged{
			SessionID: s.sessionID,
			Mailbox:   s.state.SelectedName(),
			UIDs:      removed,
		}
	}
}
