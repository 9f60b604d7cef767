package session

import (
	"context"

	"github.com/emersion/go-imap/utf7"
	"github.com/imapcore/imapcore/events"
	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/profiling"
)

func (s *Session) handleExamine(ctx context.Context, tag string, cmd *command.Examine, ch chan response.Response) (response.Response, error) {
	profiling.Start(ctx, profiling.CmdTypeExamine)
	defer profiling.Stop(ctx, profiling.CmdTypeExamine)

	nameUTF8, err := utf7.Encoding.NewDecoder().String(cmd.Mailbox)
	if err != nil {
		return nil, response.Bad(tag).WithError(err)
	}

	info, err := s.state.Examine(ctx, nameUTF8)
	if err != nil {
		return nil, err
	}

	s.writeSelection(info, ch)

	s.eventCh <- events.Select{
		SessionID: s.sessionID,
		Mailbox:   info.Name,
		ReadOnly:  true,
	}

	return response.Ok(tag).WithItems(response.ItemReadOnly()).WithMessage("EXAMINE completed"), nil
}
