package session

import (
	"context"

	"github.com/emersion/go-imap/utf7"
	"github.com/imapcore/imapcore/events"
	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/internal/state"
	"github.com/imapcore/imapcore/profiling"
)

func (s *Session) handleSelect(ctx context.Context, tag string, cmd *command.Select, ch chan response.Response) (response.Response, error) {
	profiling.Start(ctx, profiling.CmdTypeSelect)
	defer profiling.Stop(ctx, profiling.CmdTypeSelect)

	nameUTF8, err := utf7.Encoding.NewDecoder().String(cmd.Mailbox)
	if err != nil {
		return nil, response.Bad(tag).WithError(err)
	}

	info, err := s.state.Select(ctx, nameUTF8)
	if err != nil {
		return nil, err
	}

	s.writeSelection(info, ch)

	s.eventCh <- events.Select{
		SessionID: s.sessionID,
		Mailbox:   info.Name,
	}

	return response.Ok(tag).WithItems(response.ItemReadWrite()).WithMessage("SELECT completed"), nil
}

func (s *Session) writeSelection(info state.Selection, ch chan response.Response) {
	ch <- response.Flags().WithFlags(info.Flags)
	ch <- response.Exists().WithCount(info.Exists)
	ch <- response.Ok().WithItems(response.ItemPermanentFlags(info.Flags)).WithMessage("Flags permitted")
	ch <- response.Ok().WithItems(response.ItemUIDValidity(info.UIDValidity)).WithMessage("UIDs valid")
	ch <- response.Ok().WithItems(response.ItemUIDNext(info.UIDNext)).WithMessage("Predicted next UID")
}
