package session

import (
	"context"

	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/profiling"
)

func (s *Session) handleUnselect(ctx context.Context, tag string, cmd *command.Unselect, ch chan response.Response) (response.Response, error) {
	profiling.Start(ctx, profiling.CmdTypeUnselect)
	defer profiling.Stop(ctx, profiling.CmdTypeUnselect)

	s.state.Unselect()

	return response.Ok(tag).WithMessage("UNSELECT completed"), nil
}
