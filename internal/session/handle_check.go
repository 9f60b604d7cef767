package session

import (
	"context"

	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/profiling"
)

func (s *Session) handleCheck(ctx context.Context, tag string, cmd *command.Check, ch chan response.Response) (response.Response, error) {
	profiling.Start(ctx, profiling.CmdTypeCheck)
	defer profiling.Stop(ctx, profiling.CmdTypeCheck)

	return response.Ok(tag).WithMessage("CHECK completed"), nil
}
