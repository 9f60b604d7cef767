package session

import (
	"context"

	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/profiling"
)

// handleNoop answers in any state; pending updates of the selected mailbox are flushed before the completion.
func (s *Session) handleNoop(ctx context.Context, tag string, cmd *command.Noop, ch chan response.Response) (response.Response, error) {
	profiling.Start(ctx, profiling.CmdTypeNoop)
	defer profiling.Stop(ctx, profiling.CmdTypeNoop)

	return response.Ok(tag).WithMessage("NOOP completed"), nil
}
