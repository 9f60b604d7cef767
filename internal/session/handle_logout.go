package session

import (
	"context"
	"fmt"

	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/profiling"
)

func (s *Session) handleLogout(ctx context.Context, tag string, cmd *command.Logout) error {
	profiling.Start(ctx, profiling.CmdTypeLogout)
	defer profiling.Stop(ctx, profiling.CmdTypeLogout)

	if err := response.Bye().WithMessage("Logging out").Send(s); err != nil {
		return fmt.Errorf("failed to send response to client: %w", err)
	}

	return response.Ok(tag).WithMessage("LOGOUT completed").Send(s)
}
