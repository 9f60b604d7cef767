package session

import (
	"context"

	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/profiling"
)

func (s *Session) handleCapability(ctx context.Context, tag string, cmd *command.Capability, ch chan response.Response) (response.Response, error) {
	profiling.Start(ctx, profiling.CmdTypeCapability)
	defer profiling.Stop(ctx, profiling.CmdTypeCapability)

	ch <- response.Capability().WithCapabilities(s.caps...)

	return response.Ok(tag).WithMessage("CAPABILITY completed"), nil
}
