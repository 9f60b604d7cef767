package session

import (
	"context"
	"errors"

	"github.com/imapcore/imapcore/events"
	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/backend"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/profiling"
)

func (s *Session) handleLogin(ctx context.Context, tag string, cmd *command.Login, ch chan response.Response) (response.Response, error) {
	profiling.Start(ctx, profiling.CmdTypeLogin)
	defer profiling.Stop(ctx, profiling.CmdTypeLogin)

	s.userLock.Lock()
	defer s.userLock.Unlock()

	// If already authenticated, return BAD (it seems that NO is reserved for login failures).
	// This matches the behaviour of dovecot and gmail.
	if s.state != nil {
		return nil, response.Bad(tag).WithError(ErrAlreadyAuthenticated)
	}

	state, err := s.backend.GetState(cmd.UserID, cmd.Password, s.sessionID)
	if err != nil {
		if errors.Is(err, backend.ErrLoginBlocked) {
			return nil, response.No(tag).WithError(err)
		}

		return nil, backend.ErrBadCredentials
	}

	s.state = state

	s.log = s.log.WithField("userID", state.UserID())

	s.eventCh <- events.Login{
		SessionID: s.sessionID,
		UserID:    state.UserID(),
	}

	return response.Ok(tag).WithMessage("LOGIN completed"), nil
}
