package session

import (
	"context"
	"errors"

	"github.com/imapcore/imapcore/async"
	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/metrics"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/internal/state"
	"github.com/imapcore/imapcore/internal/store"
)

// handleOther runs the command and streams its responses. Untagged responses describing other sessions' changes
// are always written before the tagged completion.
func (s *Session) handleOther(ctx context.Context, cmd command.Command) chan response.Response {
	ch := make(chan response.Response)

	go func() {
		defer async.HandlePanic(s.panicHandler)
		defer close(ch)

		final, err := s.handleCommand(ctx, cmd, ch)

		s.flush(ctx, ch)

		if err != nil {
			metrics.CommandsTotal.WithLabelValues(commandName(cmd), "failure").Inc()

			if isInternalError(err) {
				s.log.WithError(err).WithField("command", commandName(cmd)).Error("Command failed")
			} else {
				s.log.WithError(err).WithField("command", commandName(cmd)).Debug("Command failed")
			}

			if res, ok := response.FromError(err); ok {
				ch <- res
			} else {
				ch <- response.No(cmd.Tag).WithError(err)
			}

			return
		}

		metrics.CommandsTotal.WithLabelValues(commandName(cmd), "success").Inc()

		s.log.WithField("command", commandName(cmd)).WithField("elapsed", elapsed(ctx)).Trace("Command completed")

		ch <- final
	}()

	return ch
}

func (s *Session) handleCommand(ctx context.Context, cmd command.Command, ch chan response.Response) (response.Response, error) {
	switch payload := cmd.Payload.(type) {
	case
		*command.Capability,
		*command.Noop:
		return s.handleAnyCommand(ctx, cmd.Tag, payload, ch)

	case
		*command.Login:
		return s.handleNotAuthenticatedCommand(ctx, cmd.Tag, payload, ch)

	case
		*command.Select,
		*command.Examine:
		return s.handleAuthenticatedCommand(ctx, cmd.Tag, payload, ch)

	case
		*command.Check,
		*command.Close,
		*command.Expunge,
		*command.UIDExpunge,
		*command.Unselect:
		return s.handleSelectedCommand(ctx, cmd.Tag, payload, ch)

	default:
		return nil, response.Bad(cmd.Tag).WithError(ErrUnknownCommand)
	}
}

func (s *Session) handleAnyCommand(ctx context.Context, tag string, payload command.Payload, ch chan response.Response) (response.Response, error) {
	switch cmd := payload.(type) {
	case *command.Capability:
		// 6.1.1 CAPABILITY Command
		return s.handleCapability(ctx, tag, cmd, ch)

	case *command.Noop:
		// 6.1.2 NOOP Command
		return s.handleNoop(ctx, tag, cmd, ch)

	default:
		panic("bad command")
	}
}

func (s *Session) handleNotAuthenticatedCommand(ctx context.Context, tag string, payload command.Payload, ch chan response.Response) (response.Response, error) {
	switch cmd := payload.(type) {
	case *command.Login:
		// 6.2.3. LOGIN Command
		return s.handleLogin(ctx, tag, cmd, ch)

	default:
		panic("bad command")
	}
}

func (s *Session) handleAuthenticatedCommand(ctx context.Context, tag string, payload command.Payload, ch chan response.Response) (response.Response, error) {
	s.userLock.Lock()
	defer s.userLock.Unlock()

	if s.state == nil {
		return nil, ErrNotAuthenticated
	}

	switch cmd := payload.(type) {
	case *command.Select:
		// 6.3.1. SELECT Command
		return s.handleSelect(ctx, tag, cmd, ch)

	case *command.Examine:
		// 6.3.2. EXAMINE Command
		return s.handleExamine(ctx, tag, cmd, ch)

	default:
		panic("bad command")
	}
}

func (s *Session) handleSelectedCommand(ctx context.Context, tag string, payload command.Payload, ch chan response.Response) (response.Response, error) {
	s.userLock.Lock()
	defer s.userLock.Unlock()

	if s.state == nil {
		return nil, ErrNotAuthenticated
	}

	if !s.state.IsSelected() {
		return nil, state.ErrSessionNotSelected
	}

	switch cmd := payload.(type) {
	case *command.Check:
		// 6.4.1. CHECK Command
		return s.handleCheck(ctx, tag, cmd, ch)

	case *command.Close:
		// 6.4.2. CLOSE Command
		return s.handleClose(ctx, tag, cmd, ch)

	case *command.Expunge:
		// 6.4.3. EXPUNGE Command
		return s.handleExpunge(ctx, tag, cmd, ch)

	case *command.UIDExpunge:
		// RFC4315 UIDPLUS Extension
		return s.handleUIDExpunge(ctx, tag, cmd, ch)

	case *command.Unselect:
		// RFC3691 UNSELECT Extension
		return s.handleUnselect(ctx, tag, cmd, ch)

	default:
		panic("bad command")
	}
}

// flush writes every pending untagged response of the selected mailbox.
func (s *Session) flush(ctx context.Context, ch chan response.Response) {
	s.userLock.Lock()
	defer s.userLock.Unlock()

	if s.state == nil {
		return
	}

	s.setSelectedName(s.state.SelectedName())

	for _, res := range s.state.Poll(ctx) {
		ch <- res
	}
}

// isInternalError reports whether err is a failure of the server rather than of the client's request.
func isInternalError(err error) bool {
	return errors.Is(err, store.ErrJournal)
}

func commandName(cmd command.Command) string {
	switch cmd.Payload.(type) {
	case *command.Capability:
		return "CAPABILITY"

	case *command.Noop:
		return "NOOP"

	case *command.Check:
		return "CHECK"

	case *command.Login:
		return "LOGIN"

	case *command.Select:
		return "SELECT"

	case *command.Examine:
		return "EXAMINE"

	case *command.Unselect:
		return "UNSELECT"

	case *command.Close:
		return "CLOSE"

	case *command.Expunge:
		return "EXPUNGE"

	case *command.UIDExpunge:
		return "UID EXPUNGE"

	case *command.Logout:
		return "LOGOUT"

	default:
		return "UNKNOWN"
	}
}
