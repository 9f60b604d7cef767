package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/imapcore/imapcore/async"
	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/liner"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/logging"
	"github.com/imapcore/imapcore/rfcparser"
)

// getCommandCh reads and parses commands on a separate goroutine. Malformed commands are answered with BAD right
// away and never reach the serving goroutine.
func (s *Session) getCommandCh(ctx context.Context) <-chan command.Command {
	cmdCh := make(chan command.Command)

	logging.GoAnnotate(ctx, func(ctx context.Context) {
		defer async.HandlePanic(s.panicHandler)
		defer close(cmdCh)

		for {
			cmd, err := s.readCommand()
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
					return
				}

				switch {
				case errors.Is(err, ErrMalformedCommand):
					s.log.WithError(err).WithField("tag", cmd.Tag).Debug("Failed to parse command")

					if err := response.Bad(tagOrUntagged(cmd.Tag)).WithError(err).Send(s); err != nil {
						return
					}

					continue

				case errors.Is(err, liner.ErrLiteralTooLarge):
					_ = response.Bye().WithMessage(err.Error()).Send(s)
					return

				default:
					s.log.WithError(err).Debug("Failed to read command")
					return
				}
			}

			select {
			case cmdCh <- cmd:

			case <-ctx.Done():
				return
			}
		}
	}, logging.Labels{
		"Action":    "Reading commands",
		"SessionID": s.sessionID,
	})

	return cmdCh
}

// readCommand returns the parsed command. On a parse error the returned command carries the tag, if one was read.
func (s *Session) readCommand() (command.Command, error) {
	line, err := s.liner.Read(func() error { return response.Continuation().Send(s) })
	if err != nil {
		return command.Command{}, err
	}

	parser := command.NewParser(rfcparser.NewScanner(bytes.NewReader(line)))

	cmd, err := parser.Parse()
	if err != nil {
		s.logIncoming(string(line))

		return command.Command{Tag: parser.LastParsedTag()}, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
	}

	s.logIncoming(cmd.SanitizedString())

	return cmd, nil
}

func tagOrUntagged(tag string) string {
	if tag == "" {
		return "*"
	}

	return tag
}
