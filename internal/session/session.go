// Package session handles IMAP commands received from clients
// within a single IMAP session (one client connection).
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"

	"github.com/imapcore/imapcore/async"
	"github.com/imapcore/imapcore/events"
	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/backend"
	"github.com/imapcore/imapcore/internal/liner"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/internal/state"
	"github.com/imapcore/imapcore/rfcparser"
	"github.com/imapcore/imapcore/version"
	"github.com/sirupsen/logrus"
)

type Session struct {
	// conn is the underlying TCP connection to the client. It is wrapped by a buffered liner.
	conn net.Conn

	// liner wraps the underlying TCP connection to facilitate linewise reading.
	liner *liner.Liner

	// writeLock serializes writes from the serving goroutine and the command reader.
	writeLock sync.Mutex

	// backend provides access to users and their mailboxes.
	backend *backend.Backend

	// state manages state of the authorized backend for this session.
	state *state.State

	// userLock protects the session's state object.
	userLock sync.Mutex

	// name holds the name of the currently selected mailbox, if any. It is only used for logging.
	name     string
	nameLock sync.Mutex

	// caps is the server's IMAP caps.
	caps []imap.Capability

	// sessionID is this session's unique ID.
	sessionID int

	// eventCh is a channel on which the session should publish any events that occur.
	eventCh chan<- events.Event

	// loggers which can be set to log incoming and outgoing IMAP communications.
	inLogger, outLogger io.Writer

	panicHandler async.PanicHandler

	version version.Info

	log *logrus.Entry
}

func New(
	conn net.Conn,
	backend *backend.Backend,
	sessionID int,
	versionInfo version.Info,
	panicHandler async.PanicHandler,
	eventCh chan<- events.Event,
) *Session {
	return &Session{
		conn:         conn,
		liner:        liner.New(conn, rfcparser.MaxLiteralSize),
		backend:      backend,
		caps:         imap.ServerCapabilities(),
		sessionID:    sessionID,
		eventCh:      eventCh,
		panicHandler: panicHandler,
		version:      versionInfo,
		log:          logrus.WithField("sessionID", sessionID),
	}
}

func (s *Session) SetIncomingLogger(w io.Writer) {
	if w == nil {
		panic("setting a nil writer")
	}

	s.inLogger = w
}

func (s *Session) SetOutgoingLogger(w io.Writer) {
	if w == nil {
		panic("setting a nil writer")
	}

	s.outLogger = w
}

func (s *Session) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer s.done()

	if err := s.greet(); err != nil {
		return err
	}

	return s.serve(ctx, s.getCommandCh(ctx))
}

func (s *Session) serve(ctx context.Context, cmdCh <-chan command.Command) error {
	for {
		var cmd command.Command

		select {
		case res, ok := <-cmdCh:
			if !ok {
				return nil
			}

			cmd = res

		case <-ctx.Done():
			return ctx.Err()
		}

		if logout, ok := cmd.Payload.(*command.Logout); ok {
			return s.handleLogout(ctx, cmd.Tag, logout)
		}

		resCh := s.handleOther(withStartTime(ctx), cmd)

		for res := range resCh {
			if err := res.Send(s); err != nil {
				// The handler holds the state until it has written everything; teardown must wait for it.
				for range resCh {
				}

				return fmt.Errorf("failed to send response to client: %w", err)
			}
		}
	}
}

func (s *Session) WriteResponse(res response.Response) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	line := res.String()

	s.logOutgoing(line)

	if _, err := s.conn.Write([]byte(line + "\r\n")); err != nil {
		return err
	}

	return nil
}

func (s *Session) logIncoming(line string) {
	if s.inLogger == nil {
		return
	}

	writeLog(s.inLogger, "C", strconv.Itoa(s.sessionID), s.selectedName(), line)
}

func (s *Session) logOutgoing(line string) {
	if s.outLogger == nil {
		return
	}

	writeLog(s.outLogger, "S", strconv.Itoa(s.sessionID), s.selectedName(), line)
}

func (s *Session) selectedName() string {
	s.nameLock.Lock()
	defer s.nameLock.Unlock()

	if s.name == "" {
		return "--"
	}

	return s.name
}

func (s *Session) setSelectedName(name string) {
	s.nameLock.Lock()
	defer s.nameLock.Unlock()

	s.name = name
}

func (s *Session) done() {
	s.userLock.Lock()
	defer s.userLock.Unlock()

	if s.state != nil {
		s.state.Release()
		s.state = nil
	}

	if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.log.WithError(err).Error("Failed to close connection")
	}
}

func (s *Session) greet() error {
	return response.Ok().
		WithItems(response.ItemCapability(s.caps...)).
		WithMessage(fmt.Sprintf("%v - session ID %v", s.version, s.sessionID)).
		Send(s)
}
