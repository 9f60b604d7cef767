package imapcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/imapcore/imapcore/async"
	"github.com/imapcore/imapcore/events"
	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/internal/backend"
	"github.com/imapcore/imapcore/internal/metrics"
	"github.com/imapcore/imapcore/internal/queue"
	"github.com/imapcore/imapcore/internal/session"
	"github.com/imapcore/imapcore/logging"
	"github.com/imapcore/imapcore/profiling"
	"github.com/imapcore/imapcore/reporter"
	"github.com/imapcore/imapcore/version"
	"github.com/imapcore/imapcore/wait"
	"github.com/sirupsen/logrus"
)

// Server is the imapcore IMAP server.
type Server struct {
	// dir holds the path to all of the server's data.
	dir string

	// backend provides the server with access to users and their mailboxes.
	backend *backend.Backend

	// listeners holds all listeners on which the server is listening.
	listeners     map[net.Listener]struct{}
	listenersLock sync.Mutex

	// sessions holds all active IMAP sessions.
	sessions     map[int]*session.Session
	sessionsLock sync.RWMutex

	// nextID holds the ID that will be given to the next session.
	nextID     int
	nextIDLock sync.Mutex

	// serveCtx is cancelled when the server is closed; every session runs under it.
	serveCtx    context.Context
	serveCancel context.CancelFunc

	// serveErrCh collects errors that occur while serving clients.
	serveErrCh *queue.QueuedChannel[error]

	// serveWG keeps track of all goroutines started by Serve.
	serveWG wait.Group

	// inLogger and outLogger are used to log incoming and outgoing IMAP communications.
	inLogger, outLogger io.Writer

	// watchers holds streams of events.
	watchers     []*watcher
	watchersLock sync.RWMutex

	versionInfo  version.Info
	reporter     reporter.Reporter
	panicHandler async.PanicHandler

	// cmdExecProfBuilder creates a command profiler for each session.
	cmdExecProfBuilder profiling.CmdProfilerBuilder
}

// New creates a new server with the given options.
func New(withOpt ...Option) (*Server, error) {
	builder, err := newBuilder()
	if err != nil {
		return nil, err
	}

	for _, opt := range withOpt {
		opt.config(builder)
	}

	return builder.build()
}

// AddUser registers a user that can log in with the given credentials. Mailboxes journaled for the same username
// are restored.
func (s *Server) AddUser(ctx context.Context, username, password string) (string, error) {
	userID, err := s.backend.AddUser(ctx, username, password)
	if err != nil {
		return "", err
	}

	s.publish(events.UserAdded{
		UserID: userID,
	})

	return userID, nil
}

// CreateMailbox creates a mailbox for the given user.
func (s *Server) CreateMailbox(ctx context.Context, userID, name string) error {
	return s.backend.CreateMailbox(ctx, userID, name)
}

// Mailboxes returns the names of the user's mailboxes.
func (s *Server) Mailboxes(userID string) ([]string, error) {
	return s.backend.Mailboxes(userID)
}

// Deliver appends a message to the mailbox and returns its UID.
func (s *Server) Deliver(ctx context.Context, userID, mailbox string, literal []byte, flags ...string) (imap.UID, error) {
	return s.backend.Deliver(reporter.NewContextWithReporter(ctx, s.reporter), userID, mailbox, literal, flags...)
}

// SetFlag sets or clears a flag on a message. Flag names are not validated.
func (s *Server) SetFlag(ctx context.Context, userID, mailbox string, uid imap.UID, flag string, on bool) error {
	return s.backend.SetFlag(reporter.NewContextWithReporter(ctx, s.reporter), userID, mailbox, uid, flag, on)
}

// Content returns the literal stored for the message with the given UID. Messages that were expunged have none.
func (s *Server) Content(userID, mailbox string, uid imap.UID) ([]byte, error) {
	return s.backend.Content(userID, mailbox, uid)
}

// AddWatcher adds a new watcher which watches events of the given types.
// If no types are specified, the watcher watches all events.
func (s *Server) AddWatcher(ofType ...events.Event) <-chan events.Event {
	s.watchersLock.Lock()
	defer s.watchersLock.Unlock()

	watcher := newWatcher(s.panicHandler, ofType...)

	s.watchers = append(s.watchers, watcher)

	return watcher.getChannel()
}

// Serve serves connections accepted from the given listener.
// It stops serving when the context is canceled, the listener is closed, or the server is closed.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	if s.serveCtx.Err() != nil {
		return ErrServerClosed
	}

	s.addListener(l)

	s.serveWG.Go(func() {
		s.serve(ctx, l)
	})

	return nil
}

func (s *Server) serve(ctx context.Context, l net.Listener) {
	ctx, cancel := context.WithCancel(reporter.NewContextWithReporter(ctx, s.reporter))
	defer cancel()

	defer s.removeListener(l)

	connWG := wait.Group{PanicHandler: s.panicHandler}
	defer connWG.Wait()

	connWG.Go(func() {
		select {
		case <-ctx.Done():
		case <-s.serveCtx.Done():
		}

		cancel()
		s.removeListener(l)
	})

	for {
		conn, err := l.Accept()
		if err != nil {
			return
		}

		connWG.Go(func() {
			s.handleConn(ctx, conn)
		})
	}
}

// GetErrorCh returns the error channel.
func (s *Server) GetErrorCh() <-chan error {
	return s.serveErrCh.GetChannel()
}

// Close closes the server.
// It stops all listeners, ends every session, then closes the backend.
func (s *Server) Close(ctx context.Context) error {
	s.serveCancel()

	s.listenersLock.Lock()
	for l := range s.listeners {
		if err := l.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			logrus.WithError(err).Error("Failed to close listener")
		}
	}
	s.listenersLock.Unlock()

	s.serveWG.Wait()

	if err := s.backend.Close(ctx); err != nil {
		return fmt.Errorf("failed to close backend: %w", err)
	}

	s.serveErrCh.Close()

	s.watchersLock.Lock()
	for _, watcher := range s.watchers {
		watcher.close()
	}
	s.watchers = nil
	s.watchersLock.Unlock()

	logrus.Debug("Server was closed")

	return nil
}

// GetVersionInfo returns the version announced to clients.
func (s *Server) GetVersionInfo() version.Info {
	return s.versionInfo
}

// GetDataPath returns the path in which the server stores its data.
func (s *Server) GetDataPath() string {
	return s.dir
}

func (s *Server) addListener(l net.Listener) {
	s.listenersLock.Lock()
	defer s.listenersLock.Unlock()

	s.listeners[l] = struct{}{}

	s.publish(events.ListenerAdded{
		Addr: l.Addr(),
	})
}

func (s *Server) removeListener(l net.Listener) {
	s.listenersLock.Lock()
	defer s.listenersLock.Unlock()

	if _, ok := s.listeners[l]; !ok {
		return
	}

	delete(s.listeners, l)

	if err := l.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		logrus.WithError(err).Error("Failed to close listener")
	}

	s.publish(events.ListenerRemoved{
		Addr: l.Addr(),
	})
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	metrics.ConnectionsTotal.Inc()
	metrics.ConnectionsCurrent.Inc()
	defer metrics.ConnectionsCurrent.Dec()

	eventCh := s.newEventCh(ctx)
	defer close(eventCh)

	session, sessionID := s.addSession(conn, eventCh)
	defer s.removeSession(sessionID)

	profiler := s.cmdExecProfBuilder.New()
	defer s.cmdExecProfBuilder.Collect(profiler)

	logging.DoAnnotate(profiling.WithProfiler(ctx, profiler), func(ctx context.Context) {
		if err := session.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.serveErrCh.Enqueue(err)
		}
	}, logging.Labels{
		"Action":    "Serve",
		"SessionID": sessionID,
	})
}

func (s *Server) addSession(conn net.Conn, eventCh chan<- events.Event) (*session.Session, int) {
	s.sessionsLock.Lock()
	defer s.sessionsLock.Unlock()

	nextID := s.getNextID()

	s.sessions[nextID] = session.New(conn, s.backend, nextID, s.versionInfo, s.panicHandler, eventCh)

	if s.inLogger != nil {
		s.sessions[nextID].SetIncomingLogger(s.inLogger)
	}

	if s.outLogger != nil {
		s.sessions[nextID].SetOutgoingLogger(s.outLogger)
	}

	s.publish(events.SessionAdded{
		SessionID:  nextID,
		LocalAddr:  conn.LocalAddr(),
		RemoteAddr: conn.RemoteAddr(),
	})

	return s.sessions[nextID], nextID
}

func (s *Server) removeSession(sessionID int) {
	s.sessionsLock.Lock()
	defer s.sessionsLock.Unlock()

	delete(s.sessions, sessionID)

	s.publish(events.SessionRemoved{
		SessionID: sessionID,
	})
}

func (s *Server) getNextID() int {
	s.nextIDLock.Lock()
	defer s.nextIDLock.Unlock()

	s.nextID++

	return s.nextID
}

// newEventCh returns a channel whose events are forwarded to the watchers until it is closed.
func (s *Server) newEventCh(ctx context.Context) chan events.Event {
	eventCh := make(chan events.Event)

	logging.GoAnnotate(ctx, func(ctx context.Context) {
		defer async.HandlePanic(s.panicHandler)

		for event := range eventCh {
			s.publish(event)
		}
	}, logging.Labels{
		"Action": "Publishing events",
	})

	return eventCh
}

func (s *Server) publish(event events.Event) {
	s.watchersLock.RLock()
	defer s.watchersLock.RUnlock()

	for _, watcher := range s.watchers {
		if watcher.isWatching(event) {
			if ok := watcher.send(event); !ok {
				logrus.WithField("event", event).Warn("Failed to send event to watcher")
			}
		}
	}
}
