package imapcore

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/imapcore/imapcore/async"
	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/internal/backend"
	"github.com/imapcore/imapcore/internal/bus"
	"github.com/imapcore/imapcore/internal/db"
	"github.com/imapcore/imapcore/internal/queue"
	"github.com/imapcore/imapcore/internal/session"
	mailstore "github.com/imapcore/imapcore/internal/store"
	"github.com/imapcore/imapcore/limits"
	"github.com/imapcore/imapcore/profiling"
	"github.com/imapcore/imapcore/reporter"
	"github.com/imapcore/imapcore/store"
	"github.com/imapcore/imapcore/version"
	"github.com/imapcore/imapcore/wait"
)

type serverBuilder struct {
	dir                  string
	inLogger             io.Writer
	outLogger            io.Writer
	versionInfo          version.Info
	storeBuilder         store.Builder
	reporter             reporter.Reporter
	panicHandler         async.PanicHandler
	imapLimits           limits.IMAP
	uidValidityGenerator imap.UIDValidityGenerator
	echoPolicy           bus.EchoPolicy
	inMemoryJournal      bool
	dbDebug              bool
	loginJailTime        time.Duration
	cmdExecProfBuilder   profiling.CmdProfilerBuilder
}

func newBuilder() (*serverBuilder, error) {
	return &serverBuilder{
		versionInfo:          version.Default(),
		storeBuilder:         &store.OnDiskStoreBuilder{},
		reporter:             &reporter.NullReporter{},
		panicHandler:         async.NoopPanicHandler{},
		imapLimits:           limits.DefaultLimits(),
		uidValidityGenerator: imap.DefaultEpochUIDValidityGenerator(),
		echoPolicy:           bus.SuppressEcho,
		loginJailTime:        10 * time.Second,
		cmdExecProfBuilder:   &profiling.NullCmdExecProfilerBuilder{},
	}, nil
}

func (builder *serverBuilder) build() (*Server, error) {
	if builder.dir == "" {
		dir, err := os.MkdirTemp("", "imapcore-*")
		if err != nil {
			return nil, err
		}

		builder.dir = dir
	}

	if err := os.MkdirAll(builder.dir, 0o700); err != nil {
		return nil, err
	}

	journal, err := builder.newJournal()
	if err != nil {
		return nil, err
	}

	backend := backend.New(backend.Config{
		DataDir:              filepath.Join(builder.dir, "store"),
		StoreBuilder:         builder.storeBuilder,
		Journal:              journal,
		Limits:               builder.imapLimits,
		UIDValidityGenerator: builder.uidValidityGenerator,
		EchoPolicy:           builder.echoPolicy,
		LoginJailTime:        builder.loginJailTime,
	})

	serveCtx, serveCancel := context.WithCancel(reporter.NewContextWithReporter(context.Background(), builder.reporter))

	return &Server{
		dir:          builder.dir,
		backend:      backend,
		listeners:    make(map[net.Listener]struct{}),
		sessions:     make(map[int]*session.Session),
		serveCtx:     serveCtx,
		serveCancel:  serveCancel,
		serveErrCh:   queue.NewQueuedChannel[error](1, 1, builder.panicHandler),
		serveWG:      wait.Group{PanicHandler: builder.panicHandler},
		inLogger:     builder.inLogger,
		outLogger:    builder.outLogger,
		versionInfo:  builder.versionInfo,
		reporter:     builder.reporter,
		panicHandler: builder.panicHandler,

		cmdExecProfBuilder: builder.cmdExecProfBuilder,
	}, nil
}

func (builder *serverBuilder) newJournal() (mailstore.Journal, error) {
	if builder.inMemoryJournal {
		return mailstore.NewNoopJournal(), nil
	}

	var opts []db.Option

	if builder.dbDebug {
		opts = append(opts, db.Debug())
	}

	return db.NewClient(context.Background(), filepath.Join(builder.dir, "imapcore.db"), opts...)
}
