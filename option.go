package imapcore

import (
	"io"
	"time"

	"github.com/imapcore/imapcore/async"
	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/internal/bus"
	"github.com/imapcore/imapcore/limits"
	"github.com/imapcore/imapcore/profiling"
	"github.com/imapcore/imapcore/reporter"
	"github.com/imapcore/imapcore/store"
	"github.com/imapcore/imapcore/version"
)

// Option represents a type that can be used to configure the server.
type Option interface {
	config(*serverBuilder)
}

// WithDataDir instructs the server to keep its journal and message content in the given directory. By default a
// fresh temporary directory is used.
func WithDataDir(dir string) Option {
	return &withDataDir{
		dir: dir,
	}
}

type withDataDir struct {
	dir string
}

func (opt withDataDir) config(builder *serverBuilder) {
	builder.dir = opt.dir
}

// WithLogger instructs the server to write incoming and outgoing IMAP communication to the given io.Writers.
func WithLogger(in, out io.Writer) Option {
	return &withLogger{
		in:  in,
		out: out,
	}
}

type withLogger struct {
	in, out io.Writer
}

func (opt withLogger) config(builder *serverBuilder) {
	builder.inLogger = opt.in
	builder.outLogger = opt.out
}

type withVersionInfo struct {
	versionInfo version.Info
}

func (vi *withVersionInfo) config(builder *serverBuilder) {
	builder.versionInfo = vi.versionInfo
}

// WithVersionInfo sets the name and version announced in the greeting.
func WithVersionInfo(vmajor, vminor, vpatch int, name, vendor, supportURL string) Option {
	return &withVersionInfo{
		versionInfo: version.Info{
			Name: name,
			Version: version.Version{
				Major: vmajor,
				Minor: vminor,
				Patch: vpatch,
			},
			Vendor:     vendor,
			SupportURL: supportURL,
		},
	}
}

// WithStoreBuilder specifies how message content is stored. The default encrypts content on disk.
func WithStoreBuilder(builder store.Builder) Option {
	return &withStoreBuilder{
		storeBuilder: builder,
	}
}

type withStoreBuilder struct {
	storeBuilder store.Builder
}

func (opt withStoreBuilder) config(builder *serverBuilder) {
	builder.storeBuilder = opt.storeBuilder
}

// WithReporter instructs the server to forward unexpected failures to the given reporter.
func WithReporter(reporter reporter.Reporter) Option {
	return &withReporter{
		reporter: reporter,
	}
}

type withReporter struct {
	reporter reporter.Reporter
}

func (opt withReporter) config(builder *serverBuilder) {
	builder.reporter = opt.reporter
}

// WithPanicHandler sets the handler of panics raised on the server's goroutines.
func WithPanicHandler(panicHandler async.PanicHandler) Option {
	return &withPanicHandler{
		panicHandler: panicHandler,
	}
}

type withPanicHandler struct {
	panicHandler async.PanicHandler
}

func (opt withPanicHandler) config(builder *serverBuilder) {
	builder.panicHandler = opt.panicHandler
}

// WithIMAPLimits caps mailbox counts, message counts and UID ranges.
func WithIMAPLimits(limits limits.IMAP) Option {
	return &withIMAPLimits{
		limits: limits,
	}
}

type withIMAPLimits struct {
	limits limits.IMAP
}

func (opt withIMAPLimits) config(builder *serverBuilder) {
	builder.imapLimits = opt.limits
}

// WithUIDValidityGenerator sets how the UIDVALIDITY of new mailboxes is chosen.
func WithUIDValidityGenerator(generator imap.UIDValidityGenerator) Option {
	return &withUIDValidityGenerator{
		generator: generator,
	}
}

type withUIDValidityGenerator struct {
	generator imap.UIDValidityGenerator
}

func (opt withUIDValidityGenerator) config(builder *serverBuilder) {
	builder.uidValidityGenerator = opt.generator
}

// WithEchoOwnRemovals makes a session's own removals reappear as duplicate EXPUNGE responses on its next response.
// By default a session is never notified of its own removals twice.
func WithEchoOwnRemovals() Option {
	return &withEchoOwnRemovals{}
}

type withEchoOwnRemovals struct{}

func (withEchoOwnRemovals) config(builder *serverBuilder) {
	builder.echoPolicy = bus.EchoOwnRemovals
}

// WithInMemoryJournal keeps mailbox state in memory only; nothing survives a restart.
func WithInMemoryJournal() Option {
	return &withInMemoryJournal{}
}

type withInMemoryJournal struct{}

func (withInMemoryJournal) config(builder *serverBuilder) {
	builder.inMemoryJournal = true
}

// WithDatabaseDebug logs every journal query at debug level.
func WithDatabaseDebug() Option {
	return &withDatabaseDebug{}
}

type withDatabaseDebug struct{}

func (withDatabaseDebug) config(builder *serverBuilder) {
	builder.dbDebug = true
}

// WithLoginJailTime sets how long a username is blocked after repeated failed logins.
func WithLoginJailTime(d time.Duration) Option {
	return &withLoginJailTime{
		d: d,
	}
}

type withLoginJailTime struct {
	d time.Duration
}

func (opt withLoginJailTime) config(builder *serverBuilder) {
	builder.loginJailTime = opt.d
}

// WithCmdProfiler allows a specific CmdProfilerBuilder implementation to be specified for the server's execution.
func WithCmdProfiler(builder profiling.CmdProfilerBuilder) Option {
	return &withCmdProfilerBuilder{
		builder: builder,
	}
}

type withCmdProfilerBuilder struct {
	builder profiling.CmdProfilerBuilder
}

func (c withCmdProfilerBuilder) config(builder *serverBuilder) {
	builder.cmdExecProfBuilder = c.builder
}
