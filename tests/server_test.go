package tests

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/emersion/go-imap/client"
	"github.com/imapcore/imapcore"
	"github.com/imapcore/imapcore/events"
	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/logging"
	"github.com/imapcore/imapcore/store"
	"github.com/imapcore/imapcore/version"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type credentials struct {
	username string
	password string
}

var testServerVersionInfo = version.Info{
	Name:       "imapcore-test-server",
	Version:    version.Version{Major: 1, Minor: 1, Patch: 1},
	Vendor:     "imapcore",
	SupportURL: "",
}

type serverOptions struct {
	credentials    []credentials
	loginJailTime  time.Duration
	dataDir        string
	storeBuilder   store.Builder
	echoOwnRemoval bool
	onDiskJournal  bool
}

func (s *serverOptions) defaultUsername() string {
	return s.credentials[0].username
}

func (s *serverOptions) defaultPassword() string {
	return s.credentials[0].password
}

type serverOption interface {
	apply(options *serverOptions)
}

type dataDirOption struct {
	dir string
}

func (opt *dataDirOption) apply(options *serverOptions) {
	options.dataDir = opt.dir
	options.onDiskJournal = true
}

type credentialsServerOption struct {
	credentials []credentials
}

func (c *credentialsServerOption) apply(options *serverOptions) {
	options.credentials = c.credentials
}

type storeBuilderOption struct {
	builder store.Builder
}

func (s *storeBuilderOption) apply(options *serverOptions) {
	options.storeBuilder = s.builder
}

type echoOwnRemovalOption struct{}

func (echoOwnRemovalOption) apply(options *serverOptions) {
	options.echoOwnRemoval = true
}

type loginJailTimeOption struct {
	d time.Duration
}

func (opt *loginJailTimeOption) apply(options *serverOptions) {
	options.loginJailTime = opt.d
}

// withDataDir keeps the server's data in the given directory and journals mailboxes on disk, so that a second
// server started on the same directory sees them.
func withDataDir(dir string) serverOption {
	return &dataDirOption{dir: dir}
}

func withCredentials(credentials ...credentials) serverOption {
	return &credentialsServerOption{credentials: credentials}
}

func withStoreBuilder(builder store.Builder) serverOption {
	return &storeBuilderOption{builder: builder}
}

func withEchoOwnRemovals() serverOption {
	return &echoOwnRemovalOption{}
}

func withLoginJailTime(d time.Duration) serverOption {
	return &loginJailTimeOption{d: d}
}

func defaultServerOptions(tb testing.TB, modifiers ...serverOption) *serverOptions {
	options := &serverOptions{
		credentials: []credentials{{
			username: "user",
			password: "pass",
		}},
		loginJailTime: time.Second,
		dataDir:       tb.TempDir(),
		storeBuilder:  &store.InMemoryStoreBuilder{},
	}

	for _, op := range modifiers {
		op.apply(options)
	}

	return options
}

// runServer initializes and starts the mailserver.
func runServer(tb testing.TB, options *serverOptions, tests func(session *testSession)) {
	loggerIn := logrus.StandardLogger().WriterLevel(logrus.TraceLevel)
	defer loggerIn.Close()

	loggerOut := logrus.StandardLogger().WriterLevel(logrus.TraceLevel)
	defer loggerOut.Close()

	logrus.Tracef("imapcore data dir: %v", options.dataDir)

	serverOptions := []imapcore.Option{
		imapcore.WithDataDir(options.dataDir),
		imapcore.WithLoginJailTime(options.loginJailTime),
		imapcore.WithLogger(
			loggerIn,
			loggerOut,
		),
		imapcore.WithVersionInfo(
			testServerVersionInfo.Version.Major,
			testServerVersionInfo.Version.Minor,
			testServerVersionInfo.Version.Patch,
			testServerVersionInfo.Name,
			testServerVersionInfo.Vendor,
			testServerVersionInfo.SupportURL,
		),
		imapcore.WithStoreBuilder(options.storeBuilder),
		imapcore.WithUIDValidityGenerator(imap.NewFixedUIDValidityGenerator(1)),
	}

	if !options.onDiskJournal {
		serverOptions = append(serverOptions, imapcore.WithInMemoryJournal())
	}

	if options.echoOwnRemoval {
		serverOptions = append(serverOptions, imapcore.WithEchoOwnRemovals())
	}

	server, err := imapcore.New(serverOptions...)
	require.NoError(tb, err)

	// Watch server events.
	eventCh := server.AddWatcher(events.Expunged{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	userIDs := make(map[string]string)

	for _, creds := range options.credentials {
		userID, err := server.AddUser(ctx, creds.username, creds.password)
		require.NoError(tb, err)

		userIDs[creds.username] = userID
	}

	listener, err := net.Listen("tcp", net.JoinHostPort("localhost", "0"))
	require.NoError(tb, err)

	// Start the server.
	require.NoError(tb, server.Serve(ctx, listener))

	// Run the test against the server.
	logging.DoAnnotate(ctx, func(context.Context) {
		tests(newTestSession(tb, listener, server, eventCh, userIDs, options))
	}, logging.Labels{
		"Action": "Running imapcore tests",
	})

	// Expect the server to shut down successfully when closed.
	require.NoError(tb, server.Close(ctx))
	require.NoError(tb, <-server.GetErrorCh())
}

func withConnections(tb testing.TB, s *testSession, connIDs []int, tests func(map[int]*testConnection)) {
	conns := make(map[int]*testConnection)

	for _, connID := range connIDs {
		conns[connID] = s.newConnection()
	}

	tests(conns)

	for _, connection := range conns {
		require.NoError(tb, connection.disconnect())
	}
}

func withClients(tb testing.TB, s *testSession, connIDs []int, tests func(map[int]*client.Client)) {
	clients := make(map[int]*client.Client)

	for _, connID := range connIDs {
		clients[connID] = s.newClient()
	}

	tests(clients)

	for _, client := range clients {
		require.NoError(tb, client.Logout())
	}
}
