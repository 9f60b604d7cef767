package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/imapcore/imapcore"
	"github.com/imapcore/imapcore/config"
	"github.com/imapcore/imapcore/imap"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

var (
	configFlag      = flag.String("config", "", "Path to the TOML configuration file.")
	envFlag         = flag.String("env", ".env", "Path to a .env file with IMAPCORE_* overrides.")
	cpuProfileFlag  = flag.Bool("profile-cpu", false, "Enable CPU profiling.")
	memProfileFlag  = flag.Bool("profile-mem", false, "Enable memory profiling.")
	lockProfileFlag = flag.Bool("profile-lock", false, "Enable lock profiling.")
	profilePathFlag = flag.String("profile-path", "", "Path where to write profile data.")
	seedFlag        = flag.String("seed", "", "Path to an mbox file delivered into the INBOX of the seed user on startup.")
	seedUserFlag    = flag.String("seed-user", "", "User receiving the seeded messages. Defaults to the first configured user.")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		logrus.WithError(err).Fatal("imapcore failed")
	}
}

func run() error {
	if err := config.LoadEnv(*envFlag); err != nil {
		return err
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}

	logrus.SetLevel(cfg.Level())

	if *cpuProfileFlag {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profilePathFlag)).Stop()
	}

	if *memProfileFlag {
		defer profile.Start(profile.MemProfile, profile.MemProfileAllocs, profile.ProfilePath(*profilePathFlag)).Stop()
	}

	if *lockProfileFlag {
		defer profile.Start(profile.BlockProfile, profile.ProfilePath(*profilePathFlag)).Stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server, err := imapcore.New(cfg.Options()...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	defer func() {
		if err := server.Close(context.Background()); err != nil {
			logrus.WithError(err).Error("Failed to close server")
		}
	}()

	userIDs, err := addUsers(ctx, server, cfg.Users)
	if err != nil {
		return err
	}

	if *seedFlag != "" {
		if err := seed(ctx, server, userIDs, *seedFlag, *seedUserFlag, cfg.Users); err != nil {
			return err
		}
	}

	if cfg.Metrics.Listen != "" {
		metricsServer := serveMetrics(cfg.Metrics)
		defer metricsServer.Close()
	}

	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	if err := server.Serve(ctx, listener); err != nil {
		return err
	}

	logrus.WithField("addr", listener.Addr()).WithField("version", server.GetVersionInfo()).Info("Server is listening")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Shutting down")
			return nil

		case err, ok := <-server.GetErrorCh():
			if !ok {
				return nil
			}

			logrus.WithError(err).Error("Error while serving")
		}
	}
}

func addUsers(ctx context.Context, server *imapcore.Server, users []config.UserConfig) (map[string]string, error) {
	userIDs := make(map[string]string)

	for _, user := range users {
		userID, err := server.AddUser(ctx, user.Username, user.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to add user %v: %w", user.Username, err)
		}

		existing, err := server.Mailboxes(userID)
		if err != nil {
			return nil, err
		}

		for _, name := range user.Mailboxes {
			if slices.Contains(existing, name) {
				continue
			}

			if err := server.CreateMailbox(ctx, userID, name); err != nil {
				return nil, fmt.Errorf("failed to create mailbox %v for %v: %w", name, user.Username, err)
			}
		}

		logrus.WithField("userID", userID).WithField("username", user.Username).Info("User added to server")

		userIDs[user.Username] = userID
	}

	return userIDs, nil
}

// seed delivers every message of the mbox file into the INBOX of the chosen user.
func seed(ctx context.Context, server *imapcore.Server, userIDs map[string]string, path, username string, users []config.UserConfig) error {
	if username == "" {
		if len(users) == 0 {
			return errors.New("no user to seed")
		}

		username = users[0].Username
	}

	userID, ok := userIDs[username]
	if !ok {
		return fmt.Errorf("no such user to seed: %v", username)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	mr := mbox.NewReader(f)

	var count int

	for {
		r, err := mr.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return fmt.Errorf("failed to read mbox: %w", err)
		}

		literal, err := io.ReadAll(r)
		if err != nil {
			return err
		}

		if _, err := server.Deliver(ctx, userID, imap.Inbox, literal); err != nil {
			return fmt.Errorf("failed to deliver message: %w", err)
		}

		count++
	}

	logrus.WithField("count", count).WithField("username", username).Info("Seeded INBOX")

	return nil
}

func serveMetrics(cfg config.MetricsConfig) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("Metrics server failed")
		}
	}()

	logrus.WithField("addr", cfg.Listen).WithField("path", cfg.Path).Info("Serving metrics")

	return server
}
