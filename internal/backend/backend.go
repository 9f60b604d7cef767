// Package backend owns the users of the server: their credentials, mailboxes and message content.
package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/internal/bus"
	"github.com/imapcore/imapcore/internal/metrics"
	"github.com/imapcore/imapcore/internal/state"
	mailstore "github.com/imapcore/imapcore/internal/store"
	"github.com/imapcore/imapcore/limits"
	"github.com/imapcore/imapcore/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// maxLoginAttempts is the number of consecutive failed logins after which a username is jailed.
const maxLoginAttempts = 3

// userNamespace derives stable user IDs from usernames so that journaled mailboxes survive a restart.
var userNamespace = uuid.MustParse("5b1bc5a6-8e8c-4b3d-9a2a-0c3e6b0e2f41")

type Config struct {
	DataDir              string
	StoreBuilder         store.Builder
	Journal              mailstore.Journal
	Limits               limits.IMAP
	UIDValidityGenerator imap.UIDValidityGenerator
	EchoPolicy           bus.EchoPolicy
	LoginJailTime        time.Duration
}

type Backend struct {
	cfg Config

	// users holds all registered backend users, by user ID.
	users map[string]*user

	// usernames maps lowercase usernames onto user IDs.
	usernames map[string]string

	usersLock sync.RWMutex

	loginLock     sync.Mutex
	loginFailures map[string]loginFailure
}

type loginFailure struct {
	count int
	last  time.Time
}

func New(cfg Config) *Backend {
	return &Backend{
		cfg:           cfg,
		users:         make(map[string]*user),
		usernames:     make(map[string]string),
		loginFailures: make(map[string]loginFailure),
	}
}

// AddUser registers a user and restores its mailboxes from the journal. The returned ID is derived from the
// username and is the same every time the user is added.
func (b *Backend) AddUser(ctx context.Context, username, password string) (string, error) {
	b.usersLock.Lock()
	defer b.usersLock.Unlock()

	key := strings.ToLower(username)

	if _, ok := b.usernames[key]; ok {
		return "", fmt.Errorf("%w: %v", ErrUserExists, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.NewSHA1(userNamespace, []byte(key)).String()

	registry, err := mailstore.NewRegistry(ctx, userID, mailstore.RegistryConfig{
		Journal:              b.cfg.Journal,
		Limits:               b.cfg.Limits,
		UIDValidityGenerator: b.cfg.UIDValidityGenerator,
		EchoPolicy:           b.cfg.EchoPolicy,
	})
	if err != nil {
		return "", fmt.Errorf("failed to load mailboxes: %w", err)
	}

	content, err := b.cfg.StoreBuilder.New(b.cfg.DataDir, userID, []byte(password))
	if err != nil {
		return "", fmt.Errorf("failed to open content store: %w", err)
	}

	b.users[userID] = newUser(userID, username, hash, registry, content)
	b.usernames[key] = userID

	logrus.WithField("userID", userID).WithField("username", username).Debug("User added")

	return userID, nil
}

// GetState authenticates the user and returns a fresh session state for it.
func (b *Backend) GetState(username, password string, sessionID int) (*state.State, error) {
	if err := b.checkJail(username); err != nil {
		metrics.AuthenticationAttempts.WithLabelValues("blocked").Inc()
		return nil, err
	}

	user, err := b.authenticate(username, password)
	if err != nil {
		b.recordFailure(username)
		metrics.AuthenticationAttempts.WithLabelValues("failure").Inc()

		return nil, err
	}

	b.clearFailures(username)
	metrics.AuthenticationAttempts.WithLabelValues("success").Inc()

	logrus.
		WithField("userID", user.userID).
		WithField("sessionID", sessionID).
		Debug("Creating new IMAP state")

	return state.NewState(user.registry, user.content), nil
}

func (b *Backend) authenticate(username, password string) (*user, error) {
	b.usersLock.RLock()
	defer b.usersLock.RUnlock()

	userID, ok := b.usernames[strings.ToLower(username)]
	if !ok {
		return nil, ErrBadCredentials
	}

	user := b.users[userID]

	if err := bcrypt.CompareHashAndPassword(user.hash, []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	return user, nil
}

func (b *Backend) checkJail(username string) error {
	b.loginLock.Lock()
	defer b.loginLock.Unlock()

	failure, ok := b.loginFailures[strings.ToLower(username)]
	if !ok || failure.count < maxLoginAttempts {
		return nil
	}

	if time.Since(failure.last) < b.cfg.LoginJailTime {
		return ErrLoginBlocked
	}

	return nil
}

func (b *Backend) recordFailure(username string) {
	b.loginLock.Lock()
	defer b.loginLock.Unlock()

	key := strings.ToLower(username)

	failure := b.loginFailures[key]
	failure.count++
	failure.last = time.Now()

	b.loginFailures[key] = failure
}

func (b *Backend) clearFailures(username string) {
	b.loginLock.Lock()
	defer b.loginLock.Unlock()

	delete(b.loginFailures, strings.ToLower(username))
}

func (b *Backend) getUser(userID string) (*user, error) {
	b.usersLock.RLock()
	defer b.usersLock.RUnlock()

	user, ok := b.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNoSuchUser, userID)
	}

	return user, nil
}

func (b *Backend) Close(ctx context.Context) error {
	b.usersLock.Lock()
	defer b.usersLock.Unlock()

	for userID, user := range b.users {
		if err := user.close(); err != nil {
			logrus.WithError(err).WithField("userID", userID).Error("Failed to close user")
		}

		delete(b.users, userID)
	}

	b.usernames = make(map[string]string)

	if err := b.cfg.Journal.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}

	return nil
}
