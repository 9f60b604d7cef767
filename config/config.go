// Package config loads the settings of the imapcore binary from a TOML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/imapcore/imapcore"
	"github.com/imapcore/imapcore/store"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownStore   = errors.New("unknown store")
	ErrUnknownJournal = errors.New("unknown journal")
	ErrNoListen       = errors.New("no listen address")
	ErrBadUser        = errors.New("user needs a username and a password")
)

const (
	StoreDisk   = "disk"
	StoreBadger = "badger"
	StoreMemory = "memory"

	JournalSQLite = "sqlite"
	JournalMemory = "memory"
)

type Config struct {
	Listen          string        `toml:"listen"`
	DataDir         string        `toml:"data_dir"`
	LogLevel        string        `toml:"log_level"`
	Store           string        `toml:"store"`
	Journal         string        `toml:"journal"`
	CompressContent bool          `toml:"compress_content"`
	StoreWorkers    int           `toml:"store_workers"`
	EchoOwnRemovals bool          `toml:"echo_own_removals"`
	LoginJailTime   time.Duration `toml:"login_jail_time"`
	LogIMAP         bool          `toml:"log_imap"`
	DatabaseDebug   bool          `toml:"database_debug"`

	Metrics MetricsConfig `toml:"metrics"`
	Users   []UserConfig  `toml:"users"`
}

type MetricsConfig struct {
	Listen string `toml:"listen"`
	Path   string `toml:"path"`
}

type UserConfig struct {
	Username  string   `toml:"username"`
	Password  string   `toml:"password"`
	Mailboxes []string `toml:"mailboxes"`
}

func Default() Config {
	return Config{
		Listen:        "localhost:1143",
		DataDir:       "./imapcore-data",
		LogLevel:      "info",
		Store:         StoreDisk,
		Journal:       JournalSQLite,
		LoginJailTime: 10 * time.Second,
		StoreWorkers:  runtime.NumCPU(),
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}

// Load reads the configuration at path on top of the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to decode config file %v: %w", path, err)
		}

		for _, key := range meta.Undecoded() {
			logrus.WithField("key", key.String()).Warn("Ignoring unknown configuration key")
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadEnv loads the given .env files into the environment. Missing files are skipped.
// Variables already set in the environment are kept.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return fmt.Errorf("failed to load %v: %w", path, err)
		}
	}

	return nil
}

func (cfg *Config) applyEnv() error {
	setString(&cfg.Listen, "IMAPCORE_LISTEN")
	setString(&cfg.DataDir, "IMAPCORE_DATA_DIR")
	setString(&cfg.LogLevel, "IMAPCORE_LOG_LEVEL")
	setString(&cfg.Store, "IMAPCORE_STORE")
	setString(&cfg.Journal, "IMAPCORE_JOURNAL")
	setString(&cfg.Metrics.Listen, "IMAPCORE_METRICS_LISTEN")

	if val, ok := os.LookupEnv("IMAPCORE_ECHO_OWN_REMOVALS"); ok {
		echo, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid IMAPCORE_ECHO_OWN_REMOVALS: %w", err)
		}

		cfg.EchoOwnRemovals = echo
	}

	if val, ok := os.LookupEnv("IMAPCORE_LOGIN_JAIL_TIME"); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid IMAPCORE_LOGIN_JAIL_TIME: %w", err)
		}

		cfg.LoginJailTime = d
	}

	// IMAPCORE_USER and IMAPCORE_PASSWORD add one more user.
	if username, ok := os.LookupEnv("IMAPCORE_USER"); ok {
		cfg.Users = append(cfg.Users, UserConfig{
			Username: username,
			Password: os.Getenv("IMAPCORE_PASSWORD"),
		})
	}

	return nil
}

func setString(dst *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(val)
	}
}

func (cfg Config) Validate() error {
	if cfg.Listen == "" {
		return ErrNoListen
	}

	switch cfg.Store {
	case StoreDisk, StoreBadger, StoreMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Store)
	}

	switch cfg.Journal {
	case JournalSQLite, JournalMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJournal, cfg.Journal)
	}

	for _, user := range cfg.Users {
		if user.Username == "" || user.Password == "" {
			return fmt.Errorf("%w: %q", ErrBadUser, user.Username)
		}
	}

	return nil
}

// Level returns the configured log level, falling back to info.
func (cfg Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}

	return level
}

// StoreBuilder returns the builder of the configured content store.
func (cfg Config) StoreBuilder() store.Builder {
	switch cfg.Store {
	case StoreBadger:
		return &store.BadgerStoreBuilder{}

	case StoreMemory:
		return &store.InMemoryStoreBuilder{}

	default:
		var opts []store.Option

		if cfg.StoreWorkers > 0 {
			opts = append(opts, store.WithSemaphore(store.NewSemaphore(cfg.StoreWorkers)))
		}

		if cfg.CompressContent {
			opts = append(opts, store.WithCompressor(store.ZLibCompressor{}))
		}

		return &store.OnDiskStoreBuilder{Options: opts}
	}
}

// Options returns the server options described by the configuration.
func (cfg Config) Options() []imapcore.Option {
	opts := []imapcore.Option{
		imapcore.WithDataDir(cfg.DataDir),
		imapcore.WithStoreBuilder(cfg.StoreBuilder()),
		imapcore.WithLoginJailTime(cfg.LoginJailTime),
	}

	if cfg.Journal == JournalMemory {
		opts = append(opts, imapcore.WithInMemoryJournal())
	}

	if cfg.EchoOwnRemovals {
		opts = append(opts, imapcore.WithEchoOwnRemovals())
	}

	if cfg.DatabaseDebug {
		opts = append(opts, imapcore.WithDatabaseDebug())
	}

	if cfg.LogIMAP {
		opts = append(opts, imapcore.WithLogger(
			logrus.StandardLogger().WriterLevel(logrus.TraceLevel),
			logrus.StandardLogger().WriterLevel(logrus.TraceLevel),
		))
	}

	return opts
}
