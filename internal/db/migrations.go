package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

type Migration interface {
	Run(ctx context.Context, qw QueryWrapper) error
}

var migrationList = []Migration{
	&migrationV0{},
}

type migrationV0 struct{}

func (migrationV0) Run(ctx context.Context, qw QueryWrapper) error {
	queries := []string{
		"CREATE TABLE IF NOT EXISTS `mailboxes` (" +
			"`id` INTEGER PRIMARY KEY AUTOINCREMENT, " +
			"`user_id` TEXT NOT NULL, " +
			"`name` TEXT NOT NULL, " +
			"`uid_validity` INTEGER NOT NULL, " +
			"`uid_next` INTEGER NOT NULL DEFAULT 1, " +
			"UNIQUE(`user_id`, `name`))",

		"CREATE TABLE IF NOT EXISTS `messages` (" +
			"`mailbox_id` INTEGER NOT NULL REFERENCES `mailboxes`(`id`) ON DELETE CASCADE, " +
			"`uid` INTEGER NOT NULL, " +
			"`content_id` TEXT NOT NULL, " +
			"PRIMARY KEY(`mailbox_id`, `uid`))",

		"CREATE TABLE IF NOT EXISTS `message_flags` (" +
			"`mailbox_id` INTEGER NOT NULL, " +
			"`uid` INTEGER NOT NULL, " +
			"`value` TEXT NOT NULL, " +
			"FOREIGN KEY(`mailbox_id`, `uid`) REFERENCES `messages`(`mailbox_id`, `uid`) ON DELETE CASCADE)",

		"CREATE INDEX IF NOT EXISTS `message_flags_message` ON `message_flags`(`mailbox_id`, `uid`)",

		"CREATE TABLE IF NOT EXISTS `imapcore_version` (`id` INTEGER PRIMARY KEY, `version` INTEGER NOT NULL)",
	}

	for _, query := range queries {
		if _, err := qw.ExecContext(ctx, query); err != nil {
			return err
		}
	}

	return nil
}

func RunMigrations(ctx context.Context, qw QueryWrapper) error {
	dbVersion, err := getDatabaseVersion(ctx, qw)
	if err != nil {
		return fmt.Errorf("failed to get db version: %w", err)
	}

	logrus.Debugf("DB Version is %v", dbVersion)

	for i := dbVersion + 1; i < len(migrationList); i++ {
		logrus.Debugf("Running migration for version %v", i)

		if err := migrationList[i].Run(ctx, qw); err != nil {
			return fmt.Errorf("failed to run migration %v: %w", i, err)
		}
	}

	if _, err := ExecQuery(ctx, qw,
		"INSERT OR REPLACE INTO `imapcore_version` (`id`, `version`) VALUES (0, ?)",
		len(migrationList)-1,
	); err != nil {
		return fmt.Errorf("failed to update db version: %w", err)
	}

	return nil
}

// getDatabaseVersion returns -1 if the version table does not exist yet.
func getDatabaseVersion(ctx context.Context, qw QueryWrapper) (int, error) {
	if _, err := MapQueryRow[string](ctx, qw,
		"SELECT `name` FROM sqlite_master WHERE `type` = 'table' AND `name` = 'imapcore_version'",
	); errors.Is(err, ErrNotFound) {
		return -1, nil
	} else if err != nil {
		return 0, err
	}

	version, err := MapQueryRow[int](ctx, qw, "SELECT `version` FROM `imapcore_version` WHERE `id` = 0")
	if errors.Is(err, ErrNotFound) {
		return -1, nil
	}

	return version, err
}
