package db

import "errors"

var (
	ErrNotFound          = errors.New("value not found")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrMigrationFailed   = errors.New("migration failed")
)
