package db

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"
)

// QueryWrapper is satisfied by *sql.DB, *sql.Tx and debugQueries.
type QueryWrapper interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// debugQueries logs every statement and its arguments before running it.
type debugQueries struct {
	qw  QueryWrapper
	log *logrus.Entry
}

func (d debugQueries) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	d.log.Debugf("query=%v args=%v", query, args)

	return d.qw.QueryContext(ctx, query, args...)
}

func (d debugQueries) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	d.log.Debugf("query=%v args=%v", query, args)

	return d.qw.QueryRowContext(ctx, query, args...)
}

func (d debugQueries) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	d.log.Debugf("exec=%v args=%v", query, args)

	return d.qw.ExecContext(ctx, query, args...)
}
