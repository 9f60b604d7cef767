package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Collection of SQL utilities to process rows and to convert SQL errors to package errors.

type RowScanner interface {
	Scan(args ...any) error
}

func MapQueryRowsFn[T any](ctx context.Context, qw QueryWrapper, query string, m func(RowScanner) (T, error), args ...any) ([]T, error) {
	rows, err := qw.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapSQLError(err)
	}

	defer rows.Close()

	var result []T

	for rows.Next() {
		v, err := m(rows)
		if err != nil {
			return nil, mapSQLError(err)
		}

		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return nil, mapSQLError(err)
	}

	return result, nil
}

func MapQueryRows[T any](ctx context.Context, qw QueryWrapper, query string, args ...any) ([]T, error) {
	return MapQueryRowsFn(ctx, qw, query, scanOne[T], args...)
}

func MapQueryRowFn[T any](ctx context.Context, qw QueryWrapper, query string, m func(RowScanner) (T, error), args ...any) (T, error) {
	v, err := m(qw.QueryRowContext(ctx, query, args...))
	if err != nil {
		var zero T

		return zero, mapSQLError(err)
	}

	return v, nil
}

func MapQueryRow[T any](ctx context.Context, qw QueryWrapper, query string, args ...any) (T, error) {
	return MapQueryRowFn(ctx, qw, query, scanOne[T], args...)
}

func ExecQuery(ctx context.Context, qw QueryWrapper, query string, args ...any) (int, error) {
	r, err := qw.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapSQLError(err)
	}

	affected, err := r.RowsAffected()
	if err != nil {
		return 0, mapSQLError(err)
	}

	return int(affected), nil
}

func ExecQueryAndCheckUpdatedNotZero(ctx context.Context, qw QueryWrapper, query string, args ...any) error {
	updated, err := ExecQuery(ctx, qw, query, args...)
	if err != nil {
		return err
	}

	if updated == 0 {
		return fmt.Errorf("%w: no values changed", ErrNotFound)
	}

	return nil
}

func scanOne[T any](scanner RowScanner) (T, error) {
	var v T

	err := scanner.Scan(&v)

	return v, err
}

func mapSQLError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return err
}
