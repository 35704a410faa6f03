// Package dbx provides the small database abstractions shared by
// repositories: a DBTX interface satisfied by both *sql.DB and *sql.Tx, and
// helpers that run a function inside a transaction.
package dbx

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of database/sql used by the repositories.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Beginner starts transactions. *sql.DB implements it.
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx begins a transaction, runs fn with the transactional handle, and
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db Beginner, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// WithTxTimeout is WithTx bounded by timeout. The deadline covers begin,
// fn and commit; when it expires the driver aborts the statement in flight
// and the transaction is rolled back. A non-positive timeout means no bound.
func WithTxTimeout(ctx context.Context, db Beginner, timeout time.Duration, fn func(ctx context.Context, tx DBTX) error) error {
	if timeout <= 0 {
		return WithTx(ctx, db, nil, fn)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return WithTx(ctx, db, nil, fn)
}
