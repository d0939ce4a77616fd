// Package tx carries a caller-owned SQL transaction through a context so
// event-log writes can ride along with the caller's own statements and share
// their fate.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores the transaction in the context. Stores that understand the
// ride-along execute against it instead of their own pool.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts the transaction if the caller put one there.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Run executes fn inside a transaction carried by the context passed to it:
// commit when fn succeeds, roll back when it fails.
func Run(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	dbTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(WithTx(ctx, dbTx)); err != nil {
		_ = dbTx.Rollback()
		return err
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
