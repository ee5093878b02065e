// Package tx runs SQL work inside a transaction, joining one already carried
// by the context.
package tx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"teamsort/pkg/platform/sentinel"
)

type ctxKey struct{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(ctxKey{}).(*sql.Tx)
	return tx, ok
}

// Run calls fn inside the context's transaction when there is one. Otherwise
// it opens a transaction on db and commits it if fn succeeds. Failing to open
// the transaction is reported as sentinel.ErrUnavailable.
func Run(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	if existing, ok := From(ctx); ok {
		return fn(existing)
	}

	t, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	defer func() { _ = t.Rollback() }()

	if err := fn(t); err != nil {
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
