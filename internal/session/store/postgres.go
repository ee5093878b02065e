package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"teamsort/internal/session/models"
	"teamsort/pkg/platform/sentinel"
	"teamsort/pkg/platform/tx"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS snapshot_entries (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// PostgresStore upserts both entries in one statement inside a transaction.
// A transaction carried by the context is joined instead of opening one.
type PostgresStore struct {
	db   *sql.DB
	opts options
}

func NewPostgresStore(db *sql.DB, opts ...Option) *PostgresStore {
	return &PostgresStore{db: db, opts: buildOptions(opts)}
}

// EnsureSchema creates the entries table if needed.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create snapshot schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, snapshot *models.Snapshot) error {
	groups, roster, err := snapshot.Encode()
	if err != nil {
		return err
	}
	query := `
		INSERT INTO snapshot_entries (key, value, updated_at)
		SELECT k, v::jsonb, now() FROM unnest($1::text[], $2::text[]) AS t(k, v)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	keys := []string{s.opts.groupsKey(), s.opts.rosterKey()}
	values := []string{string(groups), string(roster)}
	return tx.Run(ctx, s.db, func(t *sql.Tx) error {
		if _, err := t.ExecContext(ctx, query, pq.Array(keys), pq.Array(values)); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Load(ctx context.Context) (*models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM snapshot_entries WHERE key = ANY($1)`,
		pq.Array([]string{s.opts.groupsKey(), s.opts.rosterKey()}),
	)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows, s.opts)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanEntries(rows *sql.Rows, opts options) (*models.Snapshot, error) {
	entries := make(map[string][]byte, 2)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan snapshot entry: %w", err)
		}
		entries[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot entries: %w", err)
	}
	groups, okGroups := entries[opts.groupsKey()]
	roster, okRoster := entries[opts.rosterKey()]
	if !okGroups || !okRoster {
		return nil, sentinel.ErrNotFound
	}
	return models.DecodeSnapshot(groups, roster)
}
