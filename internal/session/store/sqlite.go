package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"teamsort/internal/session/models"
	"teamsort/pkg/platform/tx"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS snapshot_entries (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

// SQLiteStore keeps the snapshot in a local database file.
type SQLiteStore struct {
	db   *sql.DB
	opts options
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}
	return &SQLiteStore{db: db, opts: buildOptions(opts)}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, snapshot *models.Snapshot) error {
	groups, roster, err := snapshot.Encode()
	if err != nil {
		return err
	}
	const upsert = `
		INSERT INTO snapshot_entries (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	return tx.Run(ctx, s.db, func(t *sql.Tx) error {
		for key, value := range map[string][]byte{
			s.opts.groupsKey(): groups,
			s.opts.rosterKey(): roster,
		} {
			if _, err := t.ExecContext(ctx, upsert, key, value); err != nil {
				return fmt.Errorf("save snapshot entry %s: %w", key, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM snapshot_entries WHERE key IN (?, ?)`,
		s.opts.groupsKey(), s.opts.rosterKey(),
	)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows, s.opts)
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
