//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"teamsort/pkg/testutil/containers"
)

func TestRedisSnapshotStore(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	suite.Run(t, &SnapshotStoreSuite{newStore: func() snapshotBackend {
		if err := rc.FlushAll(context.Background()); err != nil {
			t.Fatalf("flush redis: %v", err)
		}
		return NewRedisStore(rc.Client.Client, WithKeyPrefix("teamsort:"))
	}})
}

func TestPostgresSnapshotStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	suite.Run(t, &SnapshotStoreSuite{newStore: func() snapshotBackend {
		st := NewPostgresStore(pg.DB)
		if err := st.EnsureSchema(context.Background()); err != nil {
			t.Fatalf("ensure schema: %v", err)
		}
		if _, err := pg.DB.Exec(`TRUNCATE snapshot_entries`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return &noCloseStore{PostgresStore: st}
	}})
}

// noCloseStore keeps the shared container pool open across suite tests.
type noCloseStore struct {
	*PostgresStore
}

func (noCloseStore) Close() error { return nil }
