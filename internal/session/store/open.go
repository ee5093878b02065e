package store

import (
	"context"
	"database/sql"
	"fmt"

	"teamsort/internal/platform/config"
	"teamsort/internal/platform/redis"
	"teamsort/internal/session/models"
)

// Backend is a snapshot store as main sees it.
type Backend interface {
	Save(ctx context.Context, snapshot *models.Snapshot) error
	Load(ctx context.Context) (*models.Snapshot, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the backend selected by cfg and verifies it is reachable.
func Open(ctx context.Context, cfg config.Snapshot) (Backend, error) {
	opts := []Option{WithKeyPrefix(cfg.KeyPrefix)}

	switch cfg.Backend {
	case config.BackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		if client == nil {
			return nil, fmt.Errorf("redis snapshot backend requires REDIS_URL")
		}
		return &ownedRedisStore{RedisStore: NewRedisStore(client.Client, opts...), client: client}, nil

	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		st := NewPostgresStore(db, opts...)
		if err := st.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return st, nil

	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, opts...)

	default:
		return NewInMemoryStore(opts...), nil
	}
}

// ownedRedisStore closes the client it was opened with.
type ownedRedisStore struct {
	*RedisStore
	client *redis.Client
}

func (s *ownedRedisStore) Close() error {
	return s.client.Close()
}
