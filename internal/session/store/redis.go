package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"teamsort/internal/session/models"
	"teamsort/pkg/platform/sentinel"
)

// RedisStore writes the snapshot entries in a MULTI/EXEC transaction.
type RedisStore struct {
	client *redis.Client
	opts   options
}

func NewRedisStore(client *redis.Client, opts ...Option) *RedisStore {
	return &RedisStore{client: client, opts: buildOptions(opts)}
}

func (s *RedisStore) Save(ctx context.Context, snapshot *models.Snapshot) error {
	groups, roster, err := snapshot.Encode()
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.opts.groupsKey(), groups, 0)
		pipe.Set(ctx, s.opts.rosterKey(), roster, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (*models.Snapshot, error) {
	values, err := s.client.MGet(ctx, s.opts.groupsKey(), s.opts.rosterKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	groups, okGroups := values[0].(string)
	roster, okRoster := values[1].(string)
	if !okGroups || !okRoster {
		return nil, sentinel.ErrNotFound
	}
	return models.DecodeSnapshot([]byte(groups), []byte(roster))
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close is a no-op; the client lifecycle is managed by the caller.
func (s *RedisStore) Close() error { return nil }
