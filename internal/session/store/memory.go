package store

import (
	"context"
	"sync"

	"teamsort/internal/session/models"
	"teamsort/pkg/platform/sentinel"
)

// InMemoryStore keeps the snapshot entries in process memory. It is the
// default backend when no external store is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
	opts    options
}

func NewInMemoryStore(opts ...Option) *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string][]byte),
		opts:    buildOptions(opts),
	}
}

func (s *InMemoryStore) Save(_ context.Context, snapshot *models.Snapshot) error {
	groups, roster, err := snapshot.Encode()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[s.opts.groupsKey()] = groups
	s.entries[s.opts.rosterKey()] = roster
	return nil
}

func (s *InMemoryStore) Load(_ context.Context) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups, okGroups := s.entries[s.opts.groupsKey()]
	roster, okRoster := s.entries[s.opts.rosterKey()]
	if !okGroups || !okRoster {
		return nil, sentinel.ErrNotFound
	}
	return models.DecodeSnapshot(groups, roster)
}

// Get returns the raw value stored under key.
func (s *InMemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return append([]byte(nil), v...), ok
}

func (s *InMemoryStore) Ping(context.Context) error { return nil }

func (s *InMemoryStore) Close() error { return nil }
