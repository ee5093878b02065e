package audit

import (
	"context"
	"sync"

	id "teamsort/pkg/domain"
)

// InMemoryStore keeps events per session in process memory.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.SessionID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.SessionID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.SessionID] = append(s.events[event.SessionID], event)
	return nil
}

func (s *InMemoryStore) ListBySession(_ context.Context, sessionID id.SessionID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[sessionID]...), nil
}

// Actions returns the recorded actions for a session in emission order.
func (s *InMemoryStore) Actions(sessionID id.SessionID) []Action {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Action, 0, len(s.events[sessionID]))
	for _, e := range s.events[sessionID] {
		out = append(out, e.Action)
	}
	return out
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.SessionID][]Event)
}
