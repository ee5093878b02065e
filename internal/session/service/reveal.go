package service

import (
	"context"
	"sync"
	"time"

	id "teamsort/pkg/domain"
)

// revealScheduler runs at most one delayed reveal per session. Scheduling a
// new reveal for a session cancels the previous one.
type revealScheduler struct {
	mu    sync.Mutex
	tasks map[id.SessionID]*revealTask
	wg    sync.WaitGroup
}

type revealTask struct {
	cancel context.CancelFunc
}

func newRevealScheduler() *revealScheduler {
	return &revealScheduler{tasks: make(map[id.SessionID]*revealTask)}
}

// Schedule runs fn after delay unless the task is cancelled first. fn runs on
// its own goroutine and must do its own locking.
func (s *revealScheduler) Schedule(key id.SessionID, delay time.Duration, fn func()) {
	ctx, cancel := context.WithCancel(context.Background())
	task := &revealTask{cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.tasks[key]; ok {
		prev.cancel()
	}
	s.tasks[key] = task
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.finish(key, task)

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-timer.C:
			fn()
		}
	}()
}

// Cancel stops the pending task for key. It reports whether one was pending.
// It does not wait for the goroutine to exit.
func (s *revealScheduler) Cancel(key id.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[key]
	if !ok {
		return false
	}
	task.cancel()
	delete(s.tasks, key)
	return true
}

// Pending reports whether a reveal is scheduled for key.
func (s *revealScheduler) Pending(key id.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

// Shutdown cancels every task and waits for their goroutines to exit. Do not
// call it while holding a lock that a task callback acquires.
func (s *revealScheduler) Shutdown() {
	s.mu.Lock()
	for key, task := range s.tasks {
		task.cancel()
		delete(s.tasks, key)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *revealScheduler) finish(key id.SessionID, task *revealTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.tasks[key]; ok && current == task {
		delete(s.tasks, key)
	}
	task.cancel()
}
