package audit

import (
	"context"
	"log/slog"
	"sync/atomic"

	"teamsort/pkg/platform/circuit"
)

// Worker consumes audit events from a channel and persists them.
type Worker struct {
	store    Store
	inbox    <-chan Event
	logger   *slog.Logger
	breaker  *circuit.Breaker
	fallback Store
	diverted atomic.Int64
}

type WorkerOption func(*Worker)

// WithBreaker trips after repeated store failures. While open, events go to
// the fallback store instead of the primary.
func WithBreaker(b *circuit.Breaker) WorkerOption {
	return func(w *Worker) {
		w.breaker = b
	}
}

// WithFallback sets where events land while the breaker is open.
func WithFallback(store Store) WorkerOption {
	return func(w *Worker) {
		w.fallback = store
	}
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger, opts ...WorkerOption) *Worker {
	w := &Worker{store: store, inbox: inbox, logger: logger}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run drains the inbox until ctx is cancelled. A failed append is logged and
// skipped so one bad sink write does not stall the session.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			w.persist(ctx, event)
		}
	}
}

// Diverted reports how many events skipped the primary store.
func (w *Worker) Diverted() int64 {
	return w.diverted.Load()
}

func (w *Worker) persist(ctx context.Context, event Event) {
	if w.breaker != nil && !w.breaker.Allow() {
		w.divert(ctx, event)
		return
	}

	err := w.store.Append(ctx, event)
	if w.breaker == nil {
		if err != nil {
			w.logFailure(ctx, event, err)
		}
		return
	}

	if err == nil {
		if _, change := w.breaker.RecordSuccess(); change.Closed && w.logger != nil {
			w.logger.InfoContext(ctx, "audit sink recovered", "breaker", w.breaker.Name())
		}
		return
	}

	w.logFailure(ctx, event, err)
	useFallback, change := w.breaker.RecordFailure()
	if change.Opened && w.logger != nil {
		w.logger.WarnContext(ctx, "audit sink breaker opened", "breaker", w.breaker.Name())
	}
	if useFallback {
		w.divert(ctx, event)
	}
}

func (w *Worker) divert(ctx context.Context, event Event) {
	w.diverted.Add(1)
	if w.fallback == nil {
		return
	}
	if err := w.fallback.Append(ctx, event); err != nil {
		w.logFailure(ctx, event, err)
	}
}

func (w *Worker) logFailure(ctx context.Context, event Event, err error) {
	if w.logger == nil {
		return
	}
	w.logger.ErrorContext(ctx, "failed to persist audit event",
		"action", event.Action,
		"session_id", event.SessionID.String(),
		"error", err,
	)
}
