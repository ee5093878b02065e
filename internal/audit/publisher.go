package audit

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const defaultBufferSize = 256

// Publisher captures structured audit events. It is append-only and writes
// through to its store unless a buffer is configured, in which case a Worker
// drains the buffer.
type Publisher struct {
	store   Store
	inbox   chan Event
	logger  *slog.Logger
	now     func() time.Time
	dropped atomic.Int64
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithBuffer makes Emit non-blocking. Events emitted while the buffer is full
// are dropped and counted.
func WithBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size <= 0 {
			size = defaultBufferSize
		}
		p.inbox = make(chan Event, size)
	}
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) PublisherOption {
	return func(p *Publisher) {
		p.now = now
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = p.now()
	}
	if p.inbox == nil {
		return p.store.Append(ctx, base)
	}
	select {
	case p.inbox <- base:
	default:
		p.dropped.Add(1)
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, dropping event",
				"action", base.Action,
				"session_id", base.SessionID.String(),
			)
		}
	}
	return nil
}

// Inbox exposes the buffered channel for a Worker. Nil when unbuffered.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Dropped reports how many events were discarded because the buffer was full.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}
