// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values set by middleware and read by handlers and services.
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey   struct{}
	operatorKey    struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyOperator    = operatorKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// RequestID returns the correlation id, or "" when unset.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Operator returns the authenticated operator name, or "" for anonymous
// requests.
func Operator(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyOperator).(string); ok {
		return v
	}
	return ""
}

func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, ContextKeyOperator, operator)
}

// Now returns the request-scoped time, falling back to time.Now.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
