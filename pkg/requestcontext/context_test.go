package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessorsDefaults(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, Operator(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestAccessorsRoundTrip(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithOperator(ctx, "facilitator")
	ctx = WithTime(ctx, fixed)

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "facilitator", Operator(ctx))
	assert.Equal(t, fixed, Now(ctx))
}
