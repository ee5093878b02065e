//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"teamsort/internal/audit"
	id "teamsort/pkg/domain"
	"teamsort/pkg/testutil/containers"
)

func TestSinkProducesEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := containers.NewRedpandaContainer(t)
	topic := "teamsort-audit-test"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sink, err := New([]string{broker.Broker}, topic, WithLogger(logger))
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Ping(ctx))
	require.NoError(t, sink.EnsureTopic(ctx))
	require.NoError(t, sink.EnsureTopic(ctx), "second ensure must tolerate an existing topic")

	sessionID := id.NewSessionID()
	require.NoError(t, sink.Append(ctx, audit.Event{
		Timestamp:  time.Now().UTC(),
		SessionID:  sessionID,
		Action:     audit.ActionSessionFinalized,
		RosterSize: 9,
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, sessionID, got.SessionID)
	assert.Equal(t, audit.ActionSessionFinalized, got.Action)
	assert.Equal(t, 9, got.RosterSize)
	assert.Equal(t, sessionID.String(), string(records[0].Key))
}
