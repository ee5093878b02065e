// Package kafka publishes session audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"teamsort/internal/audit"
	"teamsort/pkg/platform/sentinel"
)

const (
	defaultPartitions        int32 = 1
	defaultReplicationFactor int16 = 1
)

// Sink is an audit.Store that produces each event as a JSON record keyed by
// session id, so all events of a session land on one partition in order.
type Sink struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

type Option func(*Sink)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		s.logger = logger
	}
}

// New connects to the given brokers. The caller owns Close.
func New(brokers []string, topic string, opts ...Option) (*Sink, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	s := &Sink{client: client, topic: topic}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EnsureTopic creates the audit topic if it does not already exist.
func (s *Sink) EnsureTopic(ctx context.Context) error {
	admin := kadm.NewClient(s.client)
	resp, err := admin.CreateTopic(ctx, defaultPartitions, defaultReplicationFactor, nil, s.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", s.topic, errors.Join(sentinel.ErrUnavailable, err))
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", s.topic, resp.Err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "audit topic ready", "topic", s.topic)
	}
	return nil
}

// Ping verifies at least one broker is reachable.
func (s *Sink) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return errors.Join(sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.SessionID.String()),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
		},
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func (s *Sink) Close() {
	s.client.Close()
}
