package eventpublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/domain"
)

// DefaultStream is the Redis stream outbox events are appended to.
const DefaultStream = "fintrack:events"

// StreamPublisher appends events to a Redis stream.
type StreamPublisher struct {
	client     redis.Cmdable
	stream     string
	maxLen     int64
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

// StreamOption configures a StreamPublisher.
type StreamOption func(*StreamPublisher)

// WithStream overrides the stream name.
func WithStream(name string) StreamOption {
	return func(p *StreamPublisher) { p.stream = name }
}

// WithMaxLen caps the stream length. Zero leaves it unbounded.
func WithMaxLen(n int64) StreamOption {
	return func(p *StreamPublisher) { p.maxLen = n }
}

// WithRetry sets the retry budget and delay bounds for a single publish.
func WithRetry(maxRetries uint64, initial, max time.Duration) StreamOption {
	return func(p *StreamPublisher) {
		p.maxRetries = maxRetries
		p.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxInterval = max
			b.MaxElapsedTime = 0
			return b
		}
	}
}

// NewStreamPublisher creates a StreamPublisher writing to DefaultStream.
func NewStreamPublisher(client redis.Cmdable, opts ...StreamOption) *StreamPublisher {
	p := &StreamPublisher{
		client: client,
		stream: DefaultStream,
	}
	WithRetry(3, 100*time.Millisecond, 2*time.Second)(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish appends the event, retrying transient Redis failures with
// exponential backoff.
func (p *StreamPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode event payload: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Values: map[string]any{
			"event_id":       event.ID,
			"event_type":     event.EventType,
			"aggregate_type": event.AggregateType,
			"aggregate_id":   event.AggregateID,
			"created_at":     event.CreatedAt.UTC().Format(time.RFC3339Nano),
			"payload":        string(payload),
		},
	}

	attempt := 0
	op := func() error {
		attempt++
		return p.client.XAdd(ctx, args).Err()
	}
	notify := func(err error, wait time.Duration) {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("event_id", event.ID).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("retrying event publish")
	}

	b := backoff.WithContext(backoff.WithMaxRetries(p.newBackOff(), p.maxRetries), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return fmt.Errorf("failed to append event to stream %s: %w", p.stream, err)
	}
	return nil
}

// LogPublisher writes events to the log. It is used when Redis is not configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("event published")

	return nil
}
