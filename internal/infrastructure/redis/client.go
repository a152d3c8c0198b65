package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewClient connects to redisURL and verifies the connection.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	return NewClientWithRetry(ctx, redisURL, 0)
}

// NewClientWithRetry keeps pinging with exponential backoff for up to
// retryFor before giving up.
func NewClientWithRetry(ctx context.Context, redisURL string, retryFor time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ping := func() error { return client.Ping(ctx).Err() }

	if retryFor > 0 {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 250 * time.Millisecond
		b.MaxElapsedTime = retryFor
		err = backoff.RetryNotify(ping, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
			log.Warn().Err(err).Dur("retry_in", wait).Msg("redis not ready")
		})
	} else {
		err = ping()
	}
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
