// Package analytics records scheduler API call counts in Redis, bucketed
// by time window. Recording is best-effort: failures are logged and never
// affect the call that produced them.
package analytics

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultWindow    = time.Minute
	defaultRetention = 24 * time.Hour
)

type RedisSink struct {
	client    *redis.Client
	window    time.Duration
	retention time.Duration
	clock     func() time.Time
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{
		client:    client,
		window:    defaultWindow,
		retention: defaultRetention,
		clock:     time.Now,
	}
}

// WithRetention overrides the key TTL. The retention must cover at least
// one window.
func (s *RedisSink) WithRetention(retention time.Duration) *RedisSink {
	if retention >= s.window {
		s.retention = retention
	}
	return s
}

// Record satisfies the client's fire-and-forget analytics hook.
func (s *RedisSink) Record(ctx context.Context, op string, outcome string) {
	if err := s.write(ctx, op, outcome, s.clock()); err != nil {
		log.Printf("analytics: record %s/%s: %v", op, outcome, err)
	}
}

func (s *RedisSink) write(ctx context.Context, op, outcome string, at time.Time) error {
	key := buildKey(op, outcome, at, s.window)

	pipe := s.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.retention)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}

func buildKey(op, outcome string, t time.Time, window time.Duration) string {
	return fmt.Sprintf("cronicle:op:%s:%s:%s", op, outcome, truncateToBucket(t, window))
}

func truncateToBucket(t time.Time, window time.Duration) string {
	t = t.UTC()
	switch window {
	case time.Minute:
		return t.Format("200601021504")
	case 5 * time.Minute:
		minute := (t.Minute() / 5) * 5
		return t.Format("2006010215") + fmt.Sprintf("%02d", minute)
	case time.Hour:
		return t.Format("2006010215")
	default:
		return t.Format("200601021504")
	}
}
