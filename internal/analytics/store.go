package analytics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists aggregated analytics on the consumer side.
type Store interface {
	SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	SaveLinkVisited(ctx context.Context, event *LinkVisitedEvent) error
}

// RedisStore aggregates visit counts per slug per day in Redis
// hashes. It backs the admin-facing traffic view; the durable hit
// counter on the record itself lives in the link store.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed analytics store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error {
	return s.client.HSet(ctx, "links:created",
		event.Slug, event.CreatedAt.UTC().Format(time.RFC3339),
	).Err()
}

func (s *RedisStore) SaveLinkVisited(ctx context.Context, event *LinkVisitedEvent) error {
	day := event.VisitedAt.UTC().Format("2006-01-02")

	return s.client.HIncrBy(ctx, "visits:"+day, event.Slug, 1).Err()
}

// VisitsOn returns the aggregated visit count for a slug on a given
// day.
func (s *RedisStore) VisitsOn(ctx context.Context, slug string, day time.Time) (int64, error) {
	raw, err := s.client.HGet(ctx, "visits:"+day.UTC().Format("2006-01-02"), slug).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, err
	}

	return strconv.ParseInt(raw, 10, 64)
}

// NoopStore discards events. Used when analytics aggregation is
// disabled.
type NoopStore struct{}

func (NoopStore) SaveLinkCreated(context.Context, *LinkCreatedEvent) error { return nil }
func (NoopStore) SaveLinkVisited(context.Context, *LinkVisitedEvent) error { return nil }

// Compile-time checks.
var (
	_ Store = (*RedisStore)(nil)
	_ Store = NoopStore{}
)
