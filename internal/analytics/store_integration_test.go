//go:build integration

package analytics_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/golinks/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestRedisStoreIntegration(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	s := analytics.NewRedisStore(client)
	day := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("records link creation", func(t *testing.T) {
		event := &analytics.LinkCreatedEvent{
			Slug:      "itg-created",
			CreatedAt: day,
		}

		require.NoError(t, s.SaveLinkCreated(ctx, event))

		raw, err := client.HGet(ctx, "links:created", "itg-created").Result()
		require.NoError(t, err)
		assert.Equal(t, day.Format(time.RFC3339), raw)

		// Cleanup
		client.HDel(ctx, "links:created", "itg-created")
	})

	t.Run("aggregates visits per slug per day", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			err := s.SaveLinkVisited(ctx, &analytics.LinkVisitedEvent{
				Slug:      "itg-visited",
				VisitedAt: day,
			})
			require.NoError(t, err)
		}

		err := s.SaveLinkVisited(ctx, &analytics.LinkVisitedEvent{
			Slug:      "itg-visited",
			VisitedAt: day.AddDate(0, 0, 1),
		})
		require.NoError(t, err)

		count, err := s.VisitsOn(ctx, "itg-visited", day)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		count, err = s.VisitsOn(ctx, "itg-visited", day.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		// Cleanup
		client.HDel(ctx, "visits:2026-06-15", "itg-visited")
		client.HDel(ctx, "visits:2026-06-16", "itg-visited")
	})

	t.Run("unvisited slug counts zero", func(t *testing.T) {
		count, err := s.VisitsOn(ctx, "itg-never-visited", day)

		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
