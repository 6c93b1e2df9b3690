package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/golinks/internal/analytics"
	"github.com/stretchr/testify/require"
)

func TestNoopStore(t *testing.T) {
	noop := analytics.NoopStore{}

	t.Run("discards created events", func(t *testing.T) {
		event := &analytics.LinkCreatedEvent{
			Slug:        "promo",
			OriginalURL: "https://example.com",
			BasePath:    "go",
			CreatedAt:   time.Now(),
		}

		require.NoError(t, noop.SaveLinkCreated(context.Background(), event))
	})

	t.Run("discards visited events", func(t *testing.T) {
		event := &analytics.LinkVisitedEvent{
			Slug:      "promo",
			BasePath:  "go",
			VisitedAt: time.Now(),
			ClientIP:  "127.0.0.1",
			UserAgent: "TestAgent/1.0",
		}

		require.NoError(t, noop.SaveLinkVisited(context.Background(), event))
	})
}
