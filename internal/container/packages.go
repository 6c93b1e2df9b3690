package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/serroba/golinks/internal/analytics"
	"github.com/serroba/golinks/internal/handlers"
	"github.com/serroba/golinks/internal/health"
	"github.com/serroba/golinks/internal/messaging"
	"github.com/serroba/golinks/internal/middleware"
	"github.com/serroba/golinks/internal/routing"
	"github.com/serroba/golinks/internal/service"
	"github.com/serroba/golinks/internal/slug"
	"github.com/serroba/golinks/internal/store"
	"github.com/serroba/golinks/internal/store/migrations"
)

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// PostgresPackage provides the pgx pool, running migrations first
// when enabled.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.Migrate {
			if err := migrations.Up(opts.DatabaseURL, logger); err != nil {
				return nil, err
			}
		}

		pool, err := pgxpool.New(context.Background(), opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres pool: %w", err)
		}

		return pool, nil
	})
}

// RedisPackage provides the redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		opts := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{Addr: opts.RedisAddr}), nil
	})
}

// StorePackage provides the link store (Postgres behind a Redis
// resolve cache) and the settings store.
func StorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (store.LinkStore, error) {
		opts := do.MustInvoke[*Options](i)
		pool := do.MustInvoke[*pgxpool.Pool](i)
		client := do.MustInvoke[*redis.Client](i)

		pg := store.NewPostgresStore(pool)
		ttl := time.Duration(opts.CacheTTL) * time.Second

		return store.NewRedisCacheStore(pg, client, ttl), nil
	})

	do.Provide(injector, func(i *do.Injector) (store.SettingsStore, error) {
		pool := do.MustInvoke[*pgxpool.Pool](i)

		return store.NewPostgresSettings(pool), nil
	})
}

// RoutingPackage provides the base-path snapshot holder, seeded from
// the persisted settings.
func RoutingPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*routing.Provider, error) {
		settings := do.MustInvoke[store.SettingsStore](i)

		paths, err := settings.LoadBasePaths(context.Background())
		if err != nil {
			return nil, fmt.Errorf("load base paths: %w", err)
		}

		return routing.NewProvider(routing.NewConfig(paths)), nil
	})
}

// ServicePackage provides the link service.
func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*service.LinkService, error) {
		opts := do.MustInvoke[*Options](i)

		generate, err := slug.NewGenerator()
		if err != nil {
			return nil, fmt.Errorf("build slug generator: %w", err)
		}

		return service.NewLinkService(
			do.MustInvoke[store.LinkStore](i),
			do.MustInvoke[store.SettingsStore](i),
			do.MustInvoke[*routing.Provider](i),
			generate,
			opts.Origin,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// PublisherGroupPackage provides the redis-stream publisher and the
// typed publish functions derived from it.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: client},
			watermill.NopLogger{},
		)
		if err != nil {
			return nil, fmt.Errorf("open stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkCreatedEvent](group.Publisher(), analytics.TopicLinkCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkVisitedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkVisitedEvent](group.Publisher(), analytics.TopicLinkVisited), nil
	})
}

// ConsumerGroupPackage provides the analytics consumers that
// aggregate link events from the redis stream.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        client,
				ConsumerGroup: "analytics",
			},
			watermill.NopLogger{},
		)
		if err != nil {
			return nil, fmt.Errorf("open stream subscriber: %w", err)
		}

		var analyticsStore analytics.Store = analytics.NoopStore{}
		if opts.Analytics {
			analyticsStore = analytics.NewRedisStore(client)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkCreated, analyticsStore.SaveLinkCreated, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkVisited, analyticsStore.SaveLinkVisited, logger))

		return group, nil
	})
}

// HTTPPackage provides the chi router and the huma API with all
// routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		svc := do.MustInvoke[*service.LinkService](i)

		api := humachi.New(router, huma.DefaultConfig("Short Link Service", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))

		linkHandler := handlers.NewLinkHandler(
			svc,
			do.MustInvoke[messaging.Publish[analytics.LinkCreatedEvent]](i),
			logger,
		)
		redirectHandler := handlers.NewRedirectHandler(
			svc,
			do.MustInvoke[messaging.Publish[analytics.LinkVisitedEvent]](i),
			logger,
		)

		handlers.RegisterRoutes(api, linkHandler, redirectHandler)

		healthHandler := health.NewHandler(
			health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i)),
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
		)
		health.RegisterRoutes(api, healthHandler)

		return api, nil
	})
}
