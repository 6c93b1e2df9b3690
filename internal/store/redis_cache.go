package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/golinks/internal/link"
)

// RedisCacheStore wraps a LinkStore with Redis caching for the hot
// resolve path (FindBySlug). Mutations pass through to the underlying
// store and invalidate the cached entry, so status checks always see
// fresh activation and expiration fields. The hit counter is never
// read from cache.
type RedisCacheStore struct {
	store  LinkStore
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheStore creates a Redis-cached link store decorator.
func NewRedisCacheStore(store LinkStore, client *redis.Client, ttl time.Duration) *RedisCacheStore {
	return &RedisCacheStore{
		store:  store,
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

func (r *RedisCacheStore) Create(ctx context.Context, rec *link.Record) (int64, error) {
	id, err := r.store.Create(ctx, rec)
	if err != nil {
		return 0, err
	}

	// Write-through after a successful insert.
	r.cacheRecord(ctx, rec)

	return id, nil
}

func (r *RedisCacheStore) FindBySlug(ctx context.Context, slug string) (*link.Record, error) {
	if rec, err := r.getFromCache(ctx, slug); err == nil {
		return rec, nil
	}

	rec, err := r.store.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	r.cacheRecord(ctx, rec)

	return rec, nil
}

func (r *RedisCacheStore) FindByID(ctx context.Context, id int64) (*link.Record, error) {
	return r.store.FindByID(ctx, id)
}

func (r *RedisCacheStore) List(ctx context.Context) ([]link.Record, error) {
	return r.store.List(ctx)
}

func (r *RedisCacheStore) UpdateFields(ctx context.Context, id int64, patch FieldPatch) error {
	if err := r.store.UpdateFields(ctx, id, patch); err != nil {
		return err
	}

	r.invalidateByID(ctx, id)

	return nil
}

func (r *RedisCacheStore) IncrementHits(ctx context.Context, id int64) error {
	// Counts live only in the underlying store; the cached copy is
	// not used for hit display, so no invalidation is needed.
	return r.store.IncrementHits(ctx, id)
}

func (r *RedisCacheStore) Delete(ctx context.Context, id int64) error {
	// Capture the slug while the row still exists; the cache key is
	// dropped only after the row is gone, so a read racing the delete
	// cannot re-cache a record that has been removed.
	rec, err := r.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil
		}

		return err
	}

	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}

	r.client.Del(ctx, r.prefix+rec.Slug)

	return nil
}

func (r *RedisCacheStore) BackfillBasePath(ctx context.Context, newDefault string) error {
	// Base path is display-only at resolution time; stale cached
	// copies age out with the TTL.
	return r.store.BackfillBasePath(ctx, newDefault)
}

func (r *RedisCacheStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	return r.store.SlugExists(ctx, slug)
}

func (r *RedisCacheStore) invalidateByID(ctx context.Context, id int64) {
	rec, err := r.store.FindByID(ctx, id)
	if err != nil {
		return
	}

	r.client.Del(ctx, r.prefix+rec.Slug)
}

func (r *RedisCacheStore) getFromCache(ctx context.Context, slug string) (*link.Record, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+slug).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, link.ErrNotFound
	}

	rec := &link.Record{
		Slug:        result["slug"],
		OriginalURL: result["original_url"],
		BasePath:    result["base_path"],
		IsActive:    result["is_active"] == "1",
	}

	if id, err := strconv.ParseInt(result["id"], 10, 64); err == nil {
		rec.ID = id
	}

	if nanos, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		rec.CreatedAt = time.Unix(0, nanos).UTC()
	}

	if raw, ok := result["expires_at"]; ok && raw != "" {
		if nanos, err := strconv.ParseInt(raw, 10, 64); err == nil {
			t := time.Unix(0, nanos).UTC()
			rec.ExpiresAt = &t
		}
	}

	return rec, nil
}

func (r *RedisCacheStore) cacheRecord(ctx context.Context, rec *link.Record) {
	active := "0"
	if rec.IsActive {
		active = "1"
	}

	expires := ""
	if rec.ExpiresAt != nil {
		expires = strconv.FormatInt(rec.ExpiresAt.UnixNano(), 10)
	}

	key := r.prefix + rec.Slug

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"id":           strconv.FormatInt(rec.ID, 10),
		"slug":         rec.Slug,
		"original_url": rec.OriginalURL,
		"base_path":    rec.BasePath,
		"is_active":    active,
		"expires_at":   expires,
		"created_at":   rec.CreatedAt.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

// Ping reports Redis connectivity; cache failures otherwise degrade
// silently to store reads.
func (r *RedisCacheStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.Join(link.ErrStoreUnavailable, err)
	}

	return nil
}

// Compile-time check.
var _ LinkStore = (*RedisCacheStore)(nil)
