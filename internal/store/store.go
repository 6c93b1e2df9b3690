package store

import (
	"context"
	"time"

	"github.com/serroba/golinks/internal/link"
)

// FieldPatch describes a partial update to a link record. Nil pointer
// fields are left untouched. SetExpires distinguishes "clear the
// expiration" (true with a nil ExpiresAt) from "don't touch it".
type FieldPatch struct {
	IsActive   *bool
	SetExpires bool
	ExpiresAt  *time.Time
	BasePath   *string
}

// LinkStore is the durable record repository. Implementations must be
// safe for concurrent callers; slug uniqueness and the hit counter
// rely on store-native atomicity, not application-level locking,
// since multiple service instances may share one store.
type LinkStore interface {
	// Create persists a new record and returns its assigned id.
	// Returns link.ErrDuplicateSlug when the slug is already taken;
	// the uniqueness check is a storage constraint, not a pre-check.
	Create(ctx context.Context, rec *link.Record) (int64, error)

	// FindBySlug returns the record for a slug, or link.ErrNotFound.
	FindBySlug(ctx context.Context, slug string) (*link.Record, error)

	// FindByID returns the record for an id, or link.ErrNotFound.
	FindByID(ctx context.Context, id int64) (*link.Record, error)

	// List returns all records, newest first (id descending).
	List(ctx context.Context) ([]link.Record, error)

	// UpdateFields applies a partial update. Returns link.ErrNotFound
	// when the id does not exist.
	UpdateFields(ctx context.Context, id int64, patch FieldPatch) error

	// IncrementHits adds one to the hit counter as a store-side
	// atomic increment. Concurrent resolutions must not lose counts.
	IncrementHits(ctx context.Context, id int64) error

	// Delete removes a record. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id int64) error

	// BackfillBasePath rewrites records with an empty base path to
	// the given default.
	BackfillBasePath(ctx context.Context, newDefault string) error

	// SlugExists reports whether a record with the slug exists.
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// SettingsStore persists the configured base-path set across restarts.
type SettingsStore interface {
	// LoadBasePaths returns the stored set, or nil when none was
	// ever saved.
	LoadBasePaths(ctx context.Context) ([]string, error)

	// SaveBasePaths replaces the stored set.
	SaveBasePaths(ctx context.Context, paths []string) error
}
