// Package service orchestrates slug policy, routing configuration,
// and the link store into the operations the HTTP layer exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/serroba/golinks/internal/link"
	"github.com/serroba/golinks/internal/routing"
	"github.com/serroba/golinks/internal/slug"
	"github.com/serroba/golinks/internal/store"
	"go.uber.org/zap"
)

// maxSlugAttempts bounds the auto-slug generation loop. With a 36^6
// candidate space this only trips when the store is effectively full.
const maxSlugAttempts = 32

// LinkService is the slug resolution and lifecycle engine.
type LinkService struct {
	store    store.LinkStore
	settings store.SettingsStore
	routes   *routing.Provider
	generate func() string
	origin   string
	logger   *zap.Logger
}

// NewLinkService wires the service. origin is the site origin used to
// build short URLs (e.g. "https://short.example.com").
func NewLinkService(
	linkStore store.LinkStore,
	settings store.SettingsStore,
	routes *routing.Provider,
	generate func() string,
	origin string,
	logger *zap.Logger,
) *LinkService {
	return &LinkService{
		store:    linkStore,
		settings: settings,
		routes:   routes,
		generate: generate,
		origin:   strings.TrimRight(origin, "/"),
		logger:   logger,
	}
}

// CreateParams carries the admin form fields for link creation. Slug
// may be empty to request auto-generation; ExpiresAt is the raw
// datetime-local input and parses fail-open.
type CreateParams struct {
	OriginalURL string
	Slug        string
	BasePath    string
	IsActive    bool
	ExpiresAt   string
}

// Create validates the inputs, settles on a slug, and persists the
// record. Returns the stored record and its short URL. Validation
// failures never leave a partial record behind.
func (s *LinkService) Create(ctx context.Context, p CreateParams) (*link.Record, string, error) {
	if strings.TrimSpace(p.OriginalURL) == "" {
		return nil, "", link.ErrMissingOriginalURL
	}

	cfg := s.routes.Current()

	basePath := slug.Normalize(p.BasePath)
	if !cfg.Contains(basePath) {
		basePath = cfg.Primary()
	}

	rec := &link.Record{
		OriginalURL: p.OriginalURL,
		BasePath:    basePath,
		IsActive:    p.IsActive,
		ExpiresAt:   link.ParseFromEdit(p.ExpiresAt),
	}

	requested := slug.Normalize(p.Slug)
	if requested == "" {
		if err := s.createWithGeneratedSlug(ctx, rec); err != nil {
			return nil, "", err
		}
	} else {
		if slug.IsReserved(requested) {
			return nil, "", link.ErrReservedSlug
		}

		rec.Slug = requested

		if _, err := s.store.Create(ctx, rec); err != nil {
			return nil, "", err
		}
	}

	return rec, link.BuildShortURL(s.origin, rec.BasePath, rec.Slug), nil
}

// createWithGeneratedSlug retries random candidates until one is
// neither reserved nor taken. The uniqueness race between the
// existence check and the insert is closed by the store's unique
// constraint, so a lost race just costs another attempt.
func (s *LinkService) createWithGeneratedSlug(ctx context.Context, rec *link.Record) error {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := s.generate()
		if slug.IsReserved(candidate) {
			continue
		}

		exists, err := s.store.SlugExists(ctx, candidate)
		if err != nil {
			return err
		}

		if exists {
			continue
		}

		rec.Slug = candidate

		_, err = s.store.Create(ctx, rec)
		if err == nil {
			return nil
		}

		if !errors.Is(err, link.ErrDuplicateSlug) {
			return err
		}
	}

	return link.ErrSlugSpaceExhausted
}

// Resolve looks up a slug and returns its record when the link is
// live, incrementing the hit counter exactly once. The base path is
// accepted for logging only: slugs are globally unique, so a record
// created under one base path still resolves under another configured
// one, matching the original behavior. Dead links (inactive or
// expired) return link.ErrGone; the boundary maps both ErrGone and
// ErrNotFound to the same not-found response.
func (s *LinkService) Resolve(ctx context.Context, basePath, rawSlug string, now time.Time) (*link.Record, error) {
	rec, err := s.store.FindBySlug(ctx, slug.Normalize(rawSlug))
	if err != nil {
		return nil, err
	}

	if link.ComputeStatus(rec, now) != link.StatusActive {
		return nil, link.ErrGone
	}

	// The redirect must not fail on a counting error.
	if err := s.store.IncrementHits(ctx, rec.ID); err != nil {
		s.logger.Error("hit increment failed",
			zap.String("slug", rec.Slug),
			zap.String("base_path", basePath),
			zap.Error(err),
		)
	}

	return rec, nil
}

// ValidateBasePath checks p against the current routing snapshot.
// Returns link.ErrInvalidBasePath for anything outside the configured
// set.
func (s *LinkService) ValidateBasePath(p string) error {
	if !s.routes.Current().Contains(p) {
		return link.ErrInvalidBasePath
	}

	return nil
}

// Toggle flips the active flag of a record.
func (s *LinkService) Toggle(ctx context.Context, id int64) error {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	next := !rec.IsActive

	return s.store.UpdateFields(ctx, id, store.FieldPatch{IsActive: &next})
}

// SetExpiration parses the raw admin input and stores it. Malformed
// input clears the expiration rather than erroring, matching the
// fail-open edit-parsing contract.
func (s *LinkService) SetExpiration(ctx context.Context, id int64, raw string) error {
	return s.store.UpdateFields(ctx, id, store.FieldPatch{
		SetExpires: true,
		ExpiresAt:  link.ParseFromEdit(raw),
	})
}

// ClearExpiration removes the expiration so the link never expires.
func (s *LinkService) ClearExpiration(ctx context.Context, id int64) error {
	return s.store.UpdateFields(ctx, id, store.FieldPatch{SetExpires: true})
}

// Delete removes a record. Deleting an absent id is a no-op.
func (s *LinkService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// List returns all records, newest first.
func (s *LinkService) List(ctx context.Context) ([]link.Record, error) {
	return s.store.List(ctx)
}

// BasePaths returns the current base-path snapshot.
func (s *LinkService) BasePaths() []string {
	return s.routes.Current().Paths()
}

// ShortURL builds the external URL for a record, falling back to the
// primary base path when the record predates base-path assignment.
func (s *LinkService) ShortURL(rec *link.Record) string {
	basePath := rec.BasePath
	if basePath == "" {
		basePath = s.routes.Current().Primary()
	}

	return link.BuildShortURL(s.origin, basePath, rec.Slug)
}

// UpdateBasePaths replaces the configured base-path set from raw
// multiline input. The new set is persisted, published atomically to
// readers, and records with a blank base path are backfilled to the
// new primary.
func (s *LinkService) UpdateBasePaths(ctx context.Context, raw string) ([]string, error) {
	paths := slug.ParseBasePaths(raw)

	if err := s.settings.SaveBasePaths(ctx, paths); err != nil {
		return nil, fmt.Errorf("persist base paths: %w", err)
	}

	s.routes.Swap(routing.NewConfig(paths))

	if err := s.store.BackfillBasePath(ctx, paths[0]); err != nil {
		return nil, fmt.Errorf("backfill base path: %w", err)
	}

	return paths, nil
}
