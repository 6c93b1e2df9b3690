package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/serroba/golinks/internal/analytics"
	"github.com/serroba/golinks/internal/handlers"
	"github.com/serroba/golinks/internal/link"
	"github.com/serroba/golinks/internal/messaging"
	"github.com/serroba/golinks/internal/routing"
	"github.com/serroba/golinks/internal/service"
	"github.com/serroba/golinks/internal/slug"
	"github.com/serroba/golinks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

// failingCreateStore simulates a store whose inserts are down while
// the pre-checks still work.
type failingCreateStore struct {
	store.LinkStore
}

func (failingCreateStore) Create(context.Context, *link.Record) (int64, error) {
	return 0, errors.New("connect: connection refused")
}

type fixture struct {
	store    *store.MemoryStore
	svc      *service.LinkService
	links    *handlers.LinkHandler
	redirect *handlers.RedirectHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mem := store.NewMemoryStore()

	generate, err := slug.NewGenerator()
	require.NoError(t, err)

	routes := routing.NewProvider(routing.NewConfig([]string{"go", "pdf"}))
	svc := service.NewLinkService(mem, mem, routes, generate, "https://s.example.com", zap.NewNop())

	return &fixture{
		store: mem,
		svc:   svc,
		links: handlers.NewLinkHandler(
			svc,
			noopPublish[analytics.LinkCreatedEvent](),
			zap.NewNop(),
		),
		redirect: handlers.NewRedirectHandler(
			svc,
			noopPublish[analytics.LinkVisitedEvent](),
			zap.NewNop(),
		),
	}
}

func createReq(url, slugVal, basePath string) *handlers.CreateLinkRequest {
	req := &handlers.CreateLinkRequest{}
	req.Body.URL = url
	req.Body.Slug = slugVal
	req.Body.BasePath = basePath
	req.Body.IsActive = true

	return req
}

func TestCreateLink(t *testing.T) {
	t.Run("creates link with generated slug", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.links.CreateLink(context.Background(), createReq("https://example.com/a.png", "", "go"))

		require.NoError(t, err)
		assert.Len(t, resp.Body.Slug, slug.CandidateLength)
		assert.Equal(t, "https://s.example.com/go/"+resp.Body.Slug, resp.Body.ShortURL)
		assert.Equal(t, resp.Body.ShortURL, resp.Headers.Location)
	})

	t.Run("reserved slug maps to 400", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.links.CreateLink(context.Background(), createReq("https://example.com", "admin", "go"))

		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("duplicate slug maps to 409", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.links.CreateLink(context.Background(), createReq("https://example.com/1", "promo", "go"))
		require.NoError(t, err)

		_, err = f.links.CreateLink(context.Background(), createReq("https://example.com/2", "promo", "go"))

		assertStatus(t, err, http.StatusConflict)
	})

	t.Run("missing original url maps to 400", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.links.CreateLink(context.Background(), createReq("", "promo", "go"))

		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("store failure maps to 500 without leaking detail", func(t *testing.T) {
		mem := store.NewMemoryStore()

		generate, err := slug.NewGenerator()
		require.NoError(t, err)

		routes := routing.NewProvider(routing.NewConfig([]string{"go"}))
		svc := service.NewLinkService(failingCreateStore{mem}, mem, routes, generate, "https://s.example.com", zap.NewNop())
		h := handlers.NewLinkHandler(svc, noopPublish[analytics.LinkCreatedEvent](), zap.NewNop())

		_, err = h.CreateLink(context.Background(), createReq("https://example.com", "promo", "go"))

		assertStatus(t, err, http.StatusInternalServerError)
		assert.NotContains(t, err.Error(), "connection refused")
	})

	t.Run("publish failure does not fail creation", func(t *testing.T) {
		f := newFixture(t)
		h := handlers.NewLinkHandler(
			f.svc,
			errorPublish[analytics.LinkCreatedEvent](errors.New("publish error")),
			zap.NewNop(),
		)

		resp, err := h.CreateLink(context.Background(), createReq("https://example.com", "", "go"))

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.Slug)
	})
}

func TestListLinks(t *testing.T) {
	t.Run("renders computed fields", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.links.CreateLink(context.Background(), createReq("https://example.com/doc", "handbook", "pdf"))
		require.NoError(t, err)

		resp, err := f.links.ListLinks(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, resp.Body.Links, 1)

		row := resp.Body.Links[0]
		assert.Equal(t, "handbook", row.Slug)
		assert.Equal(t, "https://s.example.com/pdf/handbook", row.ShortURL)
		assert.Equal(t, string(link.StatusActive), row.Status)
		assert.Contains(t, row.QRImageURL, "api.qrserver.com")
		assert.Empty(t, row.ExpiresAt)
		assert.Zero(t, row.Hits)
	})

	t.Run("newest links come first", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.links.CreateLink(context.Background(), createReq("https://example.com/1", "older", "go"))
		require.NoError(t, err)
		_, err = f.links.CreateLink(context.Background(), createReq("https://example.com/2", "newer", "go"))
		require.NoError(t, err)

		resp, err := f.links.ListLinks(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, resp.Body.Links, 2)
		assert.Equal(t, "newer", resp.Body.Links[0].Slug)
	})
}

func TestLinkMutations(t *testing.T) {
	t.Run("toggle then delete", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.links.CreateLink(context.Background(), createReq("https://example.com", "cycle", "go"))
		require.NoError(t, err)

		_, err = f.links.ToggleLink(context.Background(), &handlers.LinkIDRequest{ID: created.Body.ID})
		require.NoError(t, err)

		rec, err := f.store.FindByID(context.Background(), created.Body.ID)
		require.NoError(t, err)
		assert.False(t, rec.IsActive)

		_, err = f.links.DeleteLink(context.Background(), &handlers.LinkIDRequest{ID: created.Body.ID})
		require.NoError(t, err)

		_, err = f.store.FindByID(context.Background(), created.Body.ID)
		assert.ErrorIs(t, err, link.ErrNotFound)
	})

	t.Run("toggle on missing id maps to 404", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.links.ToggleLink(context.Background(), &handlers.LinkIDRequest{ID: 42})

		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("set and clear expiration", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.links.CreateLink(context.Background(), createReq("https://example.com", "dated", "go"))
		require.NoError(t, err)

		req := &handlers.SetExpirationRequest{ID: created.Body.ID}
		req.Body.ExpiresAt = "2026-12-31T23:59"

		_, err = f.links.SetExpiration(context.Background(), req)
		require.NoError(t, err)

		rec, _ := f.store.FindByID(context.Background(), created.Body.ID)
		require.NotNil(t, rec.ExpiresAt)

		_, err = f.links.ClearExpiration(context.Background(), &handlers.LinkIDRequest{ID: created.Body.ID})
		require.NoError(t, err)

		rec, _ = f.store.FindByID(context.Background(), created.Body.ID)
		assert.Nil(t, rec.ExpiresAt)
	})
}

func TestBasePathSettings(t *testing.T) {
	t.Run("update replaces and reports the set", func(t *testing.T) {
		f := newFixture(t)

		req := &handlers.UpdateBasePathsRequest{}
		req.Body.BasePaths = "go\npdf\ngo\n"

		resp, err := f.links.UpdateBasePaths(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, []string{"go", "pdf"}, resp.Body.BasePaths)

		current, err := f.links.GetBasePaths(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "pdf"}, current.Body.BasePaths)
	})
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()

	require.Error(t, err)

	var statusErr interface{ GetStatus() int }

	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, want, statusErr.GetStatus())
}
