package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/serroba/golinks/internal/analytics"
	"github.com/serroba/golinks/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedirect(t *testing.T) {
	t.Run("issues 302 to the destination", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.links.CreateLink(context.Background(), createReq("https://example.com/a.png", "", "go"))
		require.NoError(t, err)

		resp, err := f.redirect.Redirect(context.Background(), &handlers.RedirectRequest{
			BasePath: "go",
			Slug:     created.Body.Slug,
		})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "https://example.com/a.png", resp.Headers.Location)
	})

	t.Run("counts one hit per redirect", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.links.CreateLink(context.Background(), createReq("https://example.com", "counted", "go"))
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err = f.redirect.Redirect(context.Background(), &handlers.RedirectRequest{
				BasePath: "go",
				Slug:     "counted",
			})
			require.NoError(t, err)
		}

		rec, err := f.store.FindByID(context.Background(), created.Body.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), rec.Hits)
	})

	t.Run("unknown slug is 404", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.redirect.Redirect(context.Background(), &handlers.RedirectRequest{
			BasePath: "go",
			Slug:     "missing",
		})

		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("unconfigured base path is 404 even for a live slug", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.links.CreateLink(context.Background(), createReq("https://example.com", "hidden", "go"))
		require.NoError(t, err)

		_, err = f.redirect.Redirect(context.Background(), &handlers.RedirectRequest{
			BasePath: "img",
			Slug:     "hidden",
		})

		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("expired link is 404 to the visitor", func(t *testing.T) {
		f := newFixture(t)

		req := createReq("https://example.com", "bygone", "go")
		req.Body.ExpiresAt = "2000-01-01T00:00"

		_, err := f.links.CreateLink(context.Background(), req)
		require.NoError(t, err)

		_, err = f.redirect.Redirect(context.Background(), &handlers.RedirectRequest{
			BasePath: "go",
			Slug:     "bygone",
		})

		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("disabled link is 404 to the visitor", func(t *testing.T) {
		f := newFixture(t)

		req := createReq("https://example.com", "switched-off", "go")
		req.Body.IsActive = false

		_, err := f.links.CreateLink(context.Background(), req)
		require.NoError(t, err)

		_, err = f.redirect.Redirect(context.Background(), &handlers.RedirectRequest{
			BasePath: "go",
			Slug:     "switched-off",
		})

		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("publish failure does not break the redirect", func(t *testing.T) {
		f := newFixture(t)
		h := handlers.NewRedirectHandler(
			f.svc,
			errorPublish[analytics.LinkVisitedEvent](errors.New("publish error")),
			zap.NewNop(),
		)

		_, err := f.links.CreateLink(context.Background(), createReq("https://example.com", "durable", "go"))
		require.NoError(t, err)

		resp, err := h.Redirect(context.Background(), &handlers.RedirectRequest{
			BasePath: "go",
			Slug:     "durable",
		})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
	})

	t.Run("newly allowed base path serves existing slugs", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.links.CreateLink(context.Background(), createReq("https://example.com", "roaming", "go"))
		require.NoError(t, err)

		upd := &handlers.UpdateBasePathsRequest{}
		upd.Body.BasePaths = "img\ngo"

		_, err = f.links.UpdateBasePaths(context.Background(), upd)
		require.NoError(t, err)

		resp, err := f.redirect.Redirect(context.Background(), &handlers.RedirectRequest{
			BasePath: "img",
			Slug:     "roaming",
		})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
	})
}
