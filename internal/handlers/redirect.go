package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/golinks/internal/analytics"
	"github.com/serroba/golinks/internal/messaging"
	"github.com/serroba/golinks/internal/service"
	"go.uber.org/zap"
)

// RedirectHandler serves the visitor-facing short URLs.
type RedirectHandler struct {
	svc            *service.LinkService
	publishVisited messaging.Publish[analytics.LinkVisitedEvent]
	logger         *zap.Logger
	now            func() time.Time
}

// NewRedirectHandler creates the redirect handler.
func NewRedirectHandler(
	svc *service.LinkService,
	publishVisited messaging.Publish[analytics.LinkVisitedEvent],
	logger *zap.Logger,
) *RedirectHandler {
	return &RedirectHandler{
		svc:            svc,
		publishVisited: publishVisited,
		logger:         logger,
		now:            time.Now,
	}
}

// Redirect resolves basePath/slug and issues a 302 to the
// destination. Every failure mode (unknown base path, missing slug,
// inactive or expired link) is the same 404 to the visitor; only the
// admin listing distinguishes them.
func (h *RedirectHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	// The base-path set plays the role of registered routes: a path
	// outside the current snapshot is simply not our URL space.
	if err := h.svc.ValidateBasePath(req.BasePath); err != nil {
		return nil, huma.Error404NotFound("not found")
	}

	rec, err := h.svc.Resolve(ctx, req.BasePath, req.Slug, h.now())
	if err != nil {
		return nil, huma.Error404NotFound("not found")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkVisitedEvent{
		Slug:      rec.Slug,
		BasePath:  req.BasePath,
		VisitedAt: h.now(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err := h.publishVisited(event); err != nil {
		h.logger.Error("failed to publish visited event",
			zap.String("slug", rec.Slug),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = rec.OriginalURL

	return resp, nil
}
