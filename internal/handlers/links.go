package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/golinks/internal/analytics"
	"github.com/serroba/golinks/internal/link"
	"github.com/serroba/golinks/internal/messaging"
	"github.com/serroba/golinks/internal/service"
	"go.uber.org/zap"
)

// timeFormat is how creation timestamps render in the listing.
const timeFormat = "2006-01-02 15:04:05"

// LinkHandler exposes the administrative link operations.
type LinkHandler struct {
	svc            *service.LinkService
	publishCreated messaging.Publish[analytics.LinkCreatedEvent]
	logger         *zap.Logger
	now            func() time.Time
}

// NewLinkHandler creates the admin handler.
func NewLinkHandler(
	svc *service.LinkService,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		svc:            svc,
		publishCreated: publishCreated,
		logger:         logger,
		now:            time.Now,
	}
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	rec, shortURL, err := h.svc.Create(ctx, service.CreateParams{
		OriginalURL: req.Body.URL,
		Slug:        req.Body.Slug,
		BasePath:    req.Body.BasePath,
		IsActive:    req.Body.IsActive,
		ExpiresAt:   req.Body.ExpiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, link.ErrReservedSlug):
			return nil, huma.Error400BadRequest("that slug is reserved")
		case errors.Is(err, link.ErrDuplicateSlug):
			return nil, huma.Error409Conflict("slug already exists")
		case errors.Is(err, link.ErrSlugSpaceExhausted):
			return nil, huma.Error503ServiceUnavailable("could not generate a free slug")
		case errors.Is(err, link.ErrMissingOriginalURL):
			return nil, huma.Error400BadRequest("original url is required")
		default:
			// Store failures must not surface as client errors or
			// leak driver detail.
			h.logger.Error("failed to create link", zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to create link")
		}
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		Slug:        rec.Slug,
		OriginalURL: rec.OriginalURL,
		BasePath:    rec.BasePath,
		CreatedAt:   rec.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish created event",
			zap.String("slug", rec.Slug),
			zap.Error(err),
		)
	}

	resp := &CreateLinkResponse{}
	resp.Headers.Location = shortURL
	resp.Body.ID = rec.ID
	resp.Body.Slug = rec.Slug
	resp.Body.ShortURL = shortURL
	resp.Body.OriginalURL = rec.OriginalURL

	return resp, nil
}

func (h *LinkHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	records, err := h.svc.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list links")
	}

	now := h.now()
	resp := &ListLinksResponse{}
	resp.Body.Links = make([]LinkView, 0, len(records))

	for i := range records {
		rec := &records[i]
		shortURL := h.svc.ShortURL(rec)

		resp.Body.Links = append(resp.Body.Links, LinkView{
			ID:          rec.ID,
			Slug:        rec.Slug,
			BasePath:    rec.BasePath,
			ShortURL:    shortURL,
			Status:      string(link.ComputeStatus(rec, now)),
			ExpiresAt:   link.FormatForEdit(rec.ExpiresAt),
			QRImageURL:  link.QRImageURL(shortURL),
			OriginalURL: rec.OriginalURL,
			Hits:        rec.Hits,
			CreatedAt:   rec.CreatedAt.UTC().Format(timeFormat),
		})
	}

	return resp, nil
}

func (h *LinkHandler) ToggleLink(ctx context.Context, req *LinkIDRequest) (*struct{}, error) {
	if err := h.svc.Toggle(ctx, req.ID); err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		return nil, huma.Error500InternalServerError("failed to toggle link")
	}

	return &struct{}{}, nil
}

func (h *LinkHandler) SetExpiration(ctx context.Context, req *SetExpirationRequest) (*struct{}, error) {
	if err := h.svc.SetExpiration(ctx, req.ID, req.Body.ExpiresAt); err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		return nil, huma.Error500InternalServerError("failed to update expiration")
	}

	return &struct{}{}, nil
}

func (h *LinkHandler) ClearExpiration(ctx context.Context, req *LinkIDRequest) (*struct{}, error) {
	if err := h.svc.ClearExpiration(ctx, req.ID); err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		return nil, huma.Error500InternalServerError("failed to clear expiration")
	}

	return &struct{}{}, nil
}

func (h *LinkHandler) DeleteLink(ctx context.Context, req *LinkIDRequest) (*struct{}, error) {
	if err := h.svc.Delete(ctx, req.ID); err != nil {
		return nil, huma.Error500InternalServerError("failed to delete link")
	}

	return &struct{}{}, nil
}

func (h *LinkHandler) GetBasePaths(_ context.Context, _ *struct{}) (*BasePathsResponse, error) {
	resp := &BasePathsResponse{}
	resp.Body.BasePaths = h.svc.BasePaths()

	return resp, nil
}

func (h *LinkHandler) UpdateBasePaths(ctx context.Context, req *UpdateBasePathsRequest) (*BasePathsResponse, error) {
	paths, err := h.svc.UpdateBasePaths(ctx, req.Body.BasePaths)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to update base paths")
	}

	resp := &BasePathsResponse{}
	resp.Body.BasePaths = paths

	return resp, nil
}
