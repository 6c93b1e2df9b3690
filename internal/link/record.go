package link

import (
	"errors"
	"time"
)

// Sentinel errors shared across the store, service, and HTTP layers.
var (
	ErrNotFound           = errors.New("link not found")
	ErrMissingOriginalURL = errors.New("original url is required")
	ErrDuplicateSlug      = errors.New("slug already exists")
	ErrReservedSlug       = errors.New("slug is reserved")
	ErrSlugSpaceExhausted = errors.New("could not generate a free slug")
	ErrInvalidBasePath    = errors.New("base path is not configured")
	ErrStoreUnavailable   = errors.New("link store unavailable")

	// ErrGone marks a link that exists but is inactive or expired.
	// The HTTP boundary maps it to the same not-found response as
	// ErrNotFound; only the admin listing distinguishes the two.
	ErrGone = errors.New("link is inactive or expired")
)

// Record is the persisted unit of the service: one slug mapped to one
// destination URL, grouped under a base path.
type Record struct {
	ID          int64
	Slug        string
	OriginalURL string
	BasePath    string
	IsActive    bool
	ExpiresAt   *time.Time // nil means the link never expires
	Hits        int64
	CreatedAt   time.Time
}
