package link

import (
	"strings"
	"time"
)

// Status is the computed visibility of a link at a point in time.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusExpired  Status = "expired"
)

// editLayout is the minute-precision layout used by datetime-local
// inputs in the admin UI.
const editLayout = "2006-01-02T15:04"

// IsExpired reports whether the record's expiration has passed. A nil
// ExpiresAt means the link never expires. The boundary is inclusive:
// a link expiring exactly now is already expired.
func IsExpired(rec *Record, now time.Time) bool {
	if rec.ExpiresAt == nil {
		return false
	}

	return !now.UTC().Before(rec.ExpiresAt.UTC())
}

// ComputeStatus classifies a record. Inactive takes precedence over
// expired: a disabled link reports inactive even when its expiration
// has also passed.
func ComputeStatus(rec *Record, now time.Time) Status {
	if !rec.IsActive {
		return StatusInactive
	}

	if IsExpired(rec, now) {
		return StatusExpired
	}

	return StatusActive
}

// BuildShortURL assembles the externally shared URL as
// origin/basePath/slug. Returns "" when the slug is empty after
// trimming, since a short URL without a slug is meaningless.
func BuildShortURL(origin, basePath, slug string) string {
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return ""
	}

	origin = strings.TrimRight(origin, "/")
	basePath = strings.Trim(basePath, "/")

	return origin + "/" + basePath + "/" + slug
}

// FormatForEdit renders a stored expiration as the value of a
// datetime-local input. A nil timestamp renders as the empty string.
func FormatForEdit(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.UTC().Format(editLayout)
}

// ParseFromEdit converts admin input back to a timestamp. Blank or
// malformed input yields nil, which the caller treats as "no
// expiration requested" rather than an error.
func ParseFromEdit(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	t, err := time.ParseInLocation(editLayout, s, time.UTC)
	if err != nil {
		return nil
	}

	return &t
}
