package handlers

// CreateLinkRequest is the admin request for creating a short link.
type CreateLinkRequest struct {
	Body struct {
		URL       string `doc:"Destination URL"                           example:"https://example.com/a.png" json:"url"`
		Slug      string `doc:"Custom slug; empty to auto-generate"       example:"promo"                     json:"slug,omitempty"`
		BasePath  string `doc:"Base path; empty for the primary one"      example:"go"                        json:"basePath,omitempty"`
		IsActive  bool   `doc:"Whether the link is enabled"               json:"isActive"`
		ExpiresAt string `doc:"Expiration (YYYY-MM-DDTHH:MM); empty for never" example:"2026-12-31T23:59"     json:"expiresAt,omitempty"`
	}
}

// CreateLinkResponse is returned for a successfully created link.
type CreateLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		ID          int64  `doc:"Record id"          json:"id"`
		Slug        string `doc:"The stored slug"    json:"slug"`
		ShortURL    string `doc:"The full short URL" json:"shortUrl"`
		OriginalURL string `doc:"The destination"    json:"originalUrl"`
	}
}

// LinkView is one row of the admin listing, with the computed fields
// the UI renders next to the stored ones.
type LinkView struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	BasePath    string `json:"basePath"`
	ShortURL    string `json:"shortUrl"`
	Status      string `json:"status"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
	QRImageURL  string `json:"qrImageUrl,omitempty"`
	OriginalURL string `json:"originalUrl"`
	Hits        int64  `json:"hits"`
	CreatedAt   string `json:"createdAt"`
}

// ListLinksResponse is the admin listing.
type ListLinksResponse struct {
	Body struct {
		Links []LinkView `json:"links"`
	}
}

// LinkIDRequest addresses a single record by id.
type LinkIDRequest struct {
	ID int64 `doc:"Record id" path:"id"`
}

// SetExpirationRequest updates a record's expiration.
type SetExpirationRequest struct {
	ID   int64 `doc:"Record id" path:"id"`
	Body struct {
		ExpiresAt string `doc:"Expiration (YYYY-MM-DDTHH:MM); empty for never" json:"expiresAt"`
	}
}

// BasePathsResponse lists the configured base paths in order; the
// first entry is the primary.
type BasePathsResponse struct {
	Body struct {
		BasePaths []string `json:"basePaths"`
	}
}

// UpdateBasePathsRequest replaces the configured base paths.
type UpdateBasePathsRequest struct {
	Body struct {
		BasePaths string `doc:"One base path per line" example:"go\npdf" json:"basePaths"`
	}
}

// RedirectRequest is an incoming visitor request for a short URL.
type RedirectRequest struct {
	BasePath string `doc:"Configured base path" example:"go"     path:"basePath"`
	Slug     string `doc:"The short slug"       example:"abc123" path:"slug"`
}

// RedirectResponse issues the 302 to the destination URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"Destination URL" header:"Location"`
	}
}
