// Package analytics defines the events emitted by the link service
// and the consumer-side aggregation of visit counts.
package analytics

import "time"

// Topics for link lifecycle events.
const (
	TopicLinkCreated = "link.created"
	TopicLinkVisited = "link.visited"
)

// LinkCreatedEvent is emitted when a short link is created.
type LinkCreatedEvent struct {
	Slug        string    `json:"slug"`
	OriginalURL string    `json:"originalUrl"`
	BasePath    string    `json:"basePath"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// LinkVisitedEvent is emitted once per successful resolution, after
// the durable hit counter has been incremented.
type LinkVisitedEvent struct {
	Slug      string    `json:"slug"`
	BasePath  string    `json:"basePath"`
	VisitedAt time.Time `json:"visitedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
}
