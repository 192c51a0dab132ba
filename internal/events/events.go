// Package events defines the route cache's Kafka topics and payloads and
// connects them to the application services.
package events

import "time"

// Source identifies this service in CloudEvents.
const Source = "routecache"

// Topics.
const (
	TopicRouteEvents     = "routecache.events"
	TopicRefreshRequests = "routecache.requests"
)

// Event types.
const (
	RoutesRefreshed  = "routecache.routes.refreshed"
	RefreshRequested = "routecache.refresh.requested"
)

// RoutesRefreshedEvent is published after the cache was replaced.
type RoutesRefreshedEvent struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Mode        string    `json:"mode"`
	RouteCount  int       `json:"route_count"`
	RouteIDs    []int64   `json:"route_ids"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RefreshRequestedEvent asks the service to refresh its cache.
type RefreshRequestedEvent struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Mode        string    `json:"mode,omitempty"`
	Language    string    `json:"language,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}
