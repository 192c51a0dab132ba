package route

import "context"

// CacheStats holds the row counts of the route cache tables.
type CacheStats struct {
	Routes    int64 `json:"routes"`
	Steps     int64 `json:"steps"`
	Locations int64 `json:"locations"`
}

// Repository defines the persistence contract for cached routes.
type Repository interface {
	// InsertRoute stores a route with its steps and locations and returns its row id.
	InsertRoute(ctx context.Context, r *Route) (int64, error)

	// ReplaceAll clears the cache and stores routes in order, atomically.
	ReplaceAll(ctx context.Context, routes []*Route) ([]int64, error)

	// DeleteAll removes every cached route, step and location.
	DeleteAll(ctx context.Context) error

	// FindAll reconstructs every cached route in insertion order.
	FindAll(ctx context.Context) ([]*Route, error)

	// FindAllStored is FindAll with the row id of each route.
	FindAllStored(ctx context.Context) ([]Stored, error)

	// FindByID reconstructs one route by row id.
	FindByID(ctx context.Context, id int64) (*Route, error)

	// Stats returns table row counts.
	Stats(ctx context.Context) (CacheStats, error)
}
