package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"github.com/brave-warrior/routecache/internal/client"
	"github.com/brave-warrior/routecache/internal/domain"
	"github.com/brave-warrior/routecache/internal/domain/route"
	"github.com/brave-warrior/routecache/internal/parser"
	"github.com/brave-warrior/routecache/internal/polyline"
)

// DirectionsFetcher retrieves raw directions responses.
type DirectionsFetcher interface {
	FetchDirections(ctx context.Context, req client.DirectionsRequest) ([]byte, error)
}

// RoutesRefreshed describes a completed refresh for event subscribers.
type RoutesRefreshed struct {
	Origin      string
	Destination string
	Mode        string
	RouteIDs    []int64
	OccurredAt  time.Time
}

// EventPublisher announces cache changes.
type EventPublisher interface {
	PublishRoutesRefreshed(ctx context.Context, evt RoutesRefreshed) error
}

// NopPublisher discards events. It is used when Kafka is disabled.
type NopPublisher struct{}

// PublishRoutesRefreshed does nothing.
func (NopPublisher) PublishRoutesRefreshed(context.Context, RoutesRefreshed) error { return nil }

// RouteService is the application service for the route cache.
type RouteService struct {
	repo      route.Repository
	fetcher   DirectionsFetcher
	parser    *parser.Parser
	publisher EventPublisher
	logger    *zap.Logger

	// writeMu serializes cache writes; the store has a single writer.
	writeMu sync.Mutex
}

// NewRouteService creates a new RouteService.
func NewRouteService(
	repo route.Repository,
	fetcher DirectionsFetcher,
	p *parser.Parser,
	publisher EventPublisher,
	logger *zap.Logger,
) *RouteService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &RouteService{
		repo:      repo,
		fetcher:   fetcher,
		parser:    p,
		publisher: publisher,
		logger:    logger,
	}
}

// RefreshRoutes fetches directions and replaces the cached routes with the
// result. A response whose status is not OK, or that yields no routes,
// leaves the cache untouched and returns an UpstreamError.
func (s *RouteService) RefreshRoutes(ctx context.Context, req RefreshRequest) (*RefreshResult, error) {
	mode := maps.Mode(strings.ToLower(req.Mode))
	if mode == "" {
		mode = maps.TravelModeDriving
	}

	body, err := s.fetcher.FetchDirections(ctx, client.DirectionsRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Mode:        mode,
		Language:    req.Language,
	})
	if err != nil {
		return nil, err
	}

	status, err := s.parser.ParseStatus(body)
	if err != nil {
		return nil, domain.NewUpstreamError("", fmt.Sprintf("unreadable directions response: %v", err))
	}
	if !status.Success() {
		s.logger.Warn("directions request rejected",
			zap.String("origin", req.Origin),
			zap.String("destination", req.Destination),
			zap.String("status", status.Raw()),
		)
		return nil, statusError(status)
	}

	routes, err := s.parser.ParseRoutes(body)
	if err != nil {
		return nil, domain.NewUpstreamError(status.Raw(), fmt.Sprintf("unreadable directions response: %v", err))
	}
	if len(routes) == 0 {
		return nil, domain.NewUpstreamError(status.Raw(), "directions response contained no usable routes")
	}

	s.writeMu.Lock()
	ids, err := s.repo.ReplaceAll(ctx, routes)
	s.writeMu.Unlock()
	if err != nil {
		s.logger.Error("failed to store routes", zap.Error(err))
		return nil, fmt.Errorf("failed to store routes: %w", err)
	}

	s.logger.Info("route cache refreshed",
		zap.String("origin", req.Origin),
		zap.String("destination", req.Destination),
		zap.String("mode", string(mode)),
		zap.Int("routes", len(ids)),
	)

	evt := RoutesRefreshed{
		Origin:      req.Origin,
		Destination: req.Destination,
		Mode:        string(mode),
		RouteIDs:    ids,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.publisher.PublishRoutesRefreshed(ctx, evt); err != nil {
		s.logger.Error("failed to publish routes refreshed event", zap.Error(err))
	}

	dtos := make([]RouteDTO, len(routes))
	for i, r := range routes {
		dtos[i] = toRouteDTO(ids[i], r, false)
	}
	return &RefreshResult{
		Origin:      req.Origin,
		Destination: req.Destination,
		Mode:        string(mode),
		Status:      string(status.Kind()),
		RouteIDs:    ids,
		Routes:      dtos,
	}, nil
}

// ListRoutes returns every cached route without steps.
func (s *RouteService) ListRoutes(ctx context.Context) ([]RouteDTO, error) {
	stored, err := s.repo.FindAllStored(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	dtos := make([]RouteDTO, len(stored))
	for i, st := range stored {
		dtos[i] = toRouteDTO(st.ID, st.Route, false)
	}
	return dtos, nil
}

// GetRoute returns one cached route with its steps.
func (s *RouteService) GetRoute(ctx context.Context, id int64) (*RouteDTO, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toRouteDTO(id, r, true)
	return &dto, nil
}

// RoutePath decodes the overview geometry of a cached route.
func (s *RouteService) RoutePath(ctx context.Context, id int64) (*PathDTO, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	points, err := DecodeOverview(r)
	if err != nil {
		return nil, err
	}
	return &PathDTO{RouteID: id, Points: points}, nil
}

// StepPath decodes the geometry of the step at position.
func (s *RouteService) StepPath(ctx context.Context, id int64, position int) (*PathDTO, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	steps := r.Steps()
	if position < 0 || position >= len(steps) {
		return nil, domain.NewNotFoundError("Step", fmt.Sprintf("%d/%d", id, position))
	}
	points, err := decodePath(steps[position].Points())
	if err != nil {
		return nil, fmt.Errorf("failed to decode step %d of route %d: %w", position, id, err)
	}
	return &PathDTO{RouteID: id, Step: &position, Points: points}, nil
}

// ClearRoutes removes every cached route.
func (s *RouteService) ClearRoutes(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear routes: %w", err)
	}
	s.logger.Info("route cache cleared")
	return nil
}

// CacheStats returns the table row counts of the cache.
func (s *RouteService) CacheStats(ctx context.Context) (route.CacheStats, error) {
	return s.repo.Stats(ctx)
}

// DecodeOverview decodes a route's overview polyline into coordinates.
func DecodeOverview(r *route.Route) ([]route.Coordinate, error) {
	points, err := decodePath(r.EncodedPolyline())
	if err != nil {
		return nil, fmt.Errorf("failed to decode route overview: %w", err)
	}
	return points, nil
}

func decodePath(encoded string) ([]route.Coordinate, error) {
	points, err := polyline.Decode(encoded)
	if err != nil {
		// The geometry was stored as received from the directions service.
		return nil, domain.NewUpstreamError("", err.Error())
	}
	coords := make([]route.Coordinate, len(points))
	for i, p := range points {
		coords[i] = route.NewCoordinate(p.Lat, p.Lng)
	}
	return coords, nil
}

// statusError reports a non-OK service status. Unrecognized tokens keep
// their raw text; their display message would claim success.
func statusError(status route.ResponseStatus) error {
	if status.IsUnrecognized() {
		return domain.NewUpstreamError(status.Raw(), fmt.Sprintf("unrecognized response status %q", status.Raw()))
	}
	return domain.NewUpstreamError(string(status.Kind()), status.Message())
}
