package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/brave-warrior/routecache/internal/domain"
	"github.com/brave-warrior/routecache/internal/domain/route"
)

// GormRouteRepository is the GORM-based implementation of route.Repository.
// A route is spread over three tables: one routes row, one steps row per step
// and one locations row per referenced coordinate.
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GormRouteRepository.
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

var _ route.Repository = (*GormRouteRepository)(nil)

// InsertRoute stores a route, its steps and locations in one transaction.
func (r *GormRouteRepository) InsertRoute(ctx context.Context, rt *route.Route) (int64, error) {
	var id int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = insertRoute(tx, rt)
		return err
	})
	if err != nil {
		return 0, domain.NewStorageError("insert route", err)
	}
	return id, nil
}

// ReplaceAll clears the cache and inserts routes in order. Either every route
// is stored or the previous contents are kept.
func (r *GormRouteRepository) ReplaceAll(ctx context.Context, routes []*route.Route) ([]int64, error) {
	ids := make([]int64, 0, len(routes))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAll(tx); err != nil {
			return err
		}
		for _, rt := range routes {
			id, err := insertRoute(tx, rt)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewStorageError("replace routes", err)
	}
	return ids, nil
}

// DeleteAll removes every row from the steps, routes and locations tables.
func (r *GormRouteRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Transaction(deleteAll); err != nil {
		return domain.NewStorageError("delete routes", err)
	}
	return nil
}

// FindAll reconstructs every cached route in insertion order.
func (r *GormRouteRepository) FindAll(ctx context.Context) ([]*route.Route, error) {
	stored, err := r.FindAllStored(ctx)
	if err != nil {
		return nil, err
	}
	routes := make([]*route.Route, len(stored))
	for i, s := range stored {
		routes[i] = s.Route
	}
	return routes, nil
}

// FindAllStored reconstructs every cached route together with its row id.
func (r *GormRouteRepository) FindAllStored(ctx context.Context) ([]route.Stored, error) {
	var stored []route.Stored
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var models []RouteModel
		if err := tx.Order("id").Find(&models).Error; err != nil {
			return fmt.Errorf("failed to list routes: %w", err)
		}

		stored = make([]route.Stored, 0, len(models))
		for i := range models {
			rt, err := loadRoute(tx, &models[i])
			if err != nil {
				return err
			}
			stored = append(stored, route.Stored{ID: models[i].ID, Route: rt})
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewStorageError("find routes", err)
	}
	return stored, nil
}

// FindByID reconstructs one route by row id.
func (r *GormRouteRepository) FindByID(ctx context.Context, id int64) (*route.Route, error) {
	var rt *route.Route
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model RouteModel
		if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
			return err
		}
		var err error
		rt, err = loadRoute(tx, &model)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Route", strconv.FormatInt(id, 10))
		}
		return nil, domain.NewStorageError("find route", err)
	}
	return rt, nil
}

// Stats returns the row count of each cache table.
func (r *GormRouteRepository) Stats(ctx context.Context) (route.CacheStats, error) {
	var stats route.CacheStats
	db := r.db.WithContext(ctx)
	if err := db.Model(&RouteModel{}).Count(&stats.Routes).Error; err != nil {
		return route.CacheStats{}, domain.NewStorageError("count routes", err)
	}
	if err := db.Model(&StepModel{}).Count(&stats.Steps).Error; err != nil {
		return route.CacheStats{}, domain.NewStorageError("count steps", err)
	}
	if err := db.Model(&LocationModel{}).Count(&stats.Locations).Error; err != nil {
		return route.CacheStats{}, domain.NewStorageError("count locations", err)
	}
	return stats, nil
}

// --- Write Helpers ---

// insertRoute writes locations in the order end, start, north-east,
// south-west, then the route row, then each step with its end and start
// locations.
func insertRoute(tx *gorm.DB, rt *route.Route) (int64, error) {
	endLoc, err := insertLocation(tx, rt.EndLocation())
	if err != nil {
		return 0, err
	}
	startLoc, err := insertLocation(tx, rt.StartLocation())
	if err != nil {
		return 0, err
	}
	northEast, err := insertLocation(tx, rt.Bounds().NorthEast())
	if err != nil {
		return 0, err
	}
	southWest, err := insertLocation(tx, rt.Bounds().SouthWest())
	if err != nil {
		return 0, err
	}

	details := rt.Details()
	model := &RouteModel{
		Distance:   rt.Distance(),
		Duration:   rt.Duration(),
		EndAddr:    rt.EndAddress(),
		EndLoc:     endLoc,
		StartAddr:  rt.StartAddress(),
		StartLoc:   startLoc,
		BoundsTL:   northEast,
		BoundsBR:   southWest,
		Polyline:   rt.EncodedPolyline(),
		Copyrights: details.Copyrights(),
		Summary:    details.Summary(),
		Warnings:   details.Warnings(),
	}
	if err := tx.Create(model).Error; err != nil {
		return 0, fmt.Errorf("failed to save route: %w", err)
	}

	for i, step := range rt.Steps() {
		if err := insertStep(tx, model.ID, i, step); err != nil {
			return 0, err
		}
	}
	return model.ID, nil
}

func insertStep(tx *gorm.DB, routeID int64, position int, step route.RouteStep) error {
	endLoc, err := insertLocation(tx, step.EndLocation())
	if err != nil {
		return err
	}
	startLoc, err := insertLocation(tx, step.StartLocation())
	if err != nil {
		return err
	}

	model := &StepModel{
		RouteID:    routeID,
		Position:   position,
		Distance:   step.Distance(),
		Duration:   step.Duration(),
		StartLoc:   startLoc,
		EndLoc:     endLoc,
		TravelMode: step.TravelMode(),
		Instr:      step.Instructions(),
		Points:     step.Points(),
	}
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save step %d: %w", position, err)
	}
	return nil
}

func insertLocation(tx *gorm.DB, c route.Coordinate) (int64, error) {
	model := &LocationModel{Lat: c.Lat, Lng: c.Lng}
	if err := tx.Create(model).Error; err != nil {
		return 0, fmt.Errorf("failed to save location: %w", err)
	}
	return model.ID, nil
}

func deleteAll(tx *gorm.DB) error {
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range cacheModels() {
		if err := all.Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// --- Read Helpers ---

// loadRoute rebuilds a route from its row, its steps ordered by position and
// every referenced location. A dangling location id resolves to (0, 0).
func loadRoute(tx *gorm.DB, m *RouteModel) (*route.Route, error) {
	var steps []StepModel
	if err := tx.Where("route_id = ?", m.ID).Order("position, id").Find(&steps).Error; err != nil {
		return nil, fmt.Errorf("failed to load steps of route %d: %w", m.ID, err)
	}

	ids := []int64{m.EndLoc, m.StartLoc, m.BoundsTL, m.BoundsBR}
	for _, s := range steps {
		ids = append(ids, s.StartLoc, s.EndLoc)
	}
	locs, err := loadLocations(tx, ids)
	if err != nil {
		return nil, err
	}

	domainSteps := make([]route.RouteStep, len(steps))
	for i, s := range steps {
		domainSteps[i] = route.NewStepBuilder(locs[s.StartLoc], locs[s.EndLoc]).
			Distance(s.Distance).
			Duration(s.Duration).
			TravelMode(s.TravelMode).
			Instructions(s.Instr).
			Points(s.Points).
			Build()
	}

	details := route.NewRouteDetails()
	details.SetCopyrights(m.Copyrights)
	details.SetSummary(m.Summary)
	details.SetWarnings(m.Warnings)

	return route.NewRoute(
		m.Distance,
		m.Duration,
		m.StartAddr,
		m.EndAddr,
		locs[m.StartLoc],
		locs[m.EndLoc],
		route.NewRouteBounds(locs[m.BoundsTL], locs[m.BoundsBR]),
		m.Polyline,
		details,
		domainSteps,
	), nil
}

// loadLocations fetches the given location rows keyed by id. Ids without a
// row are absent from the map and read back as the zero Coordinate.
func loadLocations(tx *gorm.DB, ids []int64) (map[int64]route.Coordinate, error) {
	var models []LocationModel
	if err := tx.Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	locs := make(map[int64]route.Coordinate, len(models))
	for _, l := range models {
		locs[l.ID] = route.NewCoordinate(l.Lat, l.Lng)
	}
	return locs, nil
}
