package application

import (
	"github.com/brave-warrior/routecache/internal/domain/route"
)

// RefreshRequest asks for fresh directions between two places.
type RefreshRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Mode        string `json:"mode"`
	Language    string `json:"language"`
}

// RefreshResult reports what a refresh stored.
type RefreshResult struct {
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Mode        string     `json:"mode"`
	Status      string     `json:"status"`
	RouteIDs    []int64    `json:"route_ids"`
	Routes      []RouteDTO `json:"routes"`
}

// BoundsDTO is the API representation of a route viewport.
type BoundsDTO struct {
	NorthEast route.Coordinate `json:"northeast"`
	SouthWest route.Coordinate `json:"southwest"`
}

// RouteStepDTO is the API representation of one step.
type RouteStepDTO struct {
	Position      int              `json:"position"`
	Distance      int              `json:"distance"`
	DistanceText  string           `json:"distance_text"`
	Duration      int              `json:"duration"`
	DurationText  string           `json:"duration_text"`
	TravelMode    string           `json:"travel_mode"`
	Instructions  string           `json:"instructions"`
	Points        string           `json:"points"`
	StartLocation route.Coordinate `json:"start_location"`
	EndLocation   route.Coordinate `json:"end_location"`
}

// RouteDTO is the API representation of a cached route. Steps are only
// filled for single-route reads.
type RouteDTO struct {
	ID            int64            `json:"id"`
	Distance      int              `json:"distance"`
	DistanceText  string           `json:"distance_text"`
	Duration      int              `json:"duration"`
	DurationText  string           `json:"duration_text"`
	StartAddress  string           `json:"start_address"`
	EndAddress    string           `json:"end_address"`
	StartLocation route.Coordinate `json:"start_location"`
	EndLocation   route.Coordinate `json:"end_location"`
	Bounds        BoundsDTO        `json:"bounds"`
	Polyline      string           `json:"polyline"`
	Summary       string           `json:"summary"`
	Copyrights    string           `json:"copyrights"`
	Warnings      string           `json:"warnings,omitempty"`
	StepCount     int              `json:"step_count"`
	Steps         []RouteStepDTO   `json:"steps,omitempty"`
}

// PathDTO is a decoded polyline.
type PathDTO struct {
	RouteID int64              `json:"route_id"`
	Step    *int               `json:"step,omitempty"`
	Points  []route.Coordinate `json:"points"`
}

// CityDTO is the API representation of a place suggestion.
type CityDTO struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

func toRouteDTO(id int64, r *route.Route, withSteps bool) RouteDTO {
	dto := RouteDTO{
		ID:            id,
		Distance:      r.Distance(),
		DistanceText:  ReadableDistance(r.Distance()),
		Duration:      r.Duration(),
		DurationText:  ReadableDuration(r.Duration(), false),
		StartAddress:  r.StartAddress(),
		EndAddress:    r.EndAddress(),
		StartLocation: r.StartLocation(),
		EndLocation:   r.EndLocation(),
		Bounds: BoundsDTO{
			NorthEast: r.Bounds().NorthEast(),
			SouthWest: r.Bounds().SouthWest(),
		},
		Polyline:   r.EncodedPolyline(),
		Summary:    r.Details().Summary(),
		Copyrights: r.Details().Copyrights(),
		Warnings:   r.Details().Warnings(),
		StepCount:  r.StepCount(),
	}
	if withSteps {
		steps := r.Steps()
		dto.Steps = make([]RouteStepDTO, len(steps))
		for i, s := range steps {
			dto.Steps[i] = toRouteStepDTO(i, s)
		}
	}
	return dto
}

func toRouteStepDTO(position int, s route.RouteStep) RouteStepDTO {
	return RouteStepDTO{
		Position:      position,
		Distance:      s.Distance(),
		DistanceText:  ReadableDistance(s.Distance()),
		Duration:      s.Duration(),
		DurationText:  ReadableDuration(s.Duration(), true),
		TravelMode:    s.TravelMode(),
		Instructions:  s.Instructions(),
		Points:        s.Points(),
		StartLocation: s.StartLocation(),
		EndLocation:   s.EndLocation(),
	}
}

func toCityDTO(c route.City) CityDTO {
	return CityDTO{ID: c.ID(), Description: c.Description()}
}
