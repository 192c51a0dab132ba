package route

// Route is the aggregate root for one directions result: a single leg from
// origin to destination with its ordered steps.
//
// A Route exclusively owns its steps, bounds and details. Constructors and
// accessors copy the step slice so no two routes share state.
type Route struct {
	distance        int
	duration        int
	startAddress    string
	endAddress      string
	startLocation   Coordinate
	endLocation     Coordinate
	bounds          RouteBounds
	encodedPolyline string
	details         *RouteDetails
	steps           []RouteStep
}

// NewRoute assembles a Route. A nil details value is replaced by empty details.
func NewRoute(
	distance int,
	duration int,
	startAddress string,
	endAddress string,
	startLocation Coordinate,
	endLocation Coordinate,
	bounds RouteBounds,
	encodedPolyline string,
	details *RouteDetails,
	steps []RouteStep,
) *Route {
	return &Route{
		distance:        distance,
		duration:        duration,
		startAddress:    startAddress,
		endAddress:      endAddress,
		startLocation:   startLocation,
		endLocation:     endLocation,
		bounds:          bounds,
		encodedPolyline: encodedPolyline,
		details:         details.clone(),
		steps:           copySteps(steps),
	}
}

// --- Getters ---

// Distance returns the total route length in meters.
func (r *Route) Distance() int { return r.distance }

// Duration returns the total travel time in seconds.
func (r *Route) Duration() int { return r.duration }

// StartAddress returns the human-readable origin address.
func (r *Route) StartAddress() string { return r.startAddress }

// EndAddress returns the human-readable destination address.
func (r *Route) EndAddress() string { return r.endAddress }

// StartLocation returns the origin coordinate.
func (r *Route) StartLocation() Coordinate { return r.startLocation }

// EndLocation returns the destination coordinate.
func (r *Route) EndLocation() Coordinate { return r.endLocation }

// Bounds returns the viewport rectangle of the route.
func (r *Route) Bounds() RouteBounds { return r.bounds }

// EncodedPolyline returns the overview geometry in polyline encoding.
func (r *Route) EncodedPolyline() string { return r.encodedPolyline }

// Details returns the route's mutable details record.
func (r *Route) Details() *RouteDetails { return r.details }

// Steps returns a copy of the ordered steps.
func (r *Route) Steps() []RouteStep { return copySteps(r.steps) }

// StepCount returns the number of steps without copying them.
func (r *Route) StepCount() int { return len(r.steps) }

func copySteps(steps []RouteStep) []RouteStep {
	out := make([]RouteStep, len(steps))
	copy(out, steps)
	return out
}

// Stored pairs a Route with the row id the persistence layer assigned to it.
type Stored struct {
	ID    int64
	Route *Route
}
