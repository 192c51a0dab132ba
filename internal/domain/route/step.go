package route

// RouteStep is one maneuver of a route leg. It is immutable once built;
// use StepBuilder to create one.
type RouteStep struct {
	startLocation Coordinate
	endLocation   Coordinate
	distance      int
	duration      int
	travelMode    string
	instructions  string
	points        string
}

// StartLocation returns where the step begins.
func (s RouteStep) StartLocation() Coordinate { return s.startLocation }

// EndLocation returns where the step ends.
func (s RouteStep) EndLocation() Coordinate { return s.endLocation }

// Distance returns the step length in meters.
func (s RouteStep) Distance() int { return s.distance }

// Duration returns the step travel time in seconds.
func (s RouteStep) Duration() int { return s.duration }

// TravelMode returns the travel mode reported for the step, e.g. "DRIVING".
func (s RouteStep) TravelMode() string { return s.travelMode }

// Instructions returns the maneuver text. It may contain HTML markup.
func (s RouteStep) Instructions() string { return s.instructions }

// Points returns the encoded polyline of the step geometry.
func (s RouteStep) Points() string { return s.points }

// StepBuilder collects the fields of a RouteStep. The start and end locations
// are required up front; every other field may be set in any order.
type StepBuilder struct {
	step RouteStep
}

// NewStepBuilder starts a step between start and end.
func NewStepBuilder(start, end Coordinate) *StepBuilder {
	return &StepBuilder{step: RouteStep{startLocation: start, endLocation: end}}
}

// Distance sets the step length in meters. Negative values are stored as 0.
func (b *StepBuilder) Distance(meters int) *StepBuilder {
	b.step.distance = nonNegative(meters)
	return b
}

// Duration sets the step travel time in seconds. Negative values are stored as 0.
func (b *StepBuilder) Duration(seconds int) *StepBuilder {
	b.step.duration = nonNegative(seconds)
	return b
}

// TravelMode sets the travel mode token as reported by the service.
func (b *StepBuilder) TravelMode(mode string) *StepBuilder {
	b.step.travelMode = mode
	return b
}

// Instructions sets the maneuver text.
func (b *StepBuilder) Instructions(instructions string) *StepBuilder {
	b.step.instructions = instructions
	return b
}

// Points sets the encoded polyline of the step.
func (b *StepBuilder) Points(points string) *StepBuilder {
	b.step.points = points
	return b
}

// Build returns the finished step. The builder can keep being used; later
// changes do not affect steps already built.
func (b *StepBuilder) Build() RouteStep {
	return b.step
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
