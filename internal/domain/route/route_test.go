package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepBuilder_Build(t *testing.T) {
	start := NewCoordinate(50.45, 30.52)
	end := NewCoordinate(50.46, 30.53)

	step := NewStepBuilder(start, end).
		Points("a~l~Fjk~uOwHJy@P").
		TravelMode("WALKING").
		Instructions("Head <b>north</b>").
		Duration(90).
		Distance(120).
		Build()

	assert.Equal(t, start, step.StartLocation())
	assert.Equal(t, end, step.EndLocation())
	assert.Equal(t, 120, step.Distance())
	assert.Equal(t, 90, step.Duration())
	assert.Equal(t, "WALKING", step.TravelMode())
	assert.Equal(t, "Head <b>north</b>", step.Instructions())
	assert.Equal(t, "a~l~Fjk~uOwHJy@P", step.Points())
}

func TestStepBuilder_Defaults(t *testing.T) {
	step := NewStepBuilder(Coordinate{}, Coordinate{}).Build()

	assert.Zero(t, step.Distance())
	assert.Zero(t, step.Duration())
	assert.Empty(t, step.TravelMode())
	assert.Empty(t, step.Instructions())
	assert.Empty(t, step.Points())
}

func TestStepBuilder_ClampsNegativeValues(t *testing.T) {
	step := NewStepBuilder(Coordinate{}, Coordinate{}).Distance(-5).Duration(-1).Build()

	assert.Zero(t, step.Distance())
	assert.Zero(t, step.Duration())
}

func TestStepBuilder_BuiltStepIsIndependent(t *testing.T) {
	b := NewStepBuilder(Coordinate{}, Coordinate{}).Distance(10)
	first := b.Build()
	b.Distance(20)

	assert.Equal(t, 10, first.Distance())
	assert.Equal(t, 20, b.Build().Distance())
}

func TestRouteBounds_CopiesCorners(t *testing.T) {
	ne := NewCoordinate(51.0, 31.0)
	sw := NewCoordinate(50.0, 30.0)

	bounds := NewRouteBounds(ne, sw)
	ne.Lat = 0
	sw.Lng = 0

	assert.Equal(t, NewCoordinate(51.0, 31.0), bounds.NorthEast())
	assert.Equal(t, NewCoordinate(50.0, 30.0), bounds.SouthWest())
}

func TestRouteDetails_DefaultsAndSetters(t *testing.T) {
	d := NewRouteDetails()
	assert.Empty(t, d.Copyrights())
	assert.Empty(t, d.Summary())
	assert.Empty(t, d.Warnings())

	d.SetCopyrights("Map data ©2024")
	d.SetSummary("E40")
	d.SetWarnings("Walking directions are in beta.")

	assert.Equal(t, "Map data ©2024", d.Copyrights())
	assert.Equal(t, "E40", d.Summary())
	assert.Equal(t, "Walking directions are in beta.", d.Warnings())
}

func TestNewRoute_OwnsStepsAndDetails(t *testing.T) {
	steps := []RouteStep{
		NewStepBuilder(Coordinate{}, Coordinate{}).Distance(1).Build(),
		NewStepBuilder(Coordinate{}, Coordinate{}).Distance(2).Build(),
	}
	details := NewRouteDetails()
	details.SetSummary("M06")

	r := NewRoute(3, 4, "Kyiv", "Lviv", Coordinate{}, Coordinate{},
		NewRouteBounds(Coordinate{}, Coordinate{}), "", details, steps)

	steps[0] = NewStepBuilder(Coordinate{}, Coordinate{}).Distance(99).Build()
	details.SetSummary("changed")

	require.Equal(t, 2, r.StepCount())
	assert.Equal(t, 1, r.Steps()[0].Distance())
	assert.Equal(t, "M06", r.Details().Summary())

	got := r.Steps()
	got[1] = NewStepBuilder(Coordinate{}, Coordinate{}).Distance(42).Build()
	assert.Equal(t, 2, r.Steps()[1].Distance())
}

func TestNewRoute_NilDetails(t *testing.T) {
	r := NewRoute(0, 0, "", "", Coordinate{}, Coordinate{}, RouteBounds{}, "", nil, nil)

	require.NotNil(t, r.Details())
	assert.Empty(t, r.Details().Summary())
	assert.NotNil(t, r.Steps())
	assert.Zero(t, r.StepCount())
}

func TestCity(t *testing.T) {
	c := NewCity("ChIJBUVa4U7P1EAR_kYBF9IxSXY", "Kyiv, Ukraine")
	assert.Equal(t, "ChIJBUVa4U7P1EAR_kYBF9IxSXY", c.ID())
	assert.Equal(t, "Kyiv, Ukraine", c.Description())
}
