// Package parser converts directions and autocomplete service responses into
// the route domain model.
//
// By default a structurally malformed payload is logged and parsed as an
// empty result. A strict parser returns the first problem as a *ParseError.
package parser

import (
	"fmt"
	"strings"

	"github.com/brave-warrior/routecache/internal/domain/route"
	"go.uber.org/zap"
)

// Response keys.
const (
	keyStatus      = "status"
	keyPredictions = "predictions"
	keyDescription = "description"
	keyID          = "id"

	keyRoutes           = "routes"
	keyLegs             = "legs"
	keySteps            = "steps"
	keyDistance         = "distance"
	keyDuration         = "duration"
	keyHTMLInstructions = "html_instructions"
	keyTravelMode       = "travel_mode"
	keyPolyline         = "polyline"
	keyValue            = "value"
	keyPoints           = "points"
	keyStartLocation    = "start_location"
	keyEndLocation      = "end_location"
	keyLatitude         = "lat"
	keyLongitude        = "lng"
	keyStartAddress     = "start_address"
	keyEndAddress       = "end_address"
	keySummary          = "summary"
	keyCopyrights       = "copyrights"
	keyOverviewPolyline = "overview_polyline"
	keyBounds           = "bounds"
	keyNortheast        = "northeast"
	keySouthwest        = "southwest"
	keyWarnings         = "warnings"
)

// Parser decodes service payloads.
type Parser struct {
	logger *zap.Logger
	strict bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrict makes the parser return structural errors instead of empty results.
func WithStrict(strict bool) Option {
	return func(p *Parser) { p.strict = strict }
}

// New creates a Parser.
func New(logger *zap.Logger, opts ...Option) *Parser {
	p := &Parser{logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Strict reports whether the parser surfaces structural errors.
func (p *Parser) Strict() bool { return p.strict }

// ParseCities extracts place suggestions from an autocomplete response.
// Predictions lacking a description or an id are skipped.
func (p *Parser) ParseCities(raw []byte) ([]route.City, error) {
	const op = "cities"

	root, err := decodeObject(raw)
	if err != nil {
		return []route.City{}, p.fail(op, "", err)
	}
	predictions, err := root.array(keyPredictions)
	if err != nil {
		return []route.City{}, p.fail(op, keyPredictions, err)
	}

	cities := make([]route.City, 0, len(predictions))
	for i, item := range predictions {
		m, ok := item.(map[string]any)
		if !ok {
			p.skip(op, fmt.Sprintf("%s[%d]", keyPredictions, i), errNotObj)
			continue
		}
		obj := object(m)
		if !obj.has(keyDescription) || !obj.has(keyID) {
			p.skip(op, fmt.Sprintf("%s[%d]", keyPredictions, i), errMissing)
			continue
		}
		cities = append(cities, route.NewCity(obj.optString(keyID), obj.optString(keyDescription)))
	}

	return cities, nil
}

// ParseRoutes extracts routes from a directions response. Only the first leg
// of each route is read; without waypoints the service returns exactly one.
func (p *Parser) ParseRoutes(raw []byte) ([]*route.Route, error) {
	const op = "routes"

	root, err := decodeObject(raw)
	if err != nil {
		return []*route.Route{}, p.fail(op, "", err)
	}
	items, err := root.array(keyRoutes)
	if err != nil {
		return []*route.Route{}, p.fail(op, keyRoutes, err)
	}

	routes := make([]*route.Route, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", keyRoutes, i)
		m, ok := item.(map[string]any)
		if !ok {
			return []*route.Route{}, p.fail(op, path, errNotObj)
		}
		r, err := parseRoute(object(m), path)
		if err != nil {
			return []*route.Route{}, p.fail(op, err.path, err.err)
		}
		routes = append(routes, r)
	}

	return routes, nil
}

// ParseStatus reads the top-level status token. A payload that cannot be
// decoded classifies as an unrecognized, unsuccessful status.
func (p *Parser) ParseStatus(raw []byte) (route.ResponseStatus, error) {
	root, err := decodeObject(raw)
	if err != nil {
		return route.ClassifyStatus(""), p.fail("status", "", err)
	}
	return route.ClassifyStatus(root.optString(keyStatus)), nil
}

type pathError struct {
	path string
	err  error
}

func parseRoute(obj object, path string) (*route.Route, *pathError) {
	legsPath := path + "." + keyLegs
	legs, err := obj.array(keyLegs)
	if err != nil {
		return nil, &pathError{legsPath, err}
	}
	if len(legs) == 0 {
		return nil, &pathError{legsPath, errEmpty}
	}
	legMap, ok := legs[0].(map[string]any)
	if !ok {
		return nil, &pathError{legsPath + "[0]", errNotObj}
	}
	leg := object(legMap)

	stepItems, err := leg.array(keySteps)
	if err != nil {
		return nil, &pathError{legsPath + "[0]." + keySteps, err}
	}

	return route.NewRoute(
		leg.nestedInt(keyDistance, keyValue),
		leg.nestedInt(keyDuration, keyValue),
		leg.optString(keyStartAddress),
		leg.optString(keyEndAddress),
		parseLocation(leg, keyStartLocation),
		parseLocation(leg, keyEndLocation),
		parseBounds(obj),
		obj.nestedString(keyOverviewPolyline, keyPoints),
		parseDetails(obj),
		parseSteps(stepItems),
	), nil
}

// parseSteps builds one step per step object; non-object entries are ignored.
func parseSteps(items []any) []route.RouteStep {
	steps := make([]route.RouteStep, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		obj := object(m)

		step := route.NewStepBuilder(parseLocation(obj, keyStartLocation), parseLocation(obj, keyEndLocation)).
			Distance(obj.nestedInt(keyDistance, keyValue)).
			Duration(obj.nestedInt(keyDuration, keyValue)).
			Instructions(obj.optString(keyHTMLInstructions)).
			TravelMode(obj.optString(keyTravelMode)).
			Points(obj.nestedString(keyPolyline, keyPoints)).
			Build()
		steps = append(steps, step)
	}
	return steps
}

func parseBounds(obj object) route.RouteBounds {
	bounds := obj.optObject(keyBounds)
	if bounds == nil {
		return route.NewRouteBounds(route.Coordinate{}, route.Coordinate{})
	}
	return route.NewRouteBounds(parseLocation(bounds, keyNortheast), parseLocation(bounds, keySouthwest))
}

func parseDetails(obj object) *route.RouteDetails {
	warningItems := obj.optArray(keyWarnings)
	warnings := make([]string, 0, len(warningItems))
	for _, w := range warningItems {
		warnings = append(warnings, stringValue(w))
	}

	details := route.NewRouteDetails()
	details.SetCopyrights(obj.optString(keyCopyrights))
	details.SetSummary(obj.optString(keySummary))
	details.SetWarnings(strings.Join(warnings, "\n"))
	return details
}

// parseLocation reads parent[key] as a {lat, lng} object. Missing parts are 0.
func parseLocation(parent object, key string) route.Coordinate {
	loc := parent.optObject(key)
	if loc == nil {
		return route.Coordinate{}
	}
	return route.NewCoordinate(loc.optFloat(keyLatitude, 0), loc.optFloat(keyLongitude, 0))
}

func (p *Parser) fail(op, path string, err error) error {
	perr := &ParseError{Op: op, Path: path, Err: err}
	p.logger.Warn("failed to parse service response",
		zap.String("op", op),
		zap.String("path", path),
		zap.Error(err),
	)
	if p.strict {
		return perr
	}
	return nil
}

func (p *Parser) skip(op, path string, err error) {
	p.logger.Debug("skipping malformed element",
		zap.String("op", op),
		zap.String("path", path),
		zap.Error(err),
	)
}
