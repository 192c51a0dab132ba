package route

// RouteDetails holds the descriptive texts attached to a route. Unlike the
// rest of the model its fields may be changed after construction.
type RouteDetails struct {
	copyrights string
	summary    string
	warnings   string
}

// NewRouteDetails creates details with all fields empty.
func NewRouteDetails() *RouteDetails {
	return &RouteDetails{}
}

// Copyrights returns the attribution text to show with the route.
func (d *RouteDetails) Copyrights() string { return d.copyrights }

// Summary returns the short description of the route, e.g. its main road.
func (d *RouteDetails) Summary() string { return d.summary }

// Warnings returns all warnings of the route, one per line.
func (d *RouteDetails) Warnings() string { return d.warnings }

// SetCopyrights replaces the attribution text.
func (d *RouteDetails) SetCopyrights(copyrights string) { d.copyrights = copyrights }

// SetSummary replaces the route summary.
func (d *RouteDetails) SetSummary(summary string) { d.summary = summary }

// SetWarnings replaces the warnings; separate several with "\n".
func (d *RouteDetails) SetWarnings(warnings string) { d.warnings = warnings }

func (d *RouteDetails) clone() *RouteDetails {
	if d == nil {
		return NewRouteDetails()
	}
	cp := *d
	return &cp
}
