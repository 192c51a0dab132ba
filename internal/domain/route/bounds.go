package route

// Coordinate is a latitude/longitude pair in degrees. No range validation is
// applied; the zero value is (0, 0).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinate creates a Coordinate.
func NewCoordinate(lat, lng float64) Coordinate {
	return Coordinate{Lat: lat, Lng: lng}
}

// RouteBounds is the northeast/southwest rectangle enclosing a route.
type RouteBounds struct {
	northEast Coordinate
	southWest Coordinate
}

// NewRouteBounds creates bounds holding their own copies of both corners.
func NewRouteBounds(northEast, southWest Coordinate) RouteBounds {
	return RouteBounds{northEast: northEast, southWest: southWest}
}

// NorthEast returns the northeast corner.
func (b RouteBounds) NorthEast() Coordinate { return b.northEast }

// SouthWest returns the southwest corner.
func (b RouteBounds) SouthWest() Coordinate { return b.southWest }
