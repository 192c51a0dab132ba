package route

// City is a place suggestion returned by the autocomplete service.
type City struct {
	id          string
	description string
}

// NewCity creates a City.
func NewCity(id, description string) City {
	return City{id: id, description: description}
}

// ID returns the service's opaque place id.
func (c City) ID() string { return c.id }

// Description returns the display name of the place.
func (c City) Description() string { return c.description }
