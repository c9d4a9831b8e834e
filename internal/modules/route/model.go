// README: Route request/candidate types and the provider boundary.
package route

import (
	"context"
	"fmt"
)

// Request is one mileage lookup: pickup, destination and ordered stops.
type Request struct {
	Pickup      string   `json:"pickup"`
	Destination string   `json:"destination"`
	Stops       []string `json:"stops,omitempty"`
}

// Query is what the router receives once every address has a place id.
type Query struct {
	OriginPlaceID      string
	DestinationPlaceID string
	WaypointPlaceIDs   []string
}

// Candidate is one route alternative returned by the provider.
type Candidate struct {
	Summary   string
	Warnings  []string
	LegMeters []int
}

// Meters sums the leg distances.
func (c Candidate) Meters() int {
	total := 0
	for _, m := range c.LegMeters {
		total += m
	}
	return total
}

type Result struct {
	Miles    float64  `json:"miles"`
	Meters   int      `json:"meters"`
	Summary  string   `json:"summary,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r Result) Status() string {
	return fmt.Sprintf("Route calculated: %s miles", formatMiles(r.Miles))
}

// Geocoder resolves a free-text address to a stable place id.
type Geocoder interface {
	PlaceID(ctx context.Context, address string) (string, error)
}

// Router returns driving route alternatives for a resolved query.
type Router interface {
	Routes(ctx context.Context, q Query) ([]Candidate, error)
}

// PlaceCache stores geocoding results between lookups.
type PlaceCache interface {
	Get(ctx context.Context, address string) (string, bool, error)
	Set(ctx context.Context, address, placeID string) error
}
