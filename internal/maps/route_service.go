package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"removals/internal/metrics"
	"removals/internal/modules/route"
)

// RouteService geocodes addresses and requests driving directions from
// Google Maps. It implements route.Geocoder and route.Router.
type RouteService struct {
	client  *maps.Client
	country string
	region  string
}

// NewRouteService creates a RouteService with the given API key. Geocoding is
// restricted to country (ISO 3166-1, e.g. "GB").
func NewRouteService(apiKey, country string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client, country: country, region: regionFor(country)}, nil
}

// PlaceID returns the place id of the first geocoding match for address.
func (s *RouteService) PlaceID(ctx context.Context, address string) (string, error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:    address,
		Components: map[maps.Component]string{maps.ComponentCountry: s.country},
		Region:     s.region,
	})
	if err != nil {
		if isNoResults(err) {
			metrics.MapsCalls.WithLabelValues("geocode", "not_found").Inc()
			return "", route.ErrAddressNotFound
		}
		metrics.MapsCalls.WithLabelValues("geocode", "error").Inc()
		return "", &route.RoutingError{Status: providerStatus(err), Err: err}
	}
	if len(results) == 0 || results[0].PlaceID == "" {
		metrics.MapsCalls.WithLabelValues("geocode", "not_found").Inc()
		return "", route.ErrAddressNotFound
	}
	metrics.MapsCalls.WithLabelValues("geocode", "ok").Inc()
	return results[0].PlaceID, nil
}

// Routes requests toll-avoiding driving alternatives through the ordered waypoints.
func (s *RouteService) Routes(ctx context.Context, q route.Query) ([]route.Candidate, error) {
	waypoints := make([]string, 0, len(q.WaypointPlaceIDs))
	for _, id := range q.WaypointPlaceIDs {
		waypoints = append(waypoints, placeRef(id))
	}
	r := &maps.DirectionsRequest{
		Origin:       placeRef(q.OriginPlaceID),
		Destination:  placeRef(q.DestinationPlaceID),
		Waypoints:    waypoints,
		Mode:         maps.TravelModeDriving,
		Avoid:        []maps.Avoid{maps.AvoidTolls},
		Alternatives: true,
		Region:       s.region,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		metrics.MapsCalls.WithLabelValues("directions", "error").Inc()
		return nil, &route.RoutingError{Status: providerStatus(err), Err: err}
	}
	metrics.MapsCalls.WithLabelValues("directions", "ok").Inc()

	candidates := make([]route.Candidate, 0, len(routes))
	for _, rt := range routes {
		c := route.Candidate{Summary: rt.Summary, Warnings: rt.Warnings}
		for _, leg := range rt.Legs {
			if leg == nil {
				continue
			}
			c.LegMeters = append(c.LegMeters, leg.Distance.Meters)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func placeRef(id string) string {
	return "place_id:" + id
}

// regionFor maps a country code to the ccTLD region bias the API expects.
func regionFor(country string) string {
	if strings.EqualFold(country, "GB") {
		return "uk"
	}
	return strings.ToLower(country)
}

// providerStatus extracts the API status from errors shaped "maps: STATUS - message".
func providerStatus(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "maps: "); ok {
		if status, _, found := strings.Cut(rest, " "); found && status != "" {
			return status
		}
		return rest
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT"
	}
	return "UNKNOWN_ERROR"
}

func isNoResults(err error) bool {
	status := providerStatus(err)
	return status == "ZERO_RESULTS" || status == "NOT_FOUND"
}
