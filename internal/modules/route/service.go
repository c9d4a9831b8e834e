// README: Distance resolver; geocodes addresses, requests routes and reduces the best one to miles.
package route

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"removals/internal/metrics"
)

const DefaultMaxStops = 5

type Config struct {
	MaxStops int
}

type Service struct {
	geocoder Geocoder
	router   Router
	cache    PlaceCache
	cfg      Config
	log      *slog.Logger
}

// NewService wires the resolver. cache may be nil. A nil geocoder or router
// makes every lookup fail with ErrNotConfigured.
func NewService(geocoder Geocoder, router Router, cache PlaceCache, cfg Config, log *slog.Logger) *Service {
	if cfg.MaxStops <= 0 {
		cfg.MaxStops = DefaultMaxStops
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{geocoder: geocoder, router: router, cache: cache, cfg: cfg, log: log}
}

func (s *Service) MaxStops() int { return s.cfg.MaxStops }

// Resolve turns a pickup, destination and stops into a driving mileage.
// Any address that cannot be geocoded aborts the lookup; no partial mileage
// is ever returned.
func (s *Service) Resolve(ctx context.Context, req Request) (Result, error) {
	if s.geocoder == nil || s.router == nil {
		return Result{}, ErrNotConfigured
	}
	pickup := strings.TrimSpace(req.Pickup)
	destination := strings.TrimSpace(req.Destination)
	if pickup == "" || destination == "" {
		return Result{}, ErrMissingAddress
	}
	var stops []string
	for _, stop := range req.Stops {
		if v := strings.TrimSpace(stop); v != "" {
			stops = append(stops, v)
		}
	}
	if len(stops) > s.cfg.MaxStops {
		return Result{}, fmt.Errorf("%w: %d given, max %d", ErrTooManyStops, len(stops), s.cfg.MaxStops)
	}

	q := Query{}
	var err error
	if q.OriginPlaceID, err = s.placeID(ctx, pickup); err != nil {
		return Result{}, err
	}
	if q.DestinationPlaceID, err = s.placeID(ctx, destination); err != nil {
		return Result{}, err
	}
	for _, stop := range stops {
		id, err := s.placeID(ctx, stop)
		if err != nil {
			return Result{}, err
		}
		q.WaypointPlaceIDs = append(q.WaypointPlaceIDs, id)
	}

	candidates, err := s.router.Routes(ctx, q)
	if err != nil {
		var rerr *RoutingError
		if errors.As(err, &rerr) {
			s.log.Warn("directions request failed", "status", rerr.Status)
			return Result{}, err
		}
		return Result{}, &RoutingError{Status: "REQUEST_FAILED", Err: err}
	}
	best, err := SelectBest(candidates)
	if err != nil {
		return Result{}, err
	}

	meters := best.Meters()
	return Result{
		Miles:    MetersToMiles(float64(meters), 1),
		Meters:   meters,
		Summary:  best.Summary,
		Warnings: best.Warnings,
	}, nil
}

func (s *Service) placeID(ctx context.Context, address string) (string, error) {
	key := strings.ToLower(address)
	if s.cache != nil {
		id, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.GeocodeCache.WithLabelValues("error").Inc()
			s.log.Warn("geocode cache get failed", "err", err)
		case ok:
			metrics.GeocodeCache.WithLabelValues("hit").Inc()
			return id, nil
		default:
			metrics.GeocodeCache.WithLabelValues("miss").Inc()
		}
	}

	id, err := s.geocoder.PlaceID(ctx, address)
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return "", fmt.Errorf("%w: %q", ErrAddressNotFound, address)
		}
		s.log.Warn("geocode failed", "address", address, "err", err)
		var rerr *RoutingError
		if errors.As(err, &rerr) {
			return "", err
		}
		return "", &RoutingError{Status: "GEOCODE_FAILED", Err: err}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, id); err != nil {
			s.log.Warn("geocode cache set failed", "err", err)
		}
	}
	return id, nil
}
