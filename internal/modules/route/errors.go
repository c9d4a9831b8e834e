package route

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAddress  = errors.New("enter pickup and destination addresses")
	ErrAddressNotFound = errors.New("could not find valid addresses")
	ErrTooManyStops    = errors.New("too many stops")
	ErrNoRoute         = errors.New("no routes available")
	ErrNotConfigured   = errors.New("mapping provider not configured")
)

// RoutingError carries a non-success status reported by the provider.
type RoutingError struct {
	Status string
	Err    error
}

func (e *RoutingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("routing failed: %s: %v", e.Status, e.Err)
	}
	return "routing failed: " + e.Status
}

func (e *RoutingError) Unwrap() error { return e.Err }

// StatusMessage is the user-visible status line for a failed lookup.
func StatusMessage(err error, maxStops int) string {
	var rerr *RoutingError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAddress):
		return "Enter pickup and destination addresses"
	case errors.Is(err, ErrAddressNotFound):
		return "Could not find valid addresses"
	case errors.Is(err, ErrTooManyStops):
		return fmt.Sprintf("Too many stops (max %d)", maxStops)
	case errors.Is(err, ErrNotConfigured):
		return "Maps not available"
	case errors.As(err, &rerr):
		return "Route calculation failed: " + rerr.Status
	case errors.Is(err, ErrNoRoute):
		return "Unable to calculate route"
	default:
		return "Route calculation failed"
	}
}
