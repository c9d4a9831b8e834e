// README: Pricing service validates transport input and computes quotes.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"removals/internal/metrics"
)

const (
	MaxLoaders = 3
	MaxHours   = 12.0
	MinInput   = 1.0
	MaxMiles   = 100.0
)

var ErrBadRequest = errors.New("bad request")

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Validate checks the ranges the public endpoints accept. Calculate itself
// accepts anything.
func Validate(req QuoteRequest) error {
	switch {
	case !req.VanSize.Valid():
		return fmt.Errorf("%w: unknown van size %q", ErrBadRequest, req.VanSize)
	case req.LoaderCount < 0 || req.LoaderCount > MaxLoaders:
		return fmt.Errorf("%w: loaders must be between 0 and %d", ErrBadRequest, MaxLoaders)
	case req.RequestedHours < MinInput || req.RequestedHours > MaxHours:
		return fmt.Errorf("%w: hours must be between 1 and 12", ErrBadRequest)
	case req.Miles < 0 || req.Miles > MaxMiles:
		return fmt.Errorf("%w: miles must be between 0 and 100", ErrBadRequest)
	}
	return nil
}

func (s *Service) Estimate(ctx context.Context, req QuoteRequest) (Breakdown, error) {
	if err := Validate(req); err != nil {
		return Breakdown{}, err
	}
	metrics.QuotesCalculated.WithLabelValues(string(req.VanSize)).Inc()
	return Calculate(req), nil
}
