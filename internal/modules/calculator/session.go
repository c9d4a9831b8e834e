// README: Live calculator session. Quote inputs recompute immediately; address
// changes resolve mileage after a quiet period.
package calculator

import (
	"context"
	"sync"
	"time"

	"removals/internal/modules/pricing"
	"removals/internal/modules/route"
	"removals/internal/types"
)

// Resolver is the part of route.Service a session needs.
type Resolver interface {
	Resolve(ctx context.Context, req route.Request) (route.Result, error)
	MaxStops() int
}

type Inputs struct {
	VanSize     pricing.VanSize `json:"vanSize"`
	LoaderCount int             `json:"loaders"`
	Hours       float64         `json:"hours"`
}

// Update is pushed to the client after every recomputation.
type Update struct {
	Type      string            `json:"type"`
	Inputs    Inputs            `json:"inputs"`
	Miles     float64           `json:"miles"`
	Status    string            `json:"status,omitempty"`
	Breakdown pricing.Breakdown `json:"breakdown"`
	Total     string            `json:"total"`
}

type Session struct {
	resolver Resolver
	debounce *route.Debouncer
	onUpdate func(Update)
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	inputs Inputs
	miles  float64
	status string
	closed bool

	emitMu sync.Mutex
}

// NewSession starts a session with a minimum quote and zero miles. onUpdate
// is never called concurrently with itself.
func NewSession(resolver Resolver, wait, timeout time.Duration, onUpdate func(Update)) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Session{
		resolver: resolver,
		debounce: route.NewDebouncer(wait),
		onUpdate: onUpdate,
		timeout:  timeout,
		ctx:      ctx,
		cancel:   cancel,
		inputs:   Inputs{VanSize: pricing.VanSmall, Hours: pricing.MinHours},
	}
}

// SetInputs replaces the quote inputs and emits an update straight away.
func (s *Session) SetInputs(in Inputs) error {
	err := pricing.Validate(pricing.QuoteRequest{VanSize: in.VanSize, LoaderCount: in.LoaderCount, RequestedHours: in.Hours})
	if err != nil {
		return err
	}
	s.commit(func() { s.inputs = in })
	return nil
}

// SetAddresses schedules a mileage lookup for the new address set. Calls in
// quick succession collapse into one lookup.
func (s *Session) SetAddresses(req route.Request) {
	s.debounce.Trigger(func() { s.resolve(req) })
}

// Snapshot returns the current state without emitting it.
func (s *Session) Snapshot() Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close cancels any pending lookup. No update is emitted afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.debounce.Stop()
	s.cancel()
}

func (s *Session) resolve(req route.Request) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	res, err := s.resolver.Resolve(ctx, req)

	s.commit(func() {
		if err != nil {
			// keep the last good mileage
			s.status = route.StatusMessage(err, s.resolver.MaxStops())
			return
		}
		s.miles = res.Miles
		s.status = res.Status()
	})
}

func (s *Session) snapshotLocked() Update {
	b := pricing.Calculate(pricing.QuoteRequest{
		VanSize:        s.inputs.VanSize,
		LoaderCount:    s.inputs.LoaderCount,
		RequestedHours: s.inputs.Hours,
		Miles:          s.miles,
	})
	return Update{
		Type:      "update",
		Inputs:    s.inputs,
		Miles:     s.miles,
		Status:    s.status,
		Breakdown: b,
		Total:     types.FormatGBP(b.Total),
	}
}

// commit applies a state change and delivers the resulting update as one
// step, so updates reach the client in the order the state changed.
func (s *Session) commit(apply func()) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	apply()
	u := s.snapshotLocked()
	s.mu.Unlock()

	if s.onUpdate != nil {
		s.onUpdate(u)
	}
}
