// Package ratelimit provides the fixed-interval gate the sync loop calls
// before every fetch. The delay protects the remote origin and is part of
// the sync contract, not a performance knob: it applies even when the
// previous installation was unmatched or failed. Modeling it as an
// injected interface keeps the timing contract testable without
// wall-clock sleeps.
package ratelimit

import (
	"context"
	"time"
)

// Gate blocks until the next request is allowed to go out.
type Gate interface {
	Wait(ctx context.Context) error
}

// IntervalGate enforces a minimum spacing between consecutive Wait calls.
// The first call passes immediately. Not safe for concurrent use; the sync
// loop is strictly sequential.
type IntervalGate struct {
	interval time.Duration
	last     time.Time

	// overridable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewInterval creates a gate with the given minimum spacing.
func NewInterval(interval time.Duration) *IntervalGate {
	return &IntervalGate{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until at least the configured interval has passed since the
// previous call, or the context is canceled.
func (g *IntervalGate) Wait(ctx context.Context) error {
	now := g.now()
	if !g.last.IsZero() {
		if remaining := g.interval - now.Sub(g.last); remaining > 0 {
			if err := g.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	g.last = g.now()
	return nil
}

// sleepContext sleeps for d unless the context is canceled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// nopGate passes every call through. Used by tests and dry runs.
type nopGate struct{}

func (nopGate) Wait(context.Context) error { return nil }

// Nop returns a gate that never blocks.
func Nop() Gate { return nopGate{} }
