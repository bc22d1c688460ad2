// Package ratelimit paces outgoing probe requests so a run never bursts a
// shared backend.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer spaces requests to at most rps per second. A nil Pacer never waits.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer returns nil when rps is zero or negative.
func NewPacer(rps int) *Pacer {
	if rps <= 0 {
		return nil
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until the next request may be sent or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// Limit returns the configured requests per second, 0 for an unpaced Pacer.
func (p *Pacer) Limit() float64 {
	if p == nil {
		return 0
	}
	return float64(p.limiter.Limit())
}
