package fetch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerMinute is the Polygon free-tier ceiling.
const DefaultRequestsPerMinute = 5

// RateLimiter paces requests against the provider ceiling.
type RateLimiter interface {
	// Mark claims the slot for the first request of a fetch. It returns at
	// once unless another fetch sharing the limiter holds the current slot.
	Mark(ctx context.Context) error
	// Wait blocks until the next request may be issued. It fails only when ctx is done.
	Wait(ctx context.Context) error
}

// Limiter enforces a fixed minimum delay between permitted requests.
// It is safe for concurrent use, so one Limiter can be shared by every fetch on a credential.
type Limiter struct {
	lim   *rate.Limiter
	delay time.Duration
}

// DelayFor converts a requests-per-minute ceiling into the minimum inter-request delay (5/min → 12s).
func DelayFor(requestsPerMinute int) time.Duration {
	if requestsPerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(requestsPerMinute)
}

// NewLimiter creates a limiter with minimum delay d. d <= 0 disables pacing.
func NewLimiter(d time.Duration) *Limiter {
	limit := rate.Inf
	if d > 0 {
		limit = rate.Every(d)
	}
	return &Limiter{lim: rate.NewLimiter(limit, 1), delay: d}
}

// Delay returns the configured minimum delay.
func (l *Limiter) Delay() time.Duration { return l.delay }

// Mark takes the initial token, so the next Wait is measured from now.
// On a limiter shared across fetches it blocks like Wait.
func (l *Limiter) Mark(ctx context.Context) error {
	return l.lim.Wait(ctx)
}

// Wait sleeps for at most the configured delay.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.lim.Wait(ctx)
}
