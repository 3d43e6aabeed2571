package gateway

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter 控制发布速率，避免触发场所限流。
type RateLimiter struct {
	l *rate.Limiter
}

// NewRateLimiter allows rps events per second with the given burst.
// rps <= 0 disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &RateLimiter{l: rate.NewLimiter(limit, burst)}
}

// Wait blocks until an event is allowed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.l.Wait(ctx)
}
