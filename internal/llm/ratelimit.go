package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitProvider throttles outgoing requests with a token bucket so
// concurrent card conversions stay under a provider's per-minute quota.
type RateLimitProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit allows perMinute requests per minute with a burst of the
// same size spread over the minute.
func WithRateLimit(p Provider, perMinute int) Provider {
	burst := perMinute / 6
	if burst < 1 {
		burst = 1
	}
	return &RateLimitProvider{
		inner:   p,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
	}
}

func (r *RateLimitProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	// Wait fails early when the deadline is too close for the next token.
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &ErrThrottled{Purpose: PurposeFrom(ctx), Err: err}
	}
	return r.inner.Generate(ctx, req)
}

func (r *RateLimitProvider) ModelID() string {
	return r.inner.ModelID()
}

// TimeoutProvider bounds each Generate call, retries included.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so every call is cancelled after d.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
