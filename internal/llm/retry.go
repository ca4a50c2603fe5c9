package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider repeats calls that failed for a reason another attempt
// could clear: an outage, a rate limit or a reply that missed the schema.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps p so a failed call is tried up to cfg.MaxAttempts
// times. With MaxAttempts of 1 or less p is returned unchanged.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts <= 1 {
		return p
	}
	return &RetryProvider{inner: p, cfg: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil || attempt >= r.cfg.MaxAttempts || !retryable(err) {
			return resp, err
		}
		if err := sleep(ctx, r.wait(attempt, err)); err != nil {
			return nil, &ErrUpstreamUnavailable{Provider: r.inner.Name(), Err: err}
		}
	}
}

func (r *RetryProvider) Name() string    { return r.inner.Name() }
func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// retryable reports whether another attempt could succeed where err
// failed. Truncation is not retried: the same budget truncates again.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var unavail *ErrUpstreamUnavailable
	if errors.As(err, &unavail) {
		return !unavail.Permanent()
	}
	var limited *ErrRateLimit
	var invalid *ErrInvalidResponse
	return errors.As(err, &limited) || errors.As(err, &invalid)
}

// wait is the pause after the given failed attempt: the service's
// Retry-After when it sent one, else exponential backoff with ±20% jitter.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var limited *ErrRateLimit
	if errors.As(err, &limited) && limited.RetryAfter > 0 {
		return limited.RetryAfter
	}
	d := float64(r.cfg.InitialWait) * math.Pow(max(r.cfg.Multiplier, 1), float64(attempt-1))
	if r.cfg.MaxWait > 0 {
		d = min(d, float64(r.cfg.MaxWait))
	}
	return time.Duration(d * (0.8 + 0.4*rand.Float64()))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
