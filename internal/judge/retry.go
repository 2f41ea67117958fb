package judge

import (
	"context"
	"errors"
	"time"
)

// RetryConfig configures the transient-failure retry ladder.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int

	// InitialBackoff is the wait before the first retry; it doubles per
	// attempt up to BackoffCap.
	InitialBackoff time.Duration
	BackoffCap     time.Duration
}

// DefaultRetryConfig matches the judge client's documented policy:
// 2 extra attempts, 0.5s initial backoff doubling to a 4s cap.
func DefaultRetryConfig(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: 500 * time.Millisecond,
		BackoffCap:     4 * time.Second,
	}
}

// retryProvider is a decorator that retries rate-limit and availability
// errors with exponential backoff. Everything else is terminal: a judge
// that rejects the request outright will reject it again.
type retryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps a Provider with the retry ladder.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retryProvider{inner: p, cfg: cfg}
}

func (r *retryProvider) Evaluate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	attempts := r.cfg.MaxRetries + 1
	for attempt := range attempts {
		resp, err := r.inner.Evaluate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// The caller's context ending is terminal even when the attempt's
		// own per-call timeout (mapped to ErrUnavailable) would retry.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !retryable(err) || attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}

	return nil, lastErr
}

func (r *retryProvider) Model() string {
	return r.inner.Model()
}

// retryable reports whether the error is worth another attempt: rate
// limits and unavailability (including mapped network failures and
// per-attempt timeouts) are; invalid responses and outright rejections
// are not.
func retryable(err error) bool {
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var unavail *ErrUnavailable
	return errors.As(err, &unavail)
}

// backoff computes the wait before retry number attempt+1. A server-sent
// Retry-After takes precedence over the exponential schedule.
func (r *retryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	return backoffFor(attempt, r.cfg)
}

// backoffFor is the pure exponential schedule: initial × 2^attempt, capped.
func backoffFor(attempt int, cfg RetryConfig) time.Duration {
	wait := cfg.InitialBackoff << attempt
	if wait > cfg.BackoffCap || wait <= 0 {
		return cfg.BackoffCap
	}
	return wait
}
