package judge

import (
	"context"
	"time"
)

// timeoutProvider bounds each individual attempt. It sits beneath the retry
// decorator so the total worst-case latency for one judged question is
// retries × (timeout + backoff).
type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider with a fixed per-call budget.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &timeoutProvider{inner: p, timeout: d}
}

func (t *timeoutProvider) Evaluate(ctx context.Context, req Request) (*Response, error) {
	if t.timeout <= 0 {
		return t.inner.Evaluate(ctx, req)
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Evaluate(ctx, req)
}

func (t *timeoutProvider) Model() string {
	return t.inner.Model()
}
