package judge

import (
	"context"
	"time"

	"github.com/chainguard-dev/clog"
)

// loggingProvider records every judge call with latency, tokens and outcome.
type loggingProvider struct {
	inner Provider
}

// WithLogging wraps a Provider with structured call logging.
func WithLogging(p Provider) Provider {
	return &loggingProvider{inner: p}
}

func (l *loggingProvider) Evaluate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Evaluate(ctx, req)

	log := clog.FromContext(ctx).With(
		"model", l.inner.Model(),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	if err != nil {
		log.Warnf("judge call failed: %v", err)
		return nil, err
	}

	log.With(
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	).Debug("judge call succeeded")
	return resp, nil
}

func (l *loggingProvider) Model() string {
	return l.inner.Model()
}
