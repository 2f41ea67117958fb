package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/iyngr/ci-mock-sub000/internal/config"
)

// Status classifies a judge call outcome. Degraded judging is a distinct
// state, never an error and never conflated with success.
type Status string

const (
	// StatusOK means the judge returned a valid score object.
	StatusOK Status = "ok"

	// StatusDisabled means the judge is not enabled or not fully
	// configured; no call was made.
	StatusDisabled Status = "disabled"

	// StatusDegraded means the call failed, exhausted retries, or returned
	// unparseable content. Raw is the empty object.
	StatusDegraded Status = "degraded"
)

// Verdict is the engine-facing result of one judge call. Raw is always
// non-nil; on anything but StatusOK it is the empty object, which the
// aggregator turns into the default mid-score breakdown.
type Verdict struct {
	Raw    map[string]any
	Usage  Usage
	Model  string
	Status Status
	Err    error
}

// Called reports whether a network call was actually attempted.
func (v Verdict) Called() bool { return v.Status != StatusDisabled }

// Client is the external judge client. Judge never returns a Go error:
// every failure mode degrades to the empty object so that scoring is
// always computable.
type Client struct {
	provider Provider
	cfg      config.JudgeConfig
}

// NewClient builds the judge client from configuration. When the judge is
// disabled or incompletely configured the client is inert and every call
// reports StatusDisabled.
func NewClient(ctx context.Context, cfg config.JudgeConfig) (*Client, error) {
	c := &Client{cfg: cfg}
	if !cfg.Ready() {
		return c, nil
	}

	base, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s judge backend: %w", cfg.Backend, err)
	}

	// caller -> retry -> logging -> timeout -> backend
	c.provider = WithRetry(
		WithLogging(WithTimeout(base, cfg.Timeout)),
		DefaultRetryConfig(cfg.MaxRetries),
	)
	return c, nil
}

// NewClientWithProvider builds a client around an explicit provider,
// bypassing backend construction. Used by tests and the orchestrator's
// deterministic replay mode.
func NewClientWithProvider(p Provider, cfg config.JudgeConfig) *Client {
	return &Client{provider: p, cfg: cfg}
}

func newBackend(ctx context.Context, cfg config.JudgeConfig) (Provider, error) {
	switch strings.ToLower(cfg.Backend) {
	case "openai":
		return NewOpenAIJudge(cfg)
	case "anthropic":
		return NewAnthropicJudge(cfg)
	case "gemini":
		return NewGeminiJudge(ctx, cfg)
	case "mock":
		return NewMockJudge(), nil
	default:
		return nil, fmt.Errorf("unknown judge backend: %q", cfg.Backend)
	}
}

// Enabled reports whether judge calls will actually be made.
func (c *Client) Enabled() bool { return c.provider != nil }

// Judge sends one rendered prompt to the judge and defensively parses the
// response. The empty object comes back on disabled, failed, or malformed
// outcomes.
func (c *Client) Judge(ctx context.Context, prompt string) Verdict {
	if c.provider == nil {
		return Verdict{Raw: map[string]any{}, Status: StatusDisabled}
	}

	resp, err := c.provider.Evaluate(ctx, Request{
		System:      SystemPrompt,
		Prompt:      prompt,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		clog.FromContext(ctx).Warnf("judge call degraded: %v", err)
		return Verdict{Raw: map[string]any{}, Status: StatusDegraded, Err: err}
	}

	raw, err := parseResult(resp.Content)
	if err != nil {
		clog.FromContext(ctx).Warnf("judge response unparseable: %v", err)
		return Verdict{
			Raw:    map[string]any{},
			Usage:  resp.Usage,
			Model:  resp.Model,
			Status: StatusDegraded,
			Err:    err,
		}
	}

	return Verdict{Raw: raw, Usage: resp.Usage, Model: resp.Model, Status: StatusOK}
}

// parseResult decodes and schema-validates the judge's content.
func parseResult(content json.RawMessage) (map[string]any, error) {
	if err := ValidateResult(content); err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, &ErrInvalidResponse{Content: content, Err: err}
	}
	return raw, nil
}
