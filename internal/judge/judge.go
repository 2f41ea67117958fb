package judge

import (
	"context"
	"encoding/json"
)

// Provider is the transport abstraction for the external judge. Backends
// return typed errors (ErrRateLimit, ErrUnavailable, ErrInvalidResponse);
// decorators compose retry and logging around them. The engine never talks
// to a Provider directly; it goes through Client, which degrades instead
// of failing.
type Provider interface {
	// Evaluate sends one rendered rubric prompt and returns the judge's
	// raw JSON content plus usage accounting.
	Evaluate(ctx context.Context, req Request) (*Response, error)

	// Model returns the deployment or model identifier in use.
	Model() string
}

// Request is one judge call.
type Request struct {
	// System forces the judge into JSON-only evaluator mode.
	System string

	// Prompt is the rendered rubric instruction (BuildPrompt output).
	Prompt string

	// MaxTokens bounds the response length. Which wire field carries it
	// depends on the deployment's model family.
	MaxTokens int

	// Temperature is ignored by deployments that reject sampling params.
	Temperature float64
}

// Response is the judge's output before defensive parsing.
type Response struct {
	// Content is the first choice's message content, expected to be a
	// minified JSON score object.
	Content json.RawMessage

	Usage Usage
	Model string
}

// Usage tracks token consumption for one judge call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
