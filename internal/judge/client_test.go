package judge

import (
	"context"
	"errors"
	"testing"

	"github.com/iyngr/ci-mock-sub000/internal/config"
)

func TestClientDisabled(t *testing.T) {
	c, err := NewClient(context.Background(), config.JudgeConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.Enabled() {
		t.Error("client should be inert when judge is disabled")
	}

	v := c.Judge(context.Background(), "anything")
	if v.Status != StatusDisabled {
		t.Errorf("status = %s, want disabled", v.Status)
	}
	if v.Raw == nil || len(v.Raw) != 0 {
		t.Errorf("raw = %v, want empty non-nil object", v.Raw)
	}
	if v.Called() {
		t.Error("disabled verdict must not report a call")
	}
}

func TestClientIncompleteConfigDisabled(t *testing.T) {
	// Enabled but missing deployment: never calls out.
	c, err := NewClient(context.Background(), config.JudgeConfig{
		Enabled: true,
		Backend: "openai",
		APIKey:  "key",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.Enabled() {
		t.Error("incomplete config must leave the client inert")
	}
}

func TestClientUnknownBackend(t *testing.T) {
	_, err := NewClient(context.Background(), config.JudgeConfig{
		Enabled:    true,
		Backend:    "cohere",
		APIKey:     "key",
		Deployment: "model",
	})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestClientJudgeSuccess(t *testing.T) {
	mock := NewMockJudge(MockResponse{
		Content: []byte(`{"scores":{"communication":0.8,"problemSolving":0.6},"rationales":{"communication":"clear"}}`),
		Usage:   Usage{InputTokens: 50, OutputTokens: 10, TotalTokens: 60},
	})
	c := NewClientWithProvider(mock, config.JudgeConfig{MaxTokens: 800})

	v := c.Judge(context.Background(), "judge this")
	if v.Status != StatusOK {
		t.Fatalf("status = %s, err = %v", v.Status, v.Err)
	}
	scores, ok := v.Raw["scores"].(map[string]any)
	if !ok {
		t.Fatalf("raw = %v, want scores object", v.Raw)
	}
	if scores["communication"] != 0.8 {
		t.Errorf("communication = %v, want 0.8", scores["communication"])
	}
	if v.Usage.TotalTokens != 60 {
		t.Errorf("usage = %+v", v.Usage)
	}
	if v.Model != "mock" {
		t.Errorf("model = %q", v.Model)
	}

	if len(mock.Calls) != 1 || mock.Calls[0].System != SystemPrompt {
		t.Error("system prompt not forwarded")
	}
	if mock.Calls[0].MaxTokens != 800 {
		t.Errorf("max tokens = %d, want 800", mock.Calls[0].MaxTokens)
	}
}

func TestClientDegradesOnProviderError(t *testing.T) {
	mock := NewMockJudge(MockResponse{Err: &ErrUnavailable{Err: errors.New("down")}})
	c := NewClientWithProvider(mock, config.JudgeConfig{})

	v := c.Judge(context.Background(), "judge this")
	if v.Status != StatusDegraded {
		t.Fatalf("status = %s, want degraded", v.Status)
	}
	if v.Raw == nil || len(v.Raw) != 0 {
		t.Errorf("raw = %v, want empty object", v.Raw)
	}
	var unavail *ErrUnavailable
	if !errors.As(v.Err, &unavail) {
		t.Errorf("err = %v, want ErrUnavailable", v.Err)
	}
}

func TestClientDegradesOnProseResponse(t *testing.T) {
	mock := NewMockJudge(MockResponse{
		Content: []byte("The candidate did quite well overall."),
	})
	c := NewClientWithProvider(mock, config.JudgeConfig{})

	v := c.Judge(context.Background(), "judge this")
	if v.Status != StatusDegraded {
		t.Fatalf("status = %s, want degraded", v.Status)
	}
	if len(v.Raw) != 0 {
		t.Errorf("raw = %v, want empty object", v.Raw)
	}
	var inv *ErrInvalidResponse
	if !errors.As(v.Err, &inv) {
		t.Errorf("err = %v, want ErrInvalidResponse", v.Err)
	}
}

func TestClientDegradesOnSchemaViolation(t *testing.T) {
	// Valid JSON, wrong shape: scores must be numeric.
	mock := NewMockJudge(MockResponse{
		Content: []byte(`{"scores":{"communication":"high"}}`),
	})
	c := NewClientWithProvider(mock, config.JudgeConfig{})

	v := c.Judge(context.Background(), "judge this")
	if v.Status != StatusDegraded {
		t.Fatalf("status = %s, want degraded", v.Status)
	}
}
