package judge

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/iyngr/ci-mock-sub000/internal/config"
)

// GeminiJudge implements Provider using the Google Gemini SDK. The
// configured deployment is the model id.
type GeminiJudge struct {
	client *genai.Client
	model  string
}

// NewGeminiJudge creates the Gemini judge backend.
func NewGeminiJudge(ctx context.Context, cfg config.JudgeConfig) (*GeminiJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("judge API key is required")
	}
	if cfg.Deployment == "" {
		return nil, fmt.Errorf("judge model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiJudge{client: client, model: cfg.Deployment}, nil
}

func (j *GeminiJudge) Evaluate(ctx context.Context, req Request) (*Response, error) {
	gcfg := &genai.GenerateContentConfig{
		MaxOutputTokens:  int32(req.MaxTokens),
		ResponseMIMEType: "application/json",
	}

	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		gcfg.Temperature = &temp
	}
	if req.System != "" {
		gcfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}},
	}

	result, err := j.client.Models.GenerateContent(ctx, j.model, contents, gcfg)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	resp := &Response{
		Content: []byte(result.Text()),
		Model:   j.model,
	}
	if result.UsageMetadata != nil {
		resp.Usage = Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}

func (j *GeminiJudge) Model() string {
	return j.model
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.Code >= 500:
			return &ErrUnavailable{Err: err}
		default:
			return fmt.Errorf("judge rejected request: %w", err)
		}
	}
	return &ErrUnavailable{Err: err}
}
