package judge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/iyngr/ci-mock-sub000/internal/config"
)

// OpenAIJudge implements Provider against an OpenAI-compatible
// chat-completion endpoint. With an Endpoint configured it speaks the
// Azure-style deployment API, where the model field is the deployment name.
type OpenAIJudge struct {
	client     *openai.Client
	deployment string
}

// NewOpenAIJudge creates the chat-completion judge backend.
func NewOpenAIJudge(cfg config.JudgeConfig) (*OpenAIJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("judge API key is required")
	}
	if cfg.Deployment == "" {
		return nil, fmt.Errorf("judge deployment is required")
	}

	var clientCfg openai.ClientConfig
	if cfg.Endpoint != "" {
		clientCfg = openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
		// Deployment names are passed through verbatim; the default mapper
		// strips characters that are meaningful here.
		clientCfg.AzureModelMapperFunc = func(model string) string { return model }
	} else {
		clientCfg = openai.DefaultConfig(cfg.APIKey)
	}

	return &OpenAIJudge{
		client:     openai.NewClientWithConfig(clientCfg),
		deployment: cfg.Deployment,
	}, nil
}

func (j *OpenAIJudge) Evaluate(ctx context.Context, req Request) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: j.deployment,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	// Reasoning-family deployments reject sampling parameters and take
	// max_completion_tokens; everything else takes max_tokens plus
	// temperature.
	if usesCompletionTokenLimit(j.deployment) {
		chatReq.MaxCompletionTokens = req.MaxTokens
	} else {
		chatReq.MaxTokens = req.MaxTokens
		chatReq.Temperature = float32(req.Temperature)
	}

	resp, err := j.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no choices in judge response")}
	}

	return &Response{
		Content: []byte(resp.Choices[0].Message.Content),
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model: resp.Model,
	}, nil
}

func (j *OpenAIJudge) Model() string {
	return j.deployment
}

// completionTokenFamilies are matched case-insensitively as substrings of
// the deployment name.
var completionTokenFamilies = []string{"o1", "o3", "o4", "gpt-5"}

// usesCompletionTokenLimit reports whether the deployment requires the
// max_completion_tokens field instead of max_tokens.
func usesCompletionTokenLimit(deployment string) bool {
	d := strings.ToLower(deployment)
	for _, fam := range completionTokenFamilies {
		if strings.Contains(d, fam) {
			return true
		}
	}
	return false
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.HTTPStatusCode == http.StatusInternalServerError,
			apiErr.HTTPStatusCode == http.StatusBadGateway,
			apiErr.HTTPStatusCode == http.StatusServiceUnavailable,
			apiErr.HTTPStatusCode == http.StatusGatewayTimeout:
			return &ErrUnavailable{Err: err}
		default:
			// 4xx and other statuses are terminal.
			return fmt.Errorf("judge rejected request: %w", err)
		}
	}
	// Request-level errors (network, timeout) retry like 5xx.
	return &ErrUnavailable{Err: err}
}
