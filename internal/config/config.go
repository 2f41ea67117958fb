package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all scoring engine configuration.
type Config struct {
	// DBPath is the sqlite database file. Empty means the default XDG path.
	DBPath string `env:"SCORING_DB"`

	// RubricBaseURL is the rubric service base URL. Empty disables remote
	// rubric fetch entirely (the embedded default is used).
	RubricBaseURL string `env:"RUBRIC_SERVICE_URL"`

	// RubricTimeout bounds a single rubric fetch.
	RubricTimeout time.Duration `env:"RUBRIC_FETCH_TIMEOUT, default=3s"`

	// RubricCacheTTL expires cached rubrics. Zero caches for the process
	// lifetime.
	RubricCacheTTL time.Duration `env:"RUBRIC_CACHE_TTL, default=0"`

	// RubricName selects the rubric used for judged scoring.
	RubricName string `env:"RUBRIC_NAME, default=default"`

	// PersistTimeout is the soft deadline for each persistence write. On
	// expiry the write is abandoned and the computed score still returned.
	PersistTimeout time.Duration `env:"PERSIST_TIMEOUT, default=6s"`

	Judge JudgeConfig `env:", prefix=JUDGE_"`
}

// JudgeConfig configures the external judge client.
type JudgeConfig struct {
	// Enabled gates all judge traffic. When false every judged answer
	// degrades to the default mid-score breakdown.
	Enabled bool `env:"ENABLED, default=false"`

	// Backend selects the judge transport: "openai", "anthropic", "gemini"
	// or "mock".
	Backend string `env:"BACKEND, default=openai"`

	// Endpoint is the service base URL. Required for the openai backend
	// (Azure-style deployments); ignored by the others.
	Endpoint string `env:"ENDPOINT"`

	// APIKey is the judge service credential.
	APIKey string `env:"API_KEY"`

	// Deployment is the deployment (openai backend) or model name targeted
	// by judge calls.
	Deployment string `env:"DEPLOYMENT"`

	// Timeout bounds a single judge call, not the whole retry ladder.
	Timeout time.Duration `env:"TIMEOUT, default=8s"`

	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int `env:"MAX_RETRIES, default=2"`

	MaxTokens   int     `env:"MAX_TOKENS, default=800"`
	Temperature float64 `env:"TEMPERATURE, default=0"`
}

// Ready reports whether the judge is enabled and fully configured.
// Anything less means judge calls return the empty object.
func (j JudgeConfig) Ready() bool {
	if !j.Enabled {
		return false
	}
	if j.Backend == "mock" {
		return true
	}
	if j.APIKey == "" || j.Deployment == "" {
		return false
	}
	if strings.EqualFold(j.Backend, "openai") && j.Endpoint == "" {
		return false
	}
	return true
}

// Validate checks structural configuration problems that should fail fast,
// as opposed to the degradable absence Ready covers.
func (j JudgeConfig) Validate() error {
	switch strings.ToLower(j.Backend) {
	case "openai", "anthropic", "gemini", "mock":
	default:
		return fmt.Errorf("unknown judge backend: %q", j.Backend)
	}
	if j.MaxRetries < 0 {
		return fmt.Errorf("JUDGE_MAX_RETRIES must be >= 0, got %d", j.MaxRetries)
	}
	return nil
}

// FromEnv builds a Config from environment variables.
func FromEnv(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env config: %w", err)
	}
	if err := cfg.Judge.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
