package llm

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
)

// Config holds tuning parameters shared by all analysis providers.
// Values are loaded from environment variables with fallback to defaults.
type Config struct {
	// Model is the provider-specific model identifier.
	// Loaded from ANALYZER_MODEL when set.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	// Loaded from ANALYZER_MAX_TOKENS when set. Default: 2048.
	MaxTokens int

	// Timeout is the maximum duration for a single analysis API call.
	Timeout time.Duration
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

const (
	defaultMaxTokens = 2048
	defaultTimeout   = 60 * time.Second
)

// loadConfig loads shared settings with the given default model.
// Invalid ANALYZER_MAX_TOKENS values fall back to the default with a warning log.
func loadConfig(defaultModel string) Config {
	model := defaultModel
	if envModel := os.Getenv("ANALYZER_MODEL"); envModel != "" {
		model = envModel
	}

	maxTokens := defaultMaxTokens
	if envTokens := os.Getenv("ANALYZER_MAX_TOKENS"); envTokens != "" {
		parsed, err := strconv.Atoi(envTokens)
		if err != nil {
			slog.Warn("Invalid ANALYZER_MAX_TOKENS format, using default",
				slog.String("value", envTokens),
				slog.Int("default", defaultMaxTokens),
				slog.String("error", err.Error()))
		} else if parsed <= 0 {
			slog.Warn("ANALYZER_MAX_TOKENS must be positive, using default",
				slog.Int("value", parsed),
				slog.Int("default", defaultMaxTokens))
		} else {
			maxTokens = parsed
		}
	}

	return Config{
		Model:     model,
		MaxTokens: maxTokens,
		Timeout:   defaultTimeout,
	}
}

// LoadGeminiConfig loads configuration for the Gemini provider.
func LoadGeminiConfig() Config {
	return loadConfig("gemini-1.5-flash")
}

// LoadOpenAIConfig loads configuration for the OpenAI provider.
func LoadOpenAIConfig() Config {
	return loadConfig("gpt-4o-mini")
}

// LoadClaudeConfig loads configuration for the Claude provider.
func LoadClaudeConfig() Config {
	return loadConfig(string(anthropic.ModelClaudeSonnet4_5_20250929))
}
