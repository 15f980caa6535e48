package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"credible-backend/internal/domain/entity"
	"credible-backend/internal/resilience/circuitbreaker"
	"credible-backend/internal/resilience/retry"
	"credible-backend/internal/utils/text"
)

// Claude implements the Provider interface using Anthropic's Claude API.
// Structured output embeds the schema in the instruction and extracts the
// JSON document from the reply, since the messages API returns plain text.
type Claude struct {
	creds           CredentialSource
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	metricsRecorder CallMetricsRecorder

	mu        sync.Mutex
	client    anthropic.Client
	clientKey string
}

// NewClaude creates a new Claude provider reading its API key from creds.
func NewClaude(creds CredentialSource) *Claude {
	config := LoadClaudeConfig()

	slog.Info("Initialized Claude provider with configuration",
		slog.String("model", config.Model),
		slog.Int("max_tokens", config.MaxTokens))

	return &Claude{
		creds:           creds,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		config:          config,
		metricsRecorder: NewPrometheusCallMetrics(),
	}
}

// DetectLanguage identifies the language of the content.
func (c *Claude) DetectLanguage(ctx context.Context, content string) (string, error) {
	result, err := c.message(ctx, "detect_language", detectLanguagePrompt(content))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// Translate renders the content into the target language.
func (c *Claude) Translate(ctx context.Context, content, targetLanguage string) (string, error) {
	result, err := c.message(ctx, "translate", translatePrompt(content, targetLanguage))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// GenerateStructured runs the prompt and extracts the JSON document from
// the model's reply.
func (c *Claude) GenerateStructured(ctx context.Context, prompt string, schema map[string]any) (json.RawMessage, error) {
	instruction, err := structuredInstruction(prompt, schema)
	if err != nil {
		return nil, err
	}

	result, err := c.message(ctx, "generate_structured", instruction)
	if err != nil {
		return nil, err
	}

	extracted := extractJSON(result)
	if extracted == "" {
		return nil, fmt.Errorf("claude api returned no json document")
	}
	return json.RawMessage(extracted), nil
}

// extractJSON pulls a JSON object out of a model reply. The model is asked
// for bare JSON but sometimes wraps it in a markdown fence or surrounding
// prose. Returns "" when no valid JSON object is found.
func extractJSON(reply string) string {
	if fenced := strings.Index(reply, "```json"); fenced != -1 {
		rest := reply[fenced+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			candidate := strings.TrimSpace(rest[:end])
			if json.Valid([]byte(candidate)) {
				return candidate
			}
		}
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return ""
	}

	candidate := reply[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return ""
	}
	return candidate
}

// clientForKey returns a client for the currently stored API key,
// rebuilding it when the key has changed since the last call.
func (c *Claude) clientForKey() (anthropic.Client, error) {
	apiKey := c.creds.APIKey()
	if apiKey == "" {
		return anthropic.Client{}, entity.ErrCredentialMissing
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clientKey != apiKey {
		c.client = anthropic.NewClient(option.WithAPIKey(apiKey))
		c.clientKey = apiKey
	}
	return c.client, nil
}

// message runs one prompt through retry and circuit breaker layers.
func (c *Claude) message(ctx context.Context, operation, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doMessage(ctx, operation, prompt)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("service", "claude-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("claude %s failed after retries: %w", operation, retryErr)
	}

	return result, nil
}

// doMessage performs the actual API call without retry or circuit breaker.
func (c *Claude) doMessage(ctx context.Context, operation, prompt string) (string, error) {
	requestID := uuid.New().String()

	client, err := c.clientForKey()
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Starting provider call",
		slog.String("request_id", requestID),
		slog.String("provider", "claude"),
		slog.String("operation", operation),
		slog.Int("input_length", text.CountRunes(prompt)))

	start := time.Now()

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Provider call failed",
			slog.String("request_id", requestID),
			slog.String("provider", "claude"),
			slog.String("operation", operation),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		c.metricsRecorder.RecordFailure("claude", operation)
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		slog.ErrorContext(ctx, "Claude API returned empty response",
			slog.String("request_id", requestID),
			slog.String("operation", operation),
			slog.Duration("duration", duration))
		c.metricsRecorder.RecordFailure("claude", operation)
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		slog.ErrorContext(ctx, "Claude API returned unexpected response type",
			slog.String("request_id", requestID),
			slog.String("operation", operation),
			slog.Duration("duration", duration))
		c.metricsRecorder.RecordFailure("claude", operation)
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	output := textBlock.Text

	slog.InfoContext(ctx, "Provider call completed",
		slog.String("request_id", requestID),
		slog.String("provider", "claude"),
		slog.String("operation", operation),
		slog.Int("output_length", text.CountRunes(output)),
		slog.Duration("duration", duration))

	c.metricsRecorder.RecordDuration("claude", operation, duration)
	c.metricsRecorder.RecordResponseSize("claude", len(output))

	return output, nil
}
