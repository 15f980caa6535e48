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

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"credible-backend/internal/domain/entity"
	"credible-backend/internal/resilience/circuitbreaker"
	"credible-backend/internal/resilience/retry"
	"credible-backend/internal/utils/text"
)

// OpenAI implements the Provider interface using OpenAI's chat API.
// Structured output uses the JSON response format with the schema embedded
// in the instruction, since the chat API has no response-schema parameter.
type OpenAI struct {
	creds           CredentialSource
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	metricsRecorder CallMetricsRecorder

	mu        sync.Mutex
	client    *openai.Client
	clientKey string
}

// NewOpenAI creates a new OpenAI provider reading its API key from creds.
func NewOpenAI(creds CredentialSource) *OpenAI {
	config := LoadOpenAIConfig()

	slog.Info("Initialized OpenAI provider with configuration",
		slog.String("model", config.Model),
		slog.Int("max_tokens", config.MaxTokens))

	return &OpenAI{
		creds:           creds,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		config:          config,
		metricsRecorder: NewPrometheusCallMetrics(),
	}
}

// DetectLanguage identifies the language of the content.
func (o *OpenAI) DetectLanguage(ctx context.Context, content string) (string, error) {
	result, err := o.chat(ctx, "detect_language", detectLanguagePrompt(content), false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// Translate renders the content into the target language.
func (o *OpenAI) Translate(ctx context.Context, content, targetLanguage string) (string, error) {
	result, err := o.chat(ctx, "translate", translatePrompt(content, targetLanguage), false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// GenerateStructured runs the prompt in JSON mode and returns the JSON
// document produced by the model.
func (o *OpenAI) GenerateStructured(ctx context.Context, prompt string, schema map[string]any) (json.RawMessage, error) {
	instruction, err := structuredInstruction(prompt, schema)
	if err != nil {
		return nil, err
	}

	result, err := o.chat(ctx, "generate_structured", instruction, true)
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(strings.TrimSpace(result))
	if !json.Valid(raw) {
		return nil, fmt.Errorf("openai api returned invalid json")
	}
	return raw, nil
}

// clientForKey returns a client for the currently stored API key,
// rebuilding it when the key has changed since the last call.
func (o *OpenAI) clientForKey() (*openai.Client, error) {
	apiKey := o.creds.APIKey()
	if apiKey == "" {
		return nil, entity.ErrCredentialMissing
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.client != nil && o.clientKey == apiKey {
		return o.client, nil
	}

	o.client = openai.NewClient(apiKey)
	o.clientKey = apiKey
	return o.client, nil
}

// chat runs one prompt through retry and circuit breaker layers.
func (o *OpenAI) chat(ctx context.Context, operation, prompt string, jsonMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doChat(ctx, operation, prompt, jsonMode)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("openai %s failed after retries: %w", operation, retryErr)
	}

	return result, nil
}

// doChat performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doChat(ctx context.Context, operation, prompt string, jsonMode bool) (string, error) {
	requestID := uuid.New().String()

	client, err := o.clientForKey()
	if err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	slog.InfoContext(ctx, "Starting provider call",
		slog.String("request_id", requestID),
		slog.String("provider", "openai"),
		slog.String("operation", operation),
		slog.Int("input_length", text.CountRunes(prompt)))

	start := time.Now()

	resp, err := client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Provider call failed",
			slog.String("request_id", requestID),
			slog.String("provider", "openai"),
			slog.String("operation", operation),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		o.metricsRecorder.RecordFailure("openai", operation)
		return "", fmt.Errorf("openai api error: %w", err)
	}

	// Safety check to prevent panic on array access
	if len(resp.Choices) == 0 {
		slog.ErrorContext(ctx, "OpenAI API returned empty response",
			slog.String("request_id", requestID),
			slog.String("operation", operation),
			slog.Duration("duration", duration))
		o.metricsRecorder.RecordFailure("openai", operation)
		return "", fmt.Errorf("openai api returned empty response")
	}

	output := resp.Choices[0].Message.Content

	slog.InfoContext(ctx, "Provider call completed",
		slog.String("request_id", requestID),
		slog.String("provider", "openai"),
		slog.String("operation", operation),
		slog.Int("output_length", text.CountRunes(output)),
		slog.Duration("duration", duration))

	o.metricsRecorder.RecordDuration("openai", operation, duration)
	o.metricsRecorder.RecordResponseSize("openai", len(output))

	return output, nil
}
