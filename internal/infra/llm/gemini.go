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
	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"credible-backend/internal/domain/entity"
	"credible-backend/internal/resilience/circuitbreaker"
	"credible-backend/internal/resilience/retry"
	"credible-backend/internal/utils/text"
)

// Gemini implements the Provider interface using Google's Gemini API.
// It includes circuit breaker and retry logic for improved reliability.
// The client is rebuilt when the stored API key changes, so credential
// updates take effect on the next call.
type Gemini struct {
	creds           CredentialSource
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	metricsRecorder CallMetricsRecorder

	mu        sync.Mutex
	client    *genai.Client
	clientKey string
}

// NewGemini creates a new Gemini provider reading its API key from creds.
// It automatically configures circuit breaker, retry logic and metrics recording.
func NewGemini(creds CredentialSource) *Gemini {
	config := LoadGeminiConfig()

	slog.Info("Initialized Gemini provider with configuration",
		slog.String("model", config.Model),
		slog.Int("max_tokens", config.MaxTokens))

	return &Gemini{
		creds:           creds,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.GeminiAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		config:          config,
		metricsRecorder: NewPrometheusCallMetrics(),
	}
}

// DetectLanguage identifies the language of the content using Gemini.
func (g *Gemini) DetectLanguage(ctx context.Context, content string) (string, error) {
	result, err := g.generate(ctx, "detect_language", detectLanguagePrompt(content), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// Translate renders the content into the target language using Gemini.
func (g *Gemini) Translate(ctx context.Context, content, targetLanguage string) (string, error) {
	result, err := g.generate(ctx, "translate", translatePrompt(content, targetLanguage), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// GenerateStructured runs the prompt with Gemini's native response schema
// and returns the JSON document produced by the model.
func (g *Gemini) GenerateStructured(ctx context.Context, prompt string, schema map[string]any) (json.RawMessage, error) {
	responseSchema, err := schemaFromMap(schema)
	if err != nil {
		return nil, err
	}

	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}

	result, err := g.generate(ctx, "generate_structured", prompt, genCfg)
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(strings.TrimSpace(result))
	if !json.Valid(raw) {
		return nil, fmt.Errorf("gemini api returned invalid json")
	}
	return raw, nil
}

// schemaFromMap converts the provider-agnostic schema map into the SDK's
// schema type via a JSON round trip. The map already uses the OpenAPI
// vocabulary the Gemini API expects ("OBJECT", "STRING", ...).
func schemaFromMap(schema map[string]any) (*genai.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal response schema: %w", err)
	}

	var converted genai.Schema
	if err := json.Unmarshal(encoded, &converted); err != nil {
		return nil, fmt.Errorf("convert response schema: %w", err)
	}
	return &converted, nil
}

// clientForKey returns a client for the currently stored API key,
// rebuilding it when the key has changed since the last call.
func (g *Gemini) clientForKey(ctx context.Context) (*genai.Client, error) {
	apiKey := g.creds.APIKey()
	if apiKey == "" {
		return nil, entity.ErrCredentialMissing
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil && g.clientKey == apiKey {
		return g.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	g.client = client
	g.clientKey = apiKey
	return client, nil
}

// generate runs one prompt through retry and circuit breaker layers.
func (g *Gemini) generate(ctx context.Context, operation, prompt string, genCfg *genai.GenerateContentConfig) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, g.retryConfig, func() error {
		cbResult, err := g.circuitBreaker.Execute(func() (interface{}, error) {
			return g.doGenerate(ctx, operation, prompt, genCfg)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("gemini api circuit breaker open, request rejected",
					slog.String("service", "gemini-api"),
					slog.String("state", g.circuitBreaker.State().String()))
				return fmt.Errorf("gemini api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("gemini %s failed after retries: %w", operation, retryErr)
	}

	return result, nil
}

// doGenerate performs the actual API call without retry or circuit breaker.
func (g *Gemini) doGenerate(ctx context.Context, operation, prompt string, genCfg *genai.GenerateContentConfig) (string, error) {
	requestID := uuid.New().String()

	client, err := g.clientForKey(ctx)
	if err != nil {
		return "", err
	}

	if genCfg == nil {
		genCfg = &genai.GenerateContentConfig{}
	}
	genCfg.MaxOutputTokens = int32(g.config.MaxTokens)

	slog.InfoContext(ctx, "Starting provider call",
		slog.String("request_id", requestID),
		slog.String("provider", "gemini"),
		slog.String("operation", operation),
		slog.Int("input_length", text.CountRunes(prompt)))

	start := time.Now()

	resp, err := client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genCfg)

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Provider call failed",
			slog.String("request_id", requestID),
			slog.String("provider", "gemini"),
			slog.String("operation", operation),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		g.metricsRecorder.RecordFailure("gemini", operation)
		return "", fmt.Errorf("gemini api error: %w", err)
	}

	output := resp.Text()
	if output == "" {
		slog.ErrorContext(ctx, "Gemini API returned empty response",
			slog.String("request_id", requestID),
			slog.String("operation", operation),
			slog.Duration("duration", duration))
		g.metricsRecorder.RecordFailure("gemini", operation)
		return "", fmt.Errorf("gemini api returned empty response")
	}

	slog.InfoContext(ctx, "Provider call completed",
		slog.String("request_id", requestID),
		slog.String("provider", "gemini"),
		slog.String("operation", operation),
		slog.Int("output_length", text.CountRunes(output)),
		slog.Duration("duration", duration))

	g.metricsRecorder.RecordDuration("gemini", operation, duration)
	g.metricsRecorder.RecordResponseSize("gemini", len(output))

	return output, nil
}
