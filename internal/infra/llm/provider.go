// Package llm provides AI-backed analysis providers for credibility assessment.
// It includes adapters for Gemini (Google), OpenAI and Claude (Anthropic) APIs
// with reliability patterns: circuit breaker, retry with backoff, and
// comprehensive observability through structured logging and Prometheus metrics.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider is the contract every analysis backend implements.
// GenerateStructured must return a single JSON document matching the
// requested schema; callers pass the response through without reshaping it.
type Provider interface {
	// DetectLanguage returns the English name of the language the content
	// is written in (e.g. "English", "Spanish").
	DetectLanguage(ctx context.Context, content string) (string, error)

	// Translate renders the content into the target language.
	Translate(ctx context.Context, content, targetLanguage string) (string, error)

	// GenerateStructured runs the prompt and returns a JSON document
	// conforming to the given response schema.
	GenerateStructured(ctx context.Context, prompt string, schema map[string]any) (json.RawMessage, error)
}

// CredentialSource supplies the API key for provider calls.
// The key is read per call so that credential updates made at runtime
// take effect without restarting the service.
type CredentialSource interface {
	APIKey() string
}

// Analyzer modes selectable via the ANALYZER_MODE environment variable.
const (
	ModeHeuristic = "heuristic"
	ModeGemini    = "gemini"
	ModeOpenAI    = "openai"
	ModeClaude    = "claude"
	ModeNoOp      = "noop"
)

// NewProvider builds the analysis provider for the given mode.
// The heuristic mode still gets a Gemini provider: bias, explainability and
// knowledge-gap endpoints always delegate regardless of how /verify is served.
func NewProvider(mode string, creds CredentialSource) (Provider, error) {
	switch mode {
	case "", ModeHeuristic, ModeGemini:
		return NewGemini(creds), nil
	case ModeOpenAI:
		return NewOpenAI(creds), nil
	case ModeClaude:
		return NewClaude(creds), nil
	case ModeNoOp:
		return NewNoOp(), nil
	default:
		return nil, fmt.Errorf("unknown analyzer mode: %q", mode)
	}
}

// detectLanguagePrompt builds the language identification prompt shared by
// all providers.
func detectLanguagePrompt(content string) string {
	return fmt.Sprintf("Identify the language of the following text. "+
		"Reply with only the English name of the language, for example: English, Spanish, Russian.\n\n%s", content)
}

// translatePrompt builds the translation prompt shared by all providers.
func translatePrompt(content, targetLanguage string) string {
	return fmt.Sprintf("Translate the following text to %s. "+
		"Reply with the translation only, no commentary.\n\n%s", targetLanguage, content)
}

// structuredInstruction embeds the response schema into the prompt for
// providers without native structured output (OpenAI, Claude). Gemini uses
// its native response schema instead.
func structuredInstruction(prompt string, schema map[string]any) (string, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("marshal response schema: %w", err)
	}
	return fmt.Sprintf("%s\n\nRespond with a single JSON object that conforms exactly to this schema. "+
		"Output only the JSON object, with no surrounding text or markdown.\n\nSchema:\n%s", prompt, encoded), nil
}
