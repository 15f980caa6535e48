// Package delegate orchestrates analysis that is offloaded to an external
// generative-language service. The package contains no analytical logic of
// its own: it detects the input language, translates when needed, builds a
// structured-output prompt from a declarative template, and relays the parsed
// JSON response untouched.
package delegate

import (
	"context"
	"encoding/json"
)

// Provider defines the operations the orchestration needs from a
// generative-language backend. Implementations live in internal/infra/llm
// (Gemini, OpenAI, Claude, NoOp) so the business logic stays independent of
// any particular SDK.
type Provider interface {
	// DetectLanguage returns the English name of the language the text is
	// written in (e.g. "English", "Romanian").
	DetectLanguage(ctx context.Context, content string) (string, error)

	// Translate renders the text into the target language.
	Translate(ctx context.Context, content, targetLanguage string) (string, error)

	// GenerateStructured sends the prompt with an expected output schema and
	// returns the raw JSON object the model produced. The schema follows the
	// OpenAPI subset used by the Gemini API ("type"/"properties"/"items").
	GenerateStructured(ctx context.Context, prompt string, schema map[string]any) (json.RawMessage, error)
}

// CredentialSource exposes the current external API key. The settings store
// implements this; injecting the interface keeps handlers and the
// orchestration free of ambient global state.
type CredentialSource interface {
	APIKey() string
}
