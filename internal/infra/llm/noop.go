package llm

import (
	"context"
	"encoding/json"
)

// NoOp is a provider that answers without calling any external API.
// This is useful for testing and development when AI analysis is not needed.
type NoOp struct{}

// NewNoOp creates a new NoOp provider.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// DetectLanguage always reports English, so callers skip translation.
func (n *NoOp) DetectLanguage(_ context.Context, _ string) (string, error) {
	return "English", nil
}

// Translate returns the content unchanged.
func (n *NoOp) Translate(_ context.Context, content, _ string) (string, error) {
	return content, nil
}

// GenerateStructured returns an empty JSON object.
func (n *NoOp) GenerateStructured(_ context.Context, _ string, _ map[string]any) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}
