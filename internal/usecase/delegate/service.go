package delegate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"credible-backend/internal/domain/entity"
)

// Service runs the delegated analysis flow for all four delegated endpoints.
// It never falls back to the heuristic assessor: when the external service
// fails, the failure is surfaced to the caller.
type Service struct {
	Provider    Provider
	Credentials CredentialSource
}

// Analyze executes one delegated assessment: fail fast when no credential is
// configured, detect the language, translate to English when needed, build
// the template's prompt, and pass the model's parsed JSON object through
// unchanged. No validation is applied beyond JSON-parse success, which the
// provider already guarantees.
func (s *Service) Analyze(ctx context.Context, tmpl Template, content, sourceURL string) (json.RawMessage, error) {
	if s.Credentials.APIKey() == "" {
		return nil, entity.ErrCredentialMissing
	}

	language, err := s.Provider.DetectLanguage(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("detect language: %w", err)
	}

	prompt := tmpl.BuildPrompt(content, sourceURL)
	if !isEnglish(language) {
		translated, err := s.Provider.Translate(ctx, content, "English")
		if err != nil {
			return nil, fmt.Errorf("translate from %s: %w", language, err)
		}
		prompt = tmpl.BuildBilingualPrompt(content, translated, language, sourceURL)
		slog.InfoContext(ctx, "non-English input translated for analysis",
			slog.String("template", tmpl.Name),
			slog.String("language", language))
	}

	result, err := s.Provider.GenerateStructured(ctx, prompt, tmpl.Schema)
	if err != nil {
		return nil, fmt.Errorf("%s analysis: %w", tmpl.Name, err)
	}
	return result, nil
}

// isEnglish tolerates answers like "English" or "english (US)" from the
// language-detection call.
func isEnglish(language string) bool {
	return strings.Contains(strings.ToLower(language), "english")
}
