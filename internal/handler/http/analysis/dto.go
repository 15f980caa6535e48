// Package analysis provides HTTP handlers for the credibility analysis
// endpoints: heuristic verification, text repair, and the delegated
// bias / explainability / knowledge-gap analyses.
package analysis

import (
	"encoding/json"
	"errors"
	"net/http"
)

// analyzeRequest is the shared request body of every analysis endpoint.
type analyzeRequest struct {
	Content   string `json:"content"`
	SourceURL string `json:"source_url"`
}

// decodeRequest parses and validates the shared request body.
// The content field must be present but may be empty: the heuristic
// treats "" as zero words and answers with the insufficient-context
// result rather than an error.
func decodeRequest(r *http.Request) (analyzeRequest, error) {
	var raw struct {
		Content   *string `json:"content"`
		SourceURL string  `json:"source_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return analyzeRequest{}, errors.New("request body must be valid JSON")
	}
	if raw.Content == nil {
		return analyzeRequest{}, errors.New("content is required")
	}
	return analyzeRequest{Content: *raw.Content, SourceURL: raw.SourceURL}, nil
}
