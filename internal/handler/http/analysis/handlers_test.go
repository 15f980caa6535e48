package analysis_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"credible-backend/internal/domain/entity"
	"credible-backend/internal/handler/http/analysis"
	"credible-backend/internal/usecase/assess"
	"credible-backend/internal/usecase/delegate"
	"credible-backend/internal/usecase/repair"
)

/* ───────── stubs ───────── */

type stubProvider struct {
	language    string
	translation string
	response    json.RawMessage
	generateErr error
	calls       int
}

func (p *stubProvider) DetectLanguage(_ context.Context, _ string) (string, error) {
	p.calls++
	return p.language, nil
}

func (p *stubProvider) Translate(_ context.Context, _, _ string) (string, error) {
	p.calls++
	return p.translation, nil
}

func (p *stubProvider) GenerateStructured(_ context.Context, _ string, _ map[string]any) (json.RawMessage, error) {
	p.calls++
	if p.generateErr != nil {
		return nil, p.generateErr
	}
	return p.response, nil
}

type stubCredentials struct{ key string }

func (c stubCredentials) APIKey() string { return c.key }

func newMux(delegated bool, svc *delegate.Service) *http.ServeMux {
	mux := http.NewServeMux()
	analysis.Register(mux, assess.Service{}, repair.Service{}, svc, delegated)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

/* ───────── /verify (heuristic) ───────── */

func TestVerify_HeuristicShortContent(t *testing.T) {
	mux := newMux(false, nil)

	rec := postJSON(t, mux, "/verify", `{"content": "Cats are nice."}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result entity.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	if result.CredibilityScore != 70 {
		t.Errorf("credibility_score = %d, want 70", result.CredibilityScore)
	}
	if len(result.FlagsDetected) != 1 || result.FlagsDetected[0] != "Insufficient context" {
		t.Errorf("flags_detected = %v, want [Insufficient context]", result.FlagsDetected)
	}
	if result.FinalVerdict != entity.VerdictLikelyReliable {
		t.Errorf("final_verdict = %q, want %q", result.FinalVerdict, entity.VerdictLikelyReliable)
	}
	if result.VerificationSuggestion != nil {
		t.Errorf("verification_suggestion should be absent at score 70, got %q", *result.VerificationSuggestion)
	}
}

func TestVerify_HeuristicOverconfident(t *testing.T) {
	mux := newMux(false, nil)

	rec := postJSON(t, mux, "/verify",
		`{"content": "This claim is definitely true because science always proves everything about it here."}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result entity.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	if result.CredibilityScore != 60 {
		t.Errorf("credibility_score = %d, want 60", result.CredibilityScore)
	}
	if result.FinalVerdict != entity.VerdictNeedsVerification {
		t.Errorf("final_verdict = %q, want %q", result.FinalVerdict, entity.VerdictNeedsVerification)
	}
	if result.VerificationSuggestion == nil {
		t.Error("verification_suggestion should be present below 70")
	}
}

func TestVerify_EmptyContentFlowsThroughHeuristic(t *testing.T) {
	mux := newMux(false, nil)

	rec := postJSON(t, mux, "/verify", `{"content": ""}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var result entity.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	if result.CredibilityScore != 70 {
		t.Errorf("credibility_score = %d, want 70 (empty text scores as zero words)", result.CredibilityScore)
	}
	if len(result.FlagsDetected) != 1 || result.FlagsDetected[0] != "Insufficient context" {
		t.Errorf("flags_detected = %v, want [Insufficient context]", result.FlagsDetected)
	}
}

func TestVerify_MissingContent(t *testing.T) {
	mux := newMux(false, nil)

	rec := postJSON(t, mux, "/verify", `{"source_url": "https://example.com"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestVerify_MalformedBody(t *testing.T) {
	mux := newMux(false, nil)

	rec := postJSON(t, mux, "/verify", `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

/* ───────── /verify (delegated) ───────── */

func TestVerify_DelegatedPassesThroughProviderJSON(t *testing.T) {
	provider := &stubProvider{
		language: "English",
		response: json.RawMessage(`{"credibility_score": 42, "flags_detected": ["One-sided framing"], "explanation": ["..."], "final_verdict": "Needs Verification"}`),
	}
	svc := &delegate.Service{Provider: provider, Credentials: stubCredentials{key: "k"}}
	mux := newMux(true, svc)

	rec := postJSON(t, mux, "/verify", `{"content": "Some longer claim that needs outside help to assess properly."}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got["credibility_score"] != float64(42) {
		t.Errorf("credibility_score = %v, want 42 (provider JSON must pass through unchanged)", got["credibility_score"])
	}
}

func TestVerify_DelegatedMissingCredential(t *testing.T) {
	provider := &stubProvider{language: "English"}
	svc := &delegate.Service{Provider: provider, Credentials: stubCredentials{}}
	mux := newMux(true, svc)

	rec := postJSON(t, mux, "/verify", `{"content": "Anything at all."}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if provider.calls != 0 {
		t.Errorf("provider was called %d times; credential check must fail before any external call", provider.calls)
	}
	if !strings.Contains(rec.Body.String(), "settings/api-key") {
		t.Errorf("error should tell the operator how to configure the key, got: %s", rec.Body.String())
	}
}

/* ───────── /repair ───────── */

func TestRepair_SubstitutesRiskyTokens(t *testing.T) {
	mux := newMux(false, nil)

	rec := postJSON(t, mux, "/repair",
		`{"content": "This is definitely true and it always works for everyone involved here."}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result entity.RepairResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	if strings.Contains(result.RepairedText, "definitely") {
		t.Errorf("repaired_text still contains 'definitely': %s", result.RepairedText)
	}
	if !strings.Contains(result.RepairedText, "according to available evidence") {
		t.Errorf("repaired_text missing substitution: %s", result.RepairedText)
	}
}

func TestRepair_NoTriggersLeavesTextUnchanged(t *testing.T) {
	mux := newMux(false, nil)
	content := "A calm and qualified statement with plenty of supporting words in it."

	rec := postJSON(t, mux, "/repair", `{"content": "`+content+`"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result entity.RepairResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	if result.RepairedText != content {
		t.Errorf("repaired_text = %q, want unchanged input", result.RepairedText)
	}
	if result.RepairExplanation != "No risky or misleading claims detected. No repair required." {
		t.Errorf("repair_explanation = %q", result.RepairExplanation)
	}
}

/* ───────── delegated endpoints ───────── */

func TestDelegatedEndpoints_PassThrough(t *testing.T) {
	paths := []string{"/analyze-bias", "/xai-info", "/knowledge-gaps"}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			provider := &stubProvider{
				language: "English",
				response: json.RawMessage(`{"result": "ok"}`),
			}
			svc := &delegate.Service{Provider: provider, Credentials: stubCredentials{key: "k"}}
			mux := newMux(false, svc)

			rec := postJSON(t, mux, path, `{"content": "Plenty of text for the external analyzer to work with."}`)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"result"`) {
				t.Errorf("provider JSON should pass through, got: %s", rec.Body.String())
			}
		})
	}
}

func TestDelegatedEndpoint_ExternalFailureReturns502(t *testing.T) {
	provider := &stubProvider{
		language:    "English",
		generateErr: errors.New("model overloaded"),
	}
	svc := &delegate.Service{Provider: provider, Credentials: stubCredentials{key: "k"}}
	mux := newMux(false, svc)

	rec := postJSON(t, mux, "/analyze-bias", `{"content": "Plenty of text for the analyzer."}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "model overloaded") {
		t.Errorf("502 body should carry the underlying message, got: %s", rec.Body.String())
	}
}

func TestDelegatedEndpoint_MissingCredential(t *testing.T) {
	provider := &stubProvider{language: "English"}
	svc := &delegate.Service{Provider: provider, Credentials: stubCredentials{}}
	mux := newMux(false, svc)

	rec := postJSON(t, mux, "/knowledge-gaps", `{"content": "Anything."}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if provider.calls != 0 {
		t.Errorf("provider was called %d times before credential check", provider.calls)
	}
}
