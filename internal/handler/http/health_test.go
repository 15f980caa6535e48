package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	hhttp "credible-backend/internal/handler/http"
)

type stubCreds struct{ key string }

func (s stubCreds) APIKey() string { return s.key }

func TestHealthHandler_CredentialConfigured(t *testing.T) {
	h := &hhttp.HealthHandler{
		Credentials: stubCreds{key: "secret"},
		Mode:        "heuristic",
		Version:     "test",
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp hhttp.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if resp.Checks["credential"].Status != "healthy" {
		t.Errorf("credential check = %q, want healthy", resp.Checks["credential"].Status)
	}
	if resp.Checks["analyzer"].Details["mode"] != "heuristic" {
		t.Errorf("analyzer mode = %v, want heuristic", resp.Checks["analyzer"].Details["mode"])
	}
}

func TestHealthHandler_MissingCredentialIsDegraded(t *testing.T) {
	h := &hhttp.HealthHandler{
		Credentials: stubCreds{},
		Mode:        "gemini",
		Version:     "test",
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// A missing key degrades delegated analysis but the service stays up
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp hhttp.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Checks["credential"].Status != "degraded" {
		t.Errorf("credential check = %q, want degraded", resp.Checks["credential"].Status)
	}
}

func TestHealthHandler_NoStoreIsUnhealthy(t *testing.T) {
	h := &hhttp.HealthHandler{Mode: "heuristic", Version: "test"}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestReadyHandler(t *testing.T) {
	t.Run("ready with store", func(t *testing.T) {
		h := &hhttp.ReadyHandler{Credentials: stubCreds{}}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if rec.Body.String() != "ready" {
			t.Errorf("body = %q, want ready", rec.Body.String())
		}
	})

	t.Run("not ready without store", func(t *testing.T) {
		h := &hhttp.ReadyHandler{}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}

func TestLiveHandler(t *testing.T) {
	h := &hhttp.LiveHandler{}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "alive" {
		t.Errorf("body = %q, want alive", rec.Body.String())
	}
}

func TestRootHandler(t *testing.T) {
	h := &hhttp.RootHandler{}

	t.Run("root path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Credible backend is running") {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
