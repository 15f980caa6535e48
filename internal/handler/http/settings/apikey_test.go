package settings_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"credible-backend/internal/handler/http/settings"
)

type stubStore struct {
	saved  []string
	setErr error
}

func (s *stubStore) SetAPIKey(key string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.saved = append(s.saved, key)
	return nil
}

func post(t *testing.T, store *stubStore, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	settings.Register(mux, store)

	req := httptest.NewRequest(http.MethodPost, "/settings/api-key", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyHandler_SavesKey(t *testing.T) {
	store := &stubStore{}

	rec := post(t, store, `{"api_key": "new-secret-key"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if len(store.saved) != 1 || store.saved[0] != "new-secret-key" {
		t.Errorf("saved keys = %v, want [new-secret-key]", store.saved)
	}
	if !strings.Contains(rec.Body.String(), "API key saved") {
		t.Errorf("expected confirmation message, got: %s", rec.Body.String())
	}
}

func TestAPIKeyHandler_BlankKeyRejected(t *testing.T) {
	store := &stubStore{}

	rec := post(t, store, `{"api_key": ""}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(store.saved) != 0 {
		t.Errorf("blank key must not be persisted, saved: %v", store.saved)
	}
}

func TestAPIKeyHandler_MalformedBody(t *testing.T) {
	rec := post(t, &stubStore{}, `{broken`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAPIKeyHandler_PersistenceFailure(t *testing.T) {
	store := &stubStore{setErr: errors.New("disk full")}

	rec := post(t, store, `{"api_key": "valid-key"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	// Internal persistence details must not leak to the client
	if strings.Contains(rec.Body.String(), "disk full") {
		t.Errorf("response leaks internal error: %s", rec.Body.String())
	}
}
