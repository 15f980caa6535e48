// Package settings provides HTTP handlers for runtime configuration updates.
package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	hhttp "credible-backend/internal/handler/http"
	"credible-backend/internal/handler/http/respond"
)

// KeyWriter persists a new API key.
type KeyWriter interface {
	SetAPIKey(key string) error
}

// APIKeyHandler serves POST /settings/api-key. The new key is persisted to
// the settings file and takes effect for subsequent delegated requests
// without a restart.
type APIKeyHandler struct {
	Store KeyWriter
}

func (h APIKeyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("request body must be valid JSON"))
		return
	}

	if req.APIKey == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("api_key is required and cannot be blank"))
		return
	}

	if err := h.Store.SetAPIKey(req.APIKey); err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	hhttp.RecordCredentialUpdate()
	respond.JSON(w, http.StatusOK, map[string]string{"message": "API key saved"})
}

// Register registers the settings handlers with the given mux.
func Register(mux *http.ServeMux, store KeyWriter) {
	mux.Handle("POST /settings/api-key", APIKeyHandler{Store: store})
}
