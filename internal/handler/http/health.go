// Package http provides HTTP handlers and middleware for the analysis API.
// It includes the service root, health check endpoints, metrics collection,
// and various middleware components.
package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"credible-backend/internal/handler/http/respond"
)

// CredentialChecker reports whether an API credential is configured.
type CredentialChecker interface {
	APIKey() string
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string                 `json:"status"`            // "healthy", "degraded" or "unhealthy"
	Message string                 `json:"message,omitempty"` // Optional status message
	Details map[string]interface{} `json:"details,omitempty"` // Optional additional details
}

// HealthHandler handles health check endpoint requests.
// It reports analyzer configuration and credential availability.
type HealthHandler struct {
	Credentials CredentialChecker
	Mode        string
	Version     string
}

// ServeHTTP returns the application health status.
// A missing credential is reported as "degraded", not a failure: the
// heuristic and repair paths keep working without one.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)
	allHealthy := true

	checks["analyzer"] = CheckStatus{
		Status:  "healthy",
		Details: map[string]interface{}{"mode": h.Mode},
	}

	if h.Credentials != nil {
		if h.Credentials.APIKey() == "" {
			checks["credential"] = CheckStatus{
				Status:  "degraded",
				Message: "no API key configured; delegated analysis unavailable",
			}
		} else {
			checks["credential"] = CheckStatus{Status: "healthy"}
		}
	} else {
		checks["credential"] = CheckStatus{
			Status:  "unhealthy",
			Message: "settings store not configured",
		}
		allHealthy = false
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("health: failed to encode response: %v", err)
	}
}

// ReadyHandler handles Kubernetes readiness probe requests.
// The service is ready once the settings store has been opened.
type ReadyHandler struct {
	Credentials CredentialChecker
}

// ServeHTTP returns 200 OK if ready, or 503 Service Unavailable if the
// settings store was not wired in.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Credentials == nil {
		http.Error(w, "settings store not configured", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		log.Printf("ready: failed to write response: %v", err)
	}
}

// LiveHandler handles Kubernetes liveness probe requests.
// It performs a lightweight check to verify the application is responsive.
type LiveHandler struct{}

// ServeHTTP performs a simple liveness check and always returns 200 OK
// if the application is running and able to respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		log.Printf("alive: failed to write response: %v", err)
	}
}

// RootHandler answers the service root with a fixed alive message.
type RootHandler struct{}

// ServeHTTP returns the service banner.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Credible backend is running"})
}
