// Package respond writes the JSON bodies of the analysis API. Every error
// path funnels through here so that upstream provider failures and internal
// errors never leak request payloads or API keys to the caller.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// safePrefixes marks error messages that came from request validation and may
// be echoed to the caller verbatim. Everything the decode and settings
// handlers emit matches one of these; anything else is treated as internal.
var safePrefixes = []string{
	"required",
	"invalid",
	"must be",
	"cannot be",
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// ヘッダー送信済みのためエラーレスポンスは返せない
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes a JSON error response with the given status code and error message.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// SafeError sanitizes error messages before returning them to callers.
// Validation errors are echoed as-is; anything else, and every 5xx, becomes
// "internal server error" with the detail logged through SanitizeError so
// credentials never reach the response or the log.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()

	isSafe := false
	lowerMsg := strings.ToLower(msg)
	for _, safe := range safePrefixes {
		if strings.Contains(lowerMsg, safe) {
			isSafe = true
			break
		}
	}

	// 500系は常に内部エラーとして扱う
	if code >= 500 {
		isSafe = false
	}

	if isSafe {
		JSON(w, code, map[string]string{"error": msg})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.Any("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}

// AppError is an error type that carries a user-facing message.
type AppError struct {
	UserMsg string // Message to display to callers
	Err     error  // Internal error (logged for debugging)
	Code    int    // HTTP status code
}

// Error returns the error message, implementing the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

// Unwrap returns the underlying error, implementing the errors.Unwrap interface.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given parameters.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// SafeErrorV2 handles errors with AppError support. An AppError in the chain
// wins: its user message and status code are returned and the wrapped
// internal error is logged. The delegated endpoints rely on this to surface
// upstream provider messages on 502 without opening the allowlist to
// arbitrary error text. Anything else falls back to SafeError.
func SafeErrorV2(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			slog.Default().Error("application error",
				slog.String("status", http.StatusText(appErr.Code)),
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.Any("error", SanitizeError(appErr.Err)))
		}
		JSON(w, appErr.Code, map[string]string{"error": appErr.UserMsg})
		return
	}

	SafeError(w, code, err)
}
