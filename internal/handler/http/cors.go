package http

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// CORSConfig holds the configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is a whitelist of permitted origins. A single "*"
	// entry allows any origin, which is the default so browser-based
	// extensions and local frontends can call the API out of the box.
	AllowedOrigins []string

	// AllowedMethods specifies which HTTP methods are allowed in CORS requests.
	AllowedMethods []string

	// AllowedHeaders specifies which request headers are allowed in CORS requests.
	AllowedHeaders []string

	// MaxAge specifies how long preflight results can be cached (in seconds).
	MaxAge int
}

// LoadCORSConfig reads the CORS policy from environment variables.
// CORS_ALLOWED_ORIGINS is a comma-separated origin list; unset means "*".
func LoadCORSConfig() CORSConfig {
	cfg := CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}

	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins := make([]string, 0, 4)
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}
	return cfg
}

func (c CORSConfig) allows(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// CORS returns middleware that handles cross-origin requests.
//
// Behavior:
//   - Empty Origin header: same-origin request, skip CORS processing
//   - Disallowed origin: log a warning and continue without CORS headers
//     (the browser blocks the response)
//   - Allowed origin, OPTIONS: answer the preflight with 204
//   - Allowed origin, other methods: set headers and pass through
func CORS(config CORSConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !config.allows(origin) {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
