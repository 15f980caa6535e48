package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"credible-backend/internal/config"
	"credible-backend/internal/infra/credstore"
	"credible-backend/internal/infra/llm"
	"credible-backend/internal/observability/logging"
	"credible-backend/internal/observability/slo"
	"credible-backend/internal/observability/tracing"

	"credible-backend/internal/usecase/assess"
	"credible-backend/internal/usecase/delegate"
	"credible-backend/internal/usecase/repair"

	hhttp "credible-backend/internal/handler/http"
	hanalysis "credible-backend/internal/handler/http/analysis"
	"credible-backend/internal/handler/http/requestid"
	hsettings "credible-backend/internal/handler/http/settings"
)

func main() {
	// .env は存在すれば読み込む（本番では環境変数を直接設定）
	_ = godotenv.Load()

	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	store := initCredentialStore(logger, cfg.SettingsPath)

	version := getVersion()
	handler := setupServer(logger, cfg, store, version)

	runServer(logger, cfg, handler, version)
}

// initLogger initializes the structured logger and installs it as the default.
// Log level and output format follow the LOG_LEVEL environment variable.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initCredentialStore opens the settings file that persists the API key.
// The file is created on first write, so a missing file is not an error;
// an unreadable or malformed one is.
func initCredentialStore(logger *slog.Logger, path string) *credstore.Store {
	store, err := credstore.Open(path)
	if err != nil {
		logger.Error("failed to open settings store",
			slog.String("path", path),
			slog.Any("error", err))
		os.Exit(1)
	}
	if store.APIKey() == "" {
		logger.Warn("no API key configured; delegated analysis endpoints will reject requests until one is saved via POST /settings/api-key")
	}
	return store
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, cfg *config.AppConfig, store *credstore.Store, version string) http.Handler {
	provider, err := llm.NewProvider(cfg.AnalyzerMode, store)
	if err != nil {
		logger.Error("failed to build analysis provider", slog.Any("error", err))
		os.Exit(1)
	}

	delegateSvc := &delegate.Service{
		Provider:    provider,
		Credentials: store,
	}

	delegated := cfg.AnalyzerMode != "" && cfg.AnalyzerMode != llm.ModeHeuristic
	logger.Info("analyzer configured",
		slog.String("mode", cfg.AnalyzerMode),
		slog.Bool("verify_delegated", delegated))

	mux := setupRoutes(cfg, store, delegateSvc, delegated, version)
	return applyMiddleware(logger, cfg, mux)
}

// setupRoutes registers all HTTP routes.
func setupRoutes(
	cfg *config.AppConfig,
	store *credstore.Store,
	delegateSvc *delegate.Service,
	delegated bool,
	version string,
) *http.ServeMux {
	mux := http.NewServeMux()

	hanalysis.Register(mux, assess.Service{}, repair.Service{}, delegateSvc, delegated)
	hsettings.Register(mux, store)

	// ヘルスチェックエンドポイント
	mux.Handle("/health", &hhttp.HealthHandler{Credentials: store, Mode: cfg.AnalyzerMode, Version: version})
	mux.Handle("/ready", &hhttp.ReadyHandler{Credentials: store})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	mux.Handle("/", &hhttp.RootHandler{})

	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost to innermost): CORS → Request ID → Tracing → Recovery →
// Logging → Body Size Limit → Metrics.
func applyMiddleware(logger *slog.Logger, cfg *config.AppConfig, handler http.Handler) http.Handler {
	corsConfig := hhttp.LoadCORSConfig()
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Any("allowed_methods", corsConfig.AllowedMethods))

	chain := handler

	// Apply in reverse order (innermost to outermost)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(int64(cfg.MaxBodyBytes))(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	chain = hhttp.CORS(corsConfig, logger)(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg *config.AppConfig, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Feed the SLO gauges from live traffic, recomputed once a minute.
	tracker := slo.NewTracker()
	hhttp.SetSLOTracker(tracker)
	go tracker.Run(ctx, 1*time.Minute)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
