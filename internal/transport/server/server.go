package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/pep299/cv-generator/internal/application"
	"github.com/pep299/cv-generator/internal/config"
	"github.com/pep299/cv-generator/internal/logging"
	"github.com/pep299/cv-generator/internal/transport/middleware"
)

// NewRouter configures HTTP routes for the UI and the JSON API
func NewRouter(app *application.Application) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging(app.Logger))

	// UI routes
	ui := app.UIHandler
	r.HandleFunc("/", ui.Index).Methods("GET")
	r.HandleFunc("/generate", ui.Generate).Methods("POST")
	r.HandleFunc("/guide", ui.Guide).Methods("GET")
	r.HandleFunc("/cv/{id}/download.pdf", ui.DownloadPDF).Methods("GET")
	r.HandleFunc("/cv/{id}/download.md", ui.DownloadMarkdown).Methods("GET")

	// API routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.CORS)
	api.Use(middleware.Auth(app.Config.APIAuthToken))

	h := app.APIHandler
	api.HandleFunc("/health", h.Health).Methods("GET")
	api.HandleFunc("/config", h.Config).Methods("GET")
	api.HandleFunc("/cv", h.CreateCV).Methods("POST", "OPTIONS")
	api.HandleFunc("/cv/{id}", h.GetCV).Methods("GET")
	api.HandleFunc("/cv/{id}", h.DeleteCV).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/cv/{id}/pdf", h.CVPDF).Methods("GET")
	api.HandleFunc("/cv/{id}/markdown", h.CVMarkdown).Methods("GET")
	api.HandleFunc("/verify-key", h.VerifyKey).Methods("POST", "OPTIONS")
	api.HandleFunc("/cache/stats", h.CacheStats).Methods("GET")

	// Listing every stored CV and clearing the cache need a token
	if app.Config.APIAuthToken != "" {
		api.HandleFunc("/cv", h.ListCVs).Methods("GET")
		api.HandleFunc("/cache", h.ClearCache).Methods("DELETE")
	}

	return r
}

// CreateHandler loads configuration and builds the main HTTP handler
func CreateHandler(ctx context.Context, logger *slog.Logger, version string) (http.Handler, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	app, err := application.New(ctx, cfg, logger, version)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := app.Close(); err != nil {
			logger.Warn("Closing application failed", "error", err)
		}
	}
	return NewRouter(app), cleanup, nil
}

var (
	functionOnce    sync.Once
	functionHandler http.Handler
	functionErr     error
)

// HandleRequest handles a single HTTP request (for Cloud Functions). The
// handler is built on the first request and reused by warm instances so
// documents stay reachable between the generate and download requests.
// Request logs go to the invocation's log writer; the shared application
// logger only serves work outside a request.
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	level := config.LogLevelFromEnv()
	logger := logging.ForFunction(r.Context(), level)

	functionOnce.Do(func() {
		appLogger := logging.ForFunction(context.Background(), level)
		functionHandler, _, functionErr = CreateHandler(context.Background(), appLogger, "function")
	})
	if functionErr != nil {
		logger.Error("Failed to create handler", "error", functionErr)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	functionHandler.ServeHTTP(w, r.WithContext(middleware.WithLogger(r.Context(), logger)))
}
