package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pep299/cv-generator/internal/cache"
	"github.com/pep299/cv-generator/internal/config"
	"github.com/pep299/cv-generator/internal/gemini"
	"github.com/pep299/cv-generator/internal/openrouter"
	"github.com/pep299/cv-generator/internal/repository"
	"github.com/pep299/cv-generator/internal/service"
	"github.com/pep299/cv-generator/internal/transport/handler"
)

// Application represents the application with all business logic components
type Application struct {
	Config     *config.Config
	Logger     *slog.Logger
	CVService  *service.CV
	UIHandler  *handler.UI
	APIHandler *handler.API
	cleanup    func() error
}

// New creates a new application instance with all dependencies
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*Application, error) {
	// Storage for generated documents
	repo, err := repository.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating document repository: %w", err)
	}

	resultCache := cache.NewMemoryCache(time.Duration(cfg.CacheDuration) * time.Hour)

	cvService := service.NewCV(
		NewGeneratorFactory(cfg),
		cfg.APIKey(),
		resultCache,
		repo,
		time.Duration(cfg.DocumentTTL)*time.Hour,
		logger,
	)

	logger.Info("Application initialized",
		"provider", cfg.Provider,
		"storage", cfg.StorageType,
		"api_key_configured", cfg.APIKey() != "")

	return &Application{
		Config:     cfg,
		Logger:     logger,
		CVService:  cvService,
		UIHandler:  handler.NewUI(cvService, logger),
		APIHandler: handler.NewAPI(cvService, cfg, version, logger),
		cleanup: func() error {
			resultCache.Close()
			return repo.Close()
		},
	}, nil
}

// NewGeneratorFactory returns a factory for the configured provider. Clients
// created by the factory share one rate limiter and concurrency budget.
func NewGeneratorFactory(cfg *config.Config) service.GeneratorFactory {
	if cfg.Provider == "openrouter" {
		base := openrouter.NewClient(cfg.OpenRouterKey, cfg.OpenRouterModel)
		return func(apiKey string) service.Generator {
			return base.WithAPIKey(apiKey)
		}
	}

	base := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel,
		gemini.WithBaseURL(cfg.GeminiBaseURL),
		gemini.WithRateLimit(cfg.RequestsPerMinute),
		gemini.WithMaxConcurrent(cfg.MaxConcurrentRequests),
		gemini.WithRetry(cfg.MaxRetries, time.Second, 30*time.Second),
	)
	return func(apiKey string) service.Generator {
		return base.WithAPIKey(apiKey)
	}
}

// Close cleans up application resources
func (a *Application) Close() error {
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
