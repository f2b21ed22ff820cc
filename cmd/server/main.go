package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pep299/cv-generator/internal/application"
	"github.com/pep299/cv-generator/internal/config"
	"github.com/pep299/cv-generator/internal/logging"
	"github.com/pep299/cv-generator/internal/transport/server"
)

var (
	Version   string = "dev"
	Commit    string = "unknown"
	BuildTime string = "unknown"
)

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		fmt.Printf("CV Generator Server\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nEnvironment Variables:\n")
		fmt.Printf("  GOOGLE_API_KEY           Gemini API key (optional, can be entered in the UI)\n")
		fmt.Printf("  GEMINI_MODEL             Gemini model (default: gemini-1.5-pro)\n")
		fmt.Printf("  AI_PROVIDER              gemini or openrouter (default: gemini)\n")
		fmt.Printf("  OPENROUTER_API_KEY       OpenRouter API key\n")
		fmt.Printf("  PORT                     Server port (default: 8080)\n")
		fmt.Printf("  HOST                     Server host (default: 0.0.0.0)\n")
		fmt.Printf("  STORAGE_TYPE             memory, gcs or postgres (default: memory)\n")
		fmt.Printf("  STORAGE_BUCKET           Bucket for gcs storage\n")
		fmt.Printf("  DATABASE_URL             Connection string for postgres storage\n")
		fmt.Printf("  DOCUMENT_TTL_HOURS       Hours generated CVs are kept (default: 24)\n")
		fmt.Printf("  PURGE_SCHEDULE           Cron schedule for expired CV removal (default: @every 1h)\n")
		fmt.Printf("  API_AUTH_TOKEN           Bearer token required by /api/v1 (optional)\n")
		fmt.Printf("  LOG_LEVEL                debug, info, warn or error (default: info)\n")
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("CV Generator Server\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	logger := logging.New(config.LogLevelFromEnv())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := application.New(ctx, cfg, logger, Version)
	if err != nil {
		logger.Error("Failed to create application", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// Start scheduled purge of expired documents
	scheduler, err := app.StartPurge()
	if err != nil {
		logger.Error("Failed to schedule purge", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      server.NewRouter(app),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server
	go func() {
		logger.Info("Starting server", "addr", httpServer.Addr, "version", Version)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	logger.Info("Shutting down server...")

	// Stop background jobs
	cancel()
	<-scheduler.Stop().Done()

	// Shutdown HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
