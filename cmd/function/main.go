package main

import (
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	_ "github.com/pep299/cv-generator"
	"github.com/pep299/cv-generator/internal/config"
	"github.com/pep299/cv-generator/internal/logging"
)

// Runs the registered function locally with the Functions Framework
func main() {
	logger := logging.New(config.LogLevelFromEnv())

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	logger.Info("Starting function", "port", port, "target", os.Getenv("FUNCTION_TARGET"))
	if err := funcframework.Start(port); err != nil {
		logger.Error("funcframework.Start failed", "error", err)
		os.Exit(1)
	}
}
