package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pep299/cv-generator/internal/application"
	"github.com/pep299/cv-generator/internal/config"
	"github.com/pep299/cv-generator/internal/cv"
	"github.com/pep299/cv-generator/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run generates a CV from a JSON profile file and writes the markdown and PDF files
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("cv-generator", flag.ContinueOnError)
	var (
		input  = fs.String("input", "", "Path to a JSON profile (required)")
		outDir = fs.String("out", ".", "Directory to write the CV files to")
		apiKey = fs.String("key", "", "API key, overrides GOOGLE_API_KEY")
		noPDF  = fs.Bool("no-pdf", false, "Only write the markdown file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return errors.New("-input is required")
	}

	profile, err := readProfile(*input)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// Nothing is served, so keep documents in memory only
	cfg.StorageType = "memory"

	logger := logging.New(cfg.LogLevel)
	app, err := application.New(ctx, cfg, logger, "cli")
	if err != nil {
		return fmt.Errorf("creating application: %w", err)
	}
	defer app.Close()

	fmt.Fprintln(stdout, "Generating CV... This may take a moment.")
	doc, err := app.CVService.Generate(ctx, profile, *apiKey)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	mdPath := filepath.Join(*outDir, doc.Profile.FileName("md"))
	if err := os.WriteFile(mdPath, []byte(doc.Markdown), 0o644); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", mdPath)

	if *noPDF {
		return nil
	}

	pdf, err := app.CVService.RenderPDF(ctx, doc.ID)
	if err != nil {
		// The markdown file is already written
		logger.Warn("PDF generation failed. Use the markdown file instead.", "error", err)
		return nil
	}
	pdfPath := filepath.Join(*outDir, pdf.FileName)
	if err := os.WriteFile(pdfPath, pdf.Data, 0o644); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", pdfPath)
	return nil
}

func readProfile(path string) (cv.Profile, error) {
	var profile cv.Profile

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("reading profile: %w", err)
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("parsing profile: %w", err)
	}
	return profile, nil
}
