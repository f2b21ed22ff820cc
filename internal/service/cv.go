package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pep299/cv-generator/internal/cache"
	"github.com/pep299/cv-generator/internal/cv"
	"github.com/pep299/cv-generator/internal/pdfdoc"
	"github.com/pep299/cv-generator/internal/repository"
)

// CV runs the input -> prompt -> API call -> result sequence and serves
// the stored results
type CV struct {
	newGenerator GeneratorFactory
	defaultKey   string
	cache        cache.Cache
	repo         repository.DocumentRepository
	ttl          time.Duration
	logger       *slog.Logger
	renderPDF    PDFRenderer
	now          func() time.Time
	newID        func() string
}

// PDFRenderer turns a profile and its generated markdown into PDF bytes
type PDFRenderer func(profile cv.Profile, markdown string) ([]byte, error)

// NewCV wires the CV service. defaultKey may be empty, in which case every
// request must carry its own key.
func NewCV(
	newGenerator GeneratorFactory,
	defaultKey string,
	resultCache cache.Cache,
	repo repository.DocumentRepository,
	ttl time.Duration,
	logger *slog.Logger,
) *CV {
	return &CV{
		newGenerator: newGenerator,
		defaultKey:   defaultKey,
		cache:        resultCache,
		repo:         repo,
		ttl:          ttl,
		logger:       logger,
		renderPDF:    pdfdoc.RenderBytes,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// WithPDFRenderer replaces the PDF renderer and returns s
func (s *CV) WithPDFRenderer(render PDFRenderer) *CV {
	s.renderPDF = render
	return s
}

// PDF is a rendered download
type PDF struct {
	Data     []byte
	FileName string
	Info     *pdfdoc.Info
}

// HasDefaultKey reports whether a key is configured server side
func (s *CV) HasDefaultKey() bool {
	return s.defaultKey != ""
}

func (s *CV) resolveKey(apiKey string) (string, error) {
	if key := strings.TrimSpace(apiKey); key != "" {
		return key, nil
	}
	if s.defaultKey != "" {
		return s.defaultKey, nil
	}
	return "", ErrMissingAPIKey
}

// Generate validates the profile, asks the model for a CV and stores the result
func (s *CV) Generate(ctx context.Context, profile cv.Profile, apiKey string) (*cv.Document, error) {
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	key, err := s.resolveKey(apiKey)
	if err != nil {
		return nil, err
	}

	start := s.now()
	gen := s.newGenerator(key)
	prompt := cv.BuildPrompt(profile)
	cacheKey := cache.GenerateKey(gen.Model(), key, prompt)

	markdown, cached, err := s.generate(ctx, gen, cacheKey, prompt)
	if err != nil {
		return nil, err
	}

	now := s.now()
	doc := &cv.Document{
		ID:        s.newID(),
		Profile:   profile,
		Markdown:  markdown,
		Model:     gen.Model(),
		CreatedAt: now,
	}
	if s.ttl > 0 {
		doc.ExpiresAt = now.Add(s.ttl)
	}

	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}

	s.logger.Info("CV generated",
		"id", doc.ID,
		"model", doc.Model,
		"cached", cached,
		"duration_ms", s.now().Sub(start).Milliseconds())
	return doc, nil
}

func (s *CV) generate(ctx context.Context, gen Generator, cacheKey, prompt string) (string, bool, error) {
	if entry, err := s.cache.Get(ctx, cacheKey); err == nil {
		return entry.Text, true, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Cache lookup failed", "error", err)
	}

	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		return "", false, fmt.Errorf("generating CV: %w", classify(err))
	}

	if err := s.cache.Set(ctx, cacheKey, &cache.Entry{Text: text, Model: gen.Model()}); err != nil {
		s.logger.Warn("Cache store failed", "error", err)
	}
	return text, false, nil
}

// VerifyKey sends a short test prompt to check that the key is accepted
func (s *CV) VerifyKey(ctx context.Context, apiKey string) error {
	key, err := s.resolveKey(apiKey)
	if err != nil {
		return err
	}
	gen := s.newGenerator(key)
	if v, ok := gen.(KeyVerifier); ok {
		err = v.VerifyAPIKey(ctx)
	} else {
		_, err = gen.Generate(ctx, cv.VerificationPrompt)
	}
	if err != nil {
		return classify(err)
	}
	return nil
}

// Get returns a stored document
func (s *CV) Get(ctx context.Context, id string) (*cv.Document, error) {
	return s.repo.Get(ctx, id)
}

// List returns the stored documents that have not expired
func (s *CV) List(ctx context.Context) ([]*cv.Document, error) {
	return s.repo.List(ctx)
}

// Markdown returns the raw markdown of a document and its download name
func (s *CV) Markdown(ctx context.Context, id string) ([]byte, string, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return []byte(doc.Markdown), doc.Profile.FileName("md"), nil
}

// RenderPDF renders a stored document as PDF
func (s *CV) RenderPDF(ctx context.Context, id string) (*PDF, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.renderPDF(doc.Profile, doc.Markdown)
	if err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}

	result := &PDF{Data: data, FileName: doc.Profile.FileName("pdf")}
	if info, err := pdfdoc.Inspect(data); err == nil {
		result.Info = info
	} else {
		s.logger.Debug("PDF inspection failed", "id", id, "error", err)
	}
	return result, nil
}

// Delete removes a stored document
func (s *CV) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// PurgeExpired deletes documents whose TTL has passed
func (s *CV) PurgeExpired(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return n, fmt.Errorf("purging expired documents: %w", err)
	}
	if n > 0 {
		s.logger.Info("Expired documents purged", "count", n)
	}
	return n, nil
}

// CacheStats returns statistics of the generation result cache
func (s *CV) CacheStats(ctx context.Context) (*cache.Stats, error) {
	return s.cache.GetStats(ctx)
}

// ClearCache drops every cached generation result
func (s *CV) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	s.logger.Info("Result cache cleared")
	return nil
}
