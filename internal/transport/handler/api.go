package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/pep299/cv-generator/internal/config"
	"github.com/pep299/cv-generator/internal/cv"
	"github.com/pep299/cv-generator/internal/service"
	"github.com/pep299/cv-generator/internal/transport/middleware"
	"github.com/pep299/cv-generator/internal/transport/response"
)

// API serves the JSON endpoints under /api/v1
type API struct {
	cvService *service.CV
	config    *config.Config
	version   string
	logger    *slog.Logger
}

func NewAPI(cvService *service.CV, cfg *config.Config, version string, logger *slog.Logger) *API {
	return &API{
		cvService: cvService,
		config:    cfg,
		version:   version,
		logger:    logger,
	}
}

type generateRequest struct {
	cv.Profile
	APIKey string `json:"api_key"`
}

type verifyKeyRequest struct {
	APIKey string `json:"api_key"`
}

type documentLinks struct {
	PDF      string `json:"pdf"`
	Markdown string `json:"markdown"`
}

type documentView struct {
	*cv.Document
	Links documentLinks `json:"links"`
}

func viewOf(doc *cv.Document) documentView {
	base := "/api/v1/cv/" + doc.ID
	return documentView{
		Document: doc,
		Links:    documentLinks{PDF: base + "/pdf", Markdown: base + "/markdown"},
	}
}

// apiKey prefers the X-API-Key header over the body
func apiKey(r *http.Request, fromBody string) string {
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	return fromBody
}

func (h *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	logger := middleware.Logger(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("API request failed", "path", r.URL.Path, "error", err)
	} else {
		logger.Info("API request rejected", "path", r.URL.Path, "error", err)
	}
	switch status {
	case http.StatusNotFound:
		response.WriteNotFound(w, message)
	case http.StatusBadGateway:
		response.WriteBadGateway(w, message)
	default:
		response.WriteError(w, status, message)
	}
}

// Health reports liveness
func (h *API) Health(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, "", map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"version":   h.version,
	})
}

// Config returns the non-secret configuration
func (h *API) Config(w http.ResponseWriter, r *http.Request) {
	model := h.config.GeminiModel
	if h.config.Provider == "openrouter" {
		model = h.config.OpenRouterModel
	}
	response.WriteSuccess(w, "", map[string]interface{}{
		"provider":                h.config.Provider,
		"model":                   model,
		"api_key_configured":      h.cvService.HasDefaultKey(),
		"storage_type":            h.config.StorageType,
		"document_ttl_hours":      h.config.DocumentTTL,
		"cache_duration_hours":    h.config.CacheDuration,
		"max_concurrent_requests": h.config.MaxConcurrentRequests,
		"requests_per_minute":     h.config.RequestsPerMinute,
		"purge_schedule":          h.config.PurgeSchedule,
		"auth_required":           h.config.APIAuthToken != "",
	})
}

// CreateCV generates and stores a CV
func (h *API) CreateCV(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteBadRequest(w, "Invalid JSON")
		return
	}

	doc, err := h.cvService.Generate(r.Context(), req.Profile, apiKey(r, req.APIKey))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.WriteCreated(w, "CV generated successfully", viewOf(doc))
}

// ListCVs returns the stored CVs that have not expired
func (h *API) ListCVs(w http.ResponseWriter, r *http.Request) {
	docs, err := h.cvService.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	views := make([]documentView, 0, len(docs))
	for _, doc := range docs {
		views = append(views, viewOf(doc))
	}
	response.WriteSuccess(w, "", views)
}

// GetCV returns a stored CV
func (h *API) GetCV(w http.ResponseWriter, r *http.Request) {
	doc, err := h.cvService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.WriteSuccess(w, "", viewOf(doc))
}

// DeleteCV removes a stored CV
func (h *API) DeleteCV(w http.ResponseWriter, r *http.Request) {
	if err := h.cvService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	response.WriteSuccess(w, "CV deleted", nil)
}

// CVPDF sends the rendered PDF
func (h *API) CVPDF(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.cvService.RenderPDF(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if pdf.Info != nil {
		w.Header().Set("X-PDF-Pages", strconv.Itoa(pdf.Info.Pages))
	}
	response.WriteFile(w, "application/pdf", pdf.FileName, pdf.Data)
}

// CVMarkdown sends the raw markdown
func (h *API) CVMarkdown(w http.ResponseWriter, r *http.Request) {
	data, name, err := h.cvService.Markdown(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.WriteFile(w, "text/markdown; charset=utf-8", name, data)
}

// VerifyKey checks an API key against the provider
func (h *API) VerifyKey(w http.ResponseWriter, r *http.Request) {
	var req verifyKeyRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteBadRequest(w, "Invalid JSON")
			return
		}
	}

	if err := h.cvService.VerifyKey(r.Context(), apiKey(r, req.APIKey)); err != nil {
		h.fail(w, r, err)
		return
	}
	response.WriteSuccess(w, "API Key verified successfully", nil)
}

// CacheStats returns generation cache statistics
func (h *API) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cvService.CacheStats(r.Context())
	if err != nil {
		response.WriteInternalError(w, "Error getting cache stats")
		return
	}
	response.WriteSuccess(w, "", stats)
}

// ClearCache drops every cached generation result
func (h *API) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.cvService.ClearCache(r.Context()); err != nil {
		middleware.Logger(r.Context(), h.logger).Error("Clearing cache failed", "error", err)
		response.WriteInternalError(w, "Error clearing cache")
		return
	}
	response.WriteSuccess(w, "Cache cleared successfully", nil)
}
