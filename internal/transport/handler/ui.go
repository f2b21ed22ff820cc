package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pep299/cv-generator/internal/cv"
	"github.com/pep299/cv-generator/internal/preview"
	"github.com/pep299/cv-generator/internal/repository"
	"github.com/pep299/cv-generator/internal/service"
	"github.com/pep299/cv-generator/internal/transport/middleware"
	"github.com/pep299/cv-generator/internal/transport/response"
)

// UI serves the HTML form, the result page and the downloads
type UI struct {
	cvService *service.CV
	logger    *slog.Logger
}

func NewUI(cvService *service.CV, logger *slog.Logger) *UI {
	return &UI{
		cvService: cvService,
		logger:    logger,
	}
}

type pageData struct {
	HasServerKey bool
	ShowKeyHelp  bool
	Profile      cv.Profile
	Error        string
	Result       *resultView
}

type resultView struct {
	ID         string
	Model      string
	Markdown   string
	Preview    template.HTML
	PDFFile    string
	MDFile     string
	PDFWarning string
}

func (h *UI) page() pageData {
	return pageData{
		HasServerKey: h.cvService.HasDefaultKey(),
		ShowKeyHelp:  !h.cvService.HasDefaultKey(),
	}
}

// Index shows the empty form
func (h *UI) Index(w http.ResponseWriter, r *http.Request) {
	if err := render(w, http.StatusOK, indexTemplate, h.page()); err != nil {
		middleware.Logger(r.Context(), h.logger).Error("Rendering index failed", "error", err)
	}
}

// Guide shows the CV format guide
func (h *UI) Guide(w http.ResponseWriter, r *http.Request) {
	if err := render(w, http.StatusOK, guideTemplate, h.page()); err != nil {
		middleware.Logger(r.Context(), h.logger).Error("Rendering guide failed", "error", err)
	}
}

// Generate handles the form submission
func (h *UI) Generate(w http.ResponseWriter, r *http.Request) {
	logger := middleware.Logger(r.Context(), h.logger)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	data := h.page()
	data.Profile = profileFromForm(r)

	doc, err := h.cvService.Generate(r.Context(), data.Profile, r.PostFormValue("api_key"))
	if err != nil {
		status, message := classify(err)
		if errors.Is(err, cv.ErrIncompleteProfile) {
			message = "Please fill in all fields"
		}
		if errors.Is(err, service.ErrMissingAPIKey) || errors.Is(err, service.ErrInvalidAPIKey) {
			data.ShowKeyHelp = true
		}
		if status >= http.StatusInternalServerError {
			logger.Error("CV generation failed", "error", err)
		} else {
			logger.Info("CV generation rejected", "error", err)
		}
		data.Error = message
		if err := render(w, status, indexTemplate, data); err != nil {
			logger.Error("Rendering index failed", "error", err)
		}
		return
	}

	result := &resultView{
		ID:       doc.ID,
		Model:    doc.Model,
		Markdown: doc.Markdown,
		PDFFile:  doc.Profile.FileName("pdf"),
		MDFile:   doc.Profile.FileName("md"),
	}

	result.Preview, err = preview.HTML(doc.Markdown)
	if err != nil {
		logger.Warn("Preview rendering failed", "id", doc.ID, "error", err)
	}

	// The markdown download stays available when the PDF cannot be built
	if _, err := h.cvService.RenderPDF(r.Context(), doc.ID); err != nil {
		logger.Warn("PDF generation failed", "id", doc.ID, "error", err)
		result.PDFWarning = "PDF generation failed. Download as Markdown instead."
	}

	data.Profile = doc.Profile
	data.Result = result
	if err := render(w, http.StatusOK, indexTemplate, data); err != nil {
		logger.Error("Rendering result failed", "error", err)
	}
}

// DownloadPDF sends the CV as a PDF attachment
func (h *UI) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.cvService.RenderPDF(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.downloadError(w, r, err)
		return
	}
	response.WriteFile(w, "application/pdf", pdf.FileName, pdf.Data)
}

// DownloadMarkdown sends the CV as a Markdown attachment
func (h *UI) DownloadMarkdown(w http.ResponseWriter, r *http.Request) {
	data, name, err := h.cvService.Markdown(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.downloadError(w, r, err)
		return
	}
	response.WriteFile(w, "text/markdown; charset=utf-8", name, data)
}

func (h *UI) downloadError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "CV not found or expired", http.StatusNotFound)
		return
	}
	middleware.Logger(r.Context(), h.logger).Error("Download failed", "error", err)
	http.Error(w, "Error creating download", http.StatusInternalServerError)
}

func profileFromForm(r *http.Request) cv.Profile {
	return cv.Profile{
		Name:       r.PostFormValue("name"),
		Email:      r.PostFormValue("email"),
		Phone:      r.PostFormValue("phone"),
		Position:   r.PostFormValue("job_position"),
		Experience: r.PostFormValue("experience"),
		Education:  r.PostFormValue("education"),
		Skills:     r.PostFormValue("skills"),
	}
}
