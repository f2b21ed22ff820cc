package handler

import (
	"errors"
	"net/http"

	"github.com/pep299/cv-generator/internal/cv"
	"github.com/pep299/cv-generator/internal/repository"
	"github.com/pep299/cv-generator/internal/service"
)

// classify maps service errors to an HTTP status and a user facing message
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, cv.ErrIncompleteProfile):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrMissingAPIKey):
		return http.StatusBadRequest, "An API key is required. Enter one or set GOOGLE_API_KEY."
	case errors.Is(err, service.ErrInvalidAPIKey):
		return http.StatusBadRequest, "Invalid API Key"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "CV not found"
	default:
		return http.StatusBadGateway, "An error occurred while generating the CV. Please try again later."
	}
}
