// Package handlers provides HTTP handlers for the chart extractor API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spherical/chart-extractor/internal/domain"
)

// errorResponse is the body of every error reply
type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// statusFor maps client input errors to 400 and everything else to 500
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case domain.IsType(err, domain.ErrorTypeValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// detailOf drops the internal type tag from domain errors
func detailOf(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Detail()
	}
	return err.Error()
}
