package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/spherical/chart-extractor/internal/domain"
	"github.com/spherical/chart-extractor/internal/observability"
)

// ExtractHandler reads charts from one page image.
type ExtractHandler struct {
	logger    *observability.Logger
	extractor domain.Extractor
	maxBytes  int64
}

// NewExtractHandler creates a new extraction handler.
func NewExtractHandler(logger *observability.Logger, extractor domain.Extractor, maxBytes int64) *ExtractHandler {
	return &ExtractHandler{
		logger:    logger,
		extractor: extractor,
		maxBytes:  maxBytes,
	}
}

// ExtractRequestDTO is the body of POST /api/extract.
type ExtractRequestDTO struct {
	Image     string `json:"image"`
	MediaType string `json:"media_type"`
}

// Extract handles POST /api/extract.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	req := ExtractRequestDTO{MediaType: domain.DefaultMediaType}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, statusOrBadRequest(err), "invalid request body: "+err.Error())
		return
	}

	if req.Image == "" {
		writeError(w, http.StatusBadRequest, "Empty image data")
		return
	}

	doc, err := h.extractor.Extract(ctx, req.Image, req.MediaType)
	if err != nil {
		h.logger.WithContext(ctx).Error().Err(err).Msg("Extraction failed")
		writeError(w, http.StatusInternalServerError, "Extraction failed: "+detailOf(err))
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// statusOrBadRequest keeps 413 for oversized bodies and reports any other
// decode failure as a client error
func statusOrBadRequest(err error) int {
	if status := statusFor(err); status == http.StatusRequestEntityTooLarge {
		return status
	}
	return http.StatusBadRequest
}
