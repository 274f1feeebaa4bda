package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spherical/chart-extractor/internal/domain"
	"github.com/spherical/chart-extractor/internal/export"
	"github.com/spherical/chart-extractor/internal/observability"
)

// ExportHandler serves chart data as a file download.
type ExportHandler struct {
	logger   *observability.Logger
	maxBytes int64
}

// NewExportHandler creates a new export handler.
func NewExportHandler(logger *observability.Logger, maxBytes int64) *ExportHandler {
	return &ExportHandler{
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// ExportRequestDTO is the body of POST /api/export.
type ExportRequestDTO struct {
	Charts   []domain.Chart `json:"charts"`
	Format   string         `json:"format"`
	Filename string         `json:"filename"`
}

// Export handles POST /api/export.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	// Absent fields keep these defaults
	req := ExportRequestDTO{
		Format:   string(export.FormatXLSX),
		Filename: export.DefaultFilename,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, statusOrBadRequest(err), "invalid request body: "+err.Error())
		return
	}

	res, err := export.Export(req.Charts, req.Format, req.Filename)
	if err != nil {
		writeError(w, statusFor(err), detailOf(err))
		return
	}

	h.logger.WithContext(ctx).Info().
		Int("charts", len(req.Charts)).
		Str("format", req.Format).
		Str("filename", res.Filename).
		Int("bytes", len(res.Data)).
		Msg("Export written")

	w.Header().Set("Content-Type", res.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}
