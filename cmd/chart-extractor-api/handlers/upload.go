package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/spherical/chart-extractor/internal/domain"
	"github.com/spherical/chart-extractor/internal/observability"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling to temporary files
const multipartMemory = 32 << 20

// UploadHandler turns an uploaded document into page images.
type UploadHandler struct {
	logger     *observability.Logger
	rasterizer domain.Rasterizer
	maxBytes   int64
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(logger *observability.Logger, rasterizer domain.Rasterizer, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		logger:     logger,
		rasterizer: rasterizer,
		maxBytes:   maxBytes,
	}
}

// Upload handles POST /api/upload with a multipart "file" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.WithContext(ctx)

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart body: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return
	}

	images, err := h.rasterizer.Rasterize(ctx, content, header.Filename)
	if err != nil {
		log.Warn().Err(err).Str("filename", header.Filename).Msg("Upload rejected")
		writeError(w, statusFor(err), detailOf(err))
		return
	}

	log.Info().
		Str("filename", header.Filename).
		Int("bytes", len(content)).
		Int("pages", len(images)).
		Msg("Upload rasterized")

	writeJSON(w, http.StatusOK, domain.UploadResult{
		Filename:   header.Filename,
		TotalPages: len(images),
		Images:     images,
	})
}
