// Package raster turns uploaded documents into page images.
package raster

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/spherical/chart-extractor/internal/domain"
	"github.com/spherical/chart-extractor/internal/observability"
	"github.com/spherical/chart-extractor/internal/slides"
)

// Kind is the document family selected by file extension.
type Kind int

const (
	KindUnsupported Kind = iota
	KindPDF
	KindImage
	KindSlides
)

var extensionKinds = map[string]Kind{
	".pdf":  KindPDF,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".webp": KindImage,
	".gif":  KindImage,
	".pptx": KindSlides,
}

// KindOf classifies a file name by its extension, case-insensitively.
func KindOf(filename string) Kind {
	return extensionKinds[strings.ToLower(filepath.Ext(filename))]
}

// PDFConverter renders PDF bytes to page images.
type PDFConverter interface {
	Convert(ctx context.Context, content []byte) ([]domain.PageImage, error)
}

// Rasterizer dispatches uploads to the PDF, image, or slide path.
type Rasterizer struct {
	normalizer domain.Normalizer
	pdf        PDFConverter
	logger     *observability.Logger
}

// New creates a Rasterizer.
func New(normalizer domain.Normalizer, pdf PDFConverter, logger *observability.Logger) *Rasterizer {
	return &Rasterizer{
		normalizer: normalizer,
		pdf:        pdf,
		logger:     logger.WithOperation("rasterize"),
	}
}

// Rasterize returns the ordered page images of a document.
func (r *Rasterizer) Rasterize(ctx context.Context, content []byte, filename string) ([]domain.PageImage, error) {
	var (
		images []domain.PageImage
		err    error
	)

	switch KindOf(filename) {
	case KindPDF:
		images, err = r.pdf.Convert(ctx, content)
	case KindImage:
		images, err = r.rasterizeImage(content)
	case KindSlides:
		images, err = r.rasterizeSlides(ctx, content)
	default:
		return nil, domain.ValidationError(fmt.Sprintf(
			"Unsupported file type '%s'. Supported: PDF, PNG, JPG, JPEG, WEBP, GIF, PPTX",
			strings.ToLower(filename)), nil)
	}
	if err != nil {
		return nil, err
	}

	if len(images) == 0 {
		return nil, domain.ValidationError("Could not extract any images from the file.", nil)
	}

	r.logger.WithContext(ctx).Info().
		Str("filename", filename).
		Int("pages", len(images)).
		Msg("Rasterized document")

	return images, nil
}

func (r *Rasterizer) rasterizeImage(content []byte) ([]domain.PageImage, error) {
	if mt := mimetype.Detect(content); !strings.HasPrefix(mt.String(), "image/") {
		return nil, domain.ValidationError("file content is not an image (detected "+mt.String()+")", nil)
	}

	encoded, err := r.normalizer.Normalize(content)
	if err != nil {
		return nil, err
	}

	return []domain.PageImage{{
		Page:      1,
		Data:      encoded.Data,
		MediaType: encoded.MediaType,
	}}, nil
}

// rasterizeSlides keeps the first decodable picture of each slide and emits a
// placeholder for slides that have none.
func (r *Rasterizer) rasterizeSlides(ctx context.Context, content []byte) ([]domain.PageImage, error) {
	deck, err := slides.Read(content)
	if err != nil {
		return nil, domain.ValidationError("PPTX processing error", err)
	}

	images := make([]domain.PageImage, 0, len(deck))
	for _, slide := range deck {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := domain.NewPlaceholderPage(slide.Number)
		for _, pic := range slide.Pictures {
			if mt := mimetype.Detect(pic.Data); !strings.HasPrefix(mt.String(), "image/") {
				r.logger.Debug().Str("part", pic.Name).Str("mime", mt.String()).Msg("Skipping non-image picture")
				continue
			}
			encoded, err := r.normalizer.Normalize(pic.Data)
			if err != nil {
				r.logger.Debug().Err(err).Str("part", pic.Name).Msg("Skipping undecodable picture")
				continue
			}
			page = domain.PageImage{
				Page:      slide.Number,
				Data:      encoded.Data,
				MediaType: encoded.MediaType,
			}
			break
		}
		images = append(images, page)
	}

	return images, nil
}
