package pdf

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical/chart-extractor/internal/domain"
)

const (
	// DefaultMaxPages bounds how many pages of a PDF are rendered
	DefaultMaxPages = 30
	// DefaultScale is the zoom applied to the 72 DPI page size
	DefaultScale = 1.5

	baseDPI = 72.0
)

// Converter renders PDF pages to images using go-fitz
type Converter struct {
	normalizer domain.Normalizer
	validator  *Validator
	maxPages   int
	scale      float64
}

// NewConverter creates a new PDF converter instance
func NewConverter(normalizer domain.Normalizer, maxPages int, scale float64) *Converter {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Converter{
		normalizer: normalizer,
		validator:  NewValidator(),
		maxPages:   maxPages,
		scale:      scale,
	}
}

// Convert renders up to maxPages pages of an in-memory PDF, in page order,
// numbering them from 1
func (c *Converter) Convert(ctx context.Context, content []byte) ([]domain.PageImage, error) {
	if err := c.validator.ValidateContent(content); err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, domain.ConversionError("Failed to open PDF", err)
	}
	defer doc.Close()

	pageCount := min(doc.NumPage(), c.maxPages)
	if pageCount == 0 {
		return nil, domain.ValidationError("PDF has no pages", nil)
	}

	images := make([]domain.PageImage, 0, pageCount)

	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(pageNum, baseDPI*c.scale)
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("Failed to render page %d", pageNum+1), err)
		}

		encoded, err := c.normalizer.NormalizeImage(img)
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("Failed to encode page %d", pageNum+1), err)
		}

		images = append(images, domain.PageImage{
			Page:      pageNum + 1,
			Data:      encoded.Data,
			MediaType: encoded.MediaType,
		})
	}

	return images, nil
}
