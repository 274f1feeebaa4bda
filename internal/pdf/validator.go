package pdf

import (
	"bytes"

	"github.com/gabriel-vasile/mimetype"

	"github.com/spherical/chart-extractor/internal/domain"
)

// Validator provides input validation for PDF content
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateContent checks that the bytes are non-empty and look like a PDF
func (v *Validator) ValidateContent(content []byte) error {
	if len(bytes.TrimSpace(content)) == 0 {
		return domain.ValidationError("PDF file is empty", nil)
	}

	if mt := mimetype.Detect(content); !mt.Is("application/pdf") {
		return domain.ValidationError("file is not a PDF (detected "+mt.String()+")", nil)
	}

	return nil
}
