package domain

import (
	"context"
	"image"
)

// Normalizer turns arbitrary image input into a compact, model-friendly encoding
type Normalizer interface {
	// Normalize decodes raw image bytes and re-encodes them
	Normalize(data []byte) (*EncodedImage, error)

	// NormalizeImage re-encodes an already decoded image
	NormalizeImage(img image.Image) (*EncodedImage, error)
}

// Rasterizer converts an uploaded document into ordered page images
type Rasterizer interface {
	Rasterize(ctx context.Context, content []byte, filename string) ([]PageImage, error)
}

// VisionModel is a single request/response exchange with a multimodal model
type VisionModel interface {
	// Complete sends one base64 image plus a prompt and returns the reply text
	Complete(ctx context.Context, imageData, mediaType, prompt string) (string, error)

	// Name identifies the provider and model for logging
	Name() string
}

// Extractor turns one page image into a chart document
type Extractor interface {
	Extract(ctx context.Context, imageData, mediaType string) (*ChartDocument, error)
}
