// Package extract reads chart data out of page images with a vision model.
package extract

import (
	"context"
	"errors"
	"time"

	"github.com/spherical/chart-extractor/internal/domain"
	"github.com/spherical/chart-extractor/internal/observability"
)

// Client asks a vision model for the charts on one page image
type Client struct {
	model  domain.VisionModel
	logger *observability.Logger
}

// NewClient creates an extraction client
func NewClient(model domain.VisionModel, logger *observability.Logger) *Client {
	return &Client{
		model:  model,
		logger: logger.WithOperation("extract"),
	}
}

// Extract sends the image once and parses the reply. Malformed replies degrade
// to the empty document; only transport and provider failures are returned.
func (c *Client) Extract(ctx context.Context, imageData, mediaType string) (*domain.ChartDocument, error) {
	if imageData == "" {
		return nil, domain.ValidationError("Empty image data", nil)
	}
	if mediaType == "" {
		mediaType = domain.DefaultMediaType
	}

	log := c.logger.WithContext(ctx)
	start := time.Now()

	text, err := c.model.Complete(ctx, imageData, mediaType, Prompt)
	if err != nil {
		log.Error().Err(err).Str("model", c.model.Name()).Msg("Model request failed")
		var de *domain.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, domain.APIError("model request failed", err)
	}

	doc, strategy := ParseResponse(text)

	event := log.Info()
	if strategy == StrategyFallback {
		event = log.Warn()
	}
	event.Str("model", c.model.Name()).
		Str("parse", string(strategy)).
		Bool("has_charts", doc.HasCharts).
		Int("charts", len(doc.Charts)).
		Dur("duration", time.Since(start)).
		Msg("Extracted page")

	return doc, nil
}
