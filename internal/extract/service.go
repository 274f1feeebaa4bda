package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/spherical/chart-extractor/internal/domain"
	"github.com/spherical/chart-extractor/internal/observability"
)

// PageResult is the extraction outcome for one page
type PageResult struct {
	Page     int
	Document *domain.ChartDocument
	Err      error
}

// Result summarizes a whole-document run
type Result struct {
	Filename  string
	Pages     []PageResult
	Charts    []domain.Chart
	Extracted int
	Skipped   int
	Failed    int
	Duration  time.Duration
}

// Service drives rasterization and per-page extraction for a local document.
// Pages are extracted one at a time, in order.
type Service struct {
	rasterizer domain.Rasterizer
	extractor  domain.Extractor
	logger     *observability.Logger
}

// NewService creates a new extraction service
func NewService(rasterizer domain.Rasterizer, extractor domain.Extractor, logger *observability.Logger) *Service {
	return &Service{
		rasterizer: rasterizer,
		extractor:  extractor,
		logger:     logger.WithOperation("process"),
	}
}

// Process rasterizes content and extracts every page that has an image.
// maxPages limits how many pages are sent to the model; zero means all.
// A page failure is reported and skipped; the run fails only when every
// attempted page failed.
func (s *Service) Process(ctx context.Context, content []byte, filename string, maxPages int, eventCh chan<- domain.StreamEvent) (*Result, error) {
	startTime := time.Now()

	images, err := s.rasterizer.Rasterize(ctx, content, filename)
	if err != nil {
		s.emitError(eventCh, 0, err)
		return nil, err
	}
	if maxPages > 0 && len(images) > maxPages {
		images = images[:maxPages]
	}

	s.emitEvent(eventCh, domain.StreamEvent{
		Type:       domain.EventStart,
		TotalPages: len(images),
		Payload:    fmt.Sprintf("Starting extraction of %s", filename),
		Timestamp:  time.Now(),
	})
	s.logger.Info().Str("filename", filename).Int("pages", len(images)).Msg("Starting extraction")

	result := &Result{Filename: filename}

	for _, image := range images {
		select {
		case <-ctx.Done():
			s.emitError(eventCh, image.Page, ctx.Err())
			return nil, ctx.Err()
		default:
		}

		if image.Placeholder || image.Data == "" {
			result.Skipped++
			s.emitEvent(eventCh, domain.StreamEvent{
				Type:       domain.EventPageSkipped,
				PageNumber: image.Page,
				TotalPages: len(images),
				Payload:    fmt.Sprintf("Page %d has no image", image.Page),
				Timestamp:  time.Now(),
			})
			continue
		}

		s.emitEvent(eventCh, domain.StreamEvent{
			Type:       domain.EventPageProcessing,
			PageNumber: image.Page,
			TotalPages: len(images),
			Payload:    fmt.Sprintf("Processing page %d", image.Page),
			Timestamp:  time.Now(),
		})

		doc, err := s.extractor.Extract(ctx, image.Data, image.MediaType)
		if err != nil {
			s.logger.Error().Err(err).Int("page", image.Page).Msg("Failed to extract page")
			result.Failed++
			result.Pages = append(result.Pages, PageResult{Page: image.Page, Err: err})
			s.emitError(eventCh, image.Page, fmt.Errorf("page %d: %w", image.Page, err))
			continue
		}

		result.Extracted++
		result.Pages = append(result.Pages, PageResult{Page: image.Page, Document: doc})
		result.Charts = append(result.Charts, doc.Charts...)

		s.emitEvent(eventCh, domain.StreamEvent{
			Type:       domain.EventPageComplete,
			PageNumber: image.Page,
			TotalPages: len(images),
			Payload:    doc,
			Timestamp:  time.Now(),
		})
	}

	result.Duration = time.Since(startTime)
	s.emitEvent(eventCh, domain.StreamEvent{
		Type:       domain.EventComplete,
		TotalPages: len(images),
		Payload: fmt.Sprintf("Extraction complete: %d/%d pages successful in %v",
			result.Extracted, len(images)-result.Skipped, result.Duration.Round(time.Millisecond)),
		Timestamp: time.Now(),
	})

	s.logger.Info().
		Int("extracted", result.Extracted).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("charts", len(result.Charts)).
		Msg("Extraction complete")

	if result.Failed > 0 && result.Extracted == 0 {
		return result, domain.ExtractionError("All pages failed to extract", nil)
	}

	return result, nil
}

// emitEvent safely emits an event to the channel
func (s *Service) emitEvent(eventCh chan<- domain.StreamEvent, event domain.StreamEvent) {
	if eventCh != nil {
		select {
		case eventCh <- event:
		default:
			s.logger.Warn().Str("event", string(event.Type)).Msg("Event channel full, dropping event")
		}
	}
}

// emitError emits an error event
func (s *Service) emitError(eventCh chan<- domain.StreamEvent, page int, err error) {
	s.emitEvent(eventCh, domain.StreamEvent{
		Type:       domain.EventError,
		PageNumber: page,
		Payload:    err.Error(),
		Timestamp:  time.Now(),
	})
}
