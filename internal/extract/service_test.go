package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/chart-extractor/internal/domain"
	"github.com/spherical/chart-extractor/internal/observability"
)

type stubRasterizer struct {
	pages []domain.PageImage
	err   error
}

func (r *stubRasterizer) Rasterize(ctx context.Context, content []byte, filename string) ([]domain.PageImage, error) {
	return r.pages, r.err
}

type stubExtractor struct {
	docs  map[string]*domain.ChartDocument
	fail  map[string]bool
	calls []string
}

func (e *stubExtractor) Extract(ctx context.Context, imageData, mediaType string) (*domain.ChartDocument, error) {
	e.calls = append(e.calls, imageData)
	if e.fail[imageData] {
		return nil, domain.APIError("model down", nil)
	}
	return e.docs[imageData], nil
}

func docWith(t *testing.T, titles ...string) *domain.ChartDocument {
	t.Helper()
	doc := domain.EmptyChartDocument()
	doc.HasCharts = len(titles) > 0
	for _, title := range titles {
		doc.Charts = append(doc.Charts, domain.Chart{Type: "bar", Title: title})
	}
	return doc
}

func drain(ch chan domain.StreamEvent) []domain.EventType {
	close(ch)
	var types []domain.EventType
	for ev := range ch {
		types = append(types, ev.Type)
	}
	return types
}

func TestService_Process(t *testing.T) {
	rasterizer := &stubRasterizer{pages: []domain.PageImage{
		{Page: 1, Data: "p1", MediaType: "image/jpeg"},
		domain.NewPlaceholderPage(2),
		{Page: 3, Data: "p3", MediaType: "image/jpeg"},
		{Page: 4, Data: "p4", MediaType: "image/jpeg"},
	}}
	extractor := &stubExtractor{
		docs: map[string]*domain.ChartDocument{
			"p1": docWith(t, "A", "B"),
			"p3": docWith(t),
		},
		fail: map[string]bool{"p4": true},
	}

	events := make(chan domain.StreamEvent, 32)
	svc := NewService(rasterizer, extractor, observability.Nop())

	result, err := svc.Process(context.Background(), []byte("x"), "deck.pptx", 0, events)
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p3", "p4"}, extractor.calls, "pages are extracted in order, placeholders skipped")
	assert.Equal(t, 2, result.Extracted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Charts, 2)
	assert.Equal(t, "A", result.Charts[0].Title)

	assert.Equal(t, []domain.EventType{
		domain.EventStart,
		domain.EventPageProcessing, domain.EventPageComplete,
		domain.EventPageSkipped,
		domain.EventPageProcessing, domain.EventPageComplete,
		domain.EventPageProcessing, domain.EventError,
		domain.EventComplete,
	}, drain(events))
}

func TestService_ProcessMaxPages(t *testing.T) {
	rasterizer := &stubRasterizer{pages: []domain.PageImage{
		{Page: 1, Data: "p1"}, {Page: 2, Data: "p2"}, {Page: 3, Data: "p3"},
	}}
	extractor := &stubExtractor{docs: map[string]*domain.ChartDocument{
		"p1": docWith(t), "p2": docWith(t), "p3": docWith(t),
	}}

	_, err := NewService(rasterizer, extractor, observability.Nop()).
		Process(context.Background(), nil, "doc.pdf", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, extractor.calls)
}

func TestService_ProcessAllFailed(t *testing.T) {
	rasterizer := &stubRasterizer{pages: []domain.PageImage{{Page: 1, Data: "p1"}}}
	extractor := &stubExtractor{fail: map[string]bool{"p1": true}}

	_, err := NewService(rasterizer, extractor, observability.Nop()).
		Process(context.Background(), nil, "doc.pdf", 0, nil)
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeExtraction))
}

func TestService_ProcessRasterizeError(t *testing.T) {
	rasterizer := &stubRasterizer{err: domain.ValidationError("Unsupported file type", nil)}

	_, err := NewService(rasterizer, &stubExtractor{}, observability.Nop()).
		Process(context.Background(), nil, "doc.txt", 0, nil)
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeValidation))
}

func TestService_ProcessCancelled(t *testing.T) {
	rasterizer := &stubRasterizer{pages: []domain.PageImage{{Page: 1, Data: "p1"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(rasterizer, &stubExtractor{}, observability.Nop()).
		Process(ctx, nil, "doc.pdf", 0, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}
