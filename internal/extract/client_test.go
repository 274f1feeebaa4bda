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

type stubModel struct {
	reply     string
	err       error
	calls     int
	mediaType string
	prompt    string
}

func (m *stubModel) Complete(ctx context.Context, imageData, mediaType, prompt string) (string, error) {
	m.calls++
	m.mediaType = mediaType
	m.prompt = prompt
	return m.reply, m.err
}

func (m *stubModel) Name() string { return "stub" }

func TestClient_Extract(t *testing.T) {
	model := &stubModel{reply: "```json\n" + sampleDoc + "\n```"}
	client := NewClient(model, observability.Nop())

	doc, err := client.Extract(context.Background(), "QUJD", "")
	require.NoError(t, err)
	assert.True(t, doc.HasCharts)
	assert.Equal(t, "image/jpeg", model.mediaType)
	assert.Equal(t, Prompt, model.prompt)
}

func TestClient_ExtractEmptyImage(t *testing.T) {
	model := &stubModel{}
	_, err := NewClient(model, observability.Nop()).Extract(context.Background(), "", "image/png")
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeValidation))
	assert.Equal(t, 0, model.calls)
}

func TestClient_ExtractGarbageDegrades(t *testing.T) {
	model := &stubModel{reply: "no charts here, sorry"}
	doc, err := NewClient(model, observability.Nop()).Extract(context.Background(), "QUJD", "image/png")
	require.NoError(t, err)
	assert.False(t, doc.HasCharts)
	assert.Zero(t, doc.Confidence)
	assert.Empty(t, doc.Charts)
}

func TestClient_ExtractTransportError(t *testing.T) {
	model := &stubModel{err: errors.New("connection reset")}
	_, err := NewClient(model, observability.Nop()).Extract(context.Background(), "QUJD", "image/png")
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeAPI))
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 1, model.calls, "failures are not retried")
}

func TestClient_ExtractKeepsDomainErrors(t *testing.T) {
	model := &stubModel{err: domain.ConfigError("no API key", nil)}
	_, err := NewClient(model, observability.Nop()).Extract(context.Background(), "QUJD", "image/png")
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
}

func TestPrompt(t *testing.T) {
	for _, chartType := range domain.ChartTypes {
		assert.Contains(t, Prompt, chartType)
	}
	assert.Contains(t, Prompt, `"has_charts"`)
	assert.Contains(t, Prompt, `"values"`)
}
