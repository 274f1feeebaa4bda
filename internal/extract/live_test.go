package extract

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/spherical/chart-extractor/internal/config"
	"github.com/spherical/chart-extractor/internal/imaging"
	"github.com/spherical/chart-extractor/internal/llm"
	"github.com/spherical/chart-extractor/internal/observability"
	"github.com/spherical/chart-extractor/internal/testutil"
)

// TestLiveExtraction calls the configured provider for real. It only runs
// when CHART_EXTRACTOR_LIVE is set and an API key is available.
func TestLiveExtraction(t *testing.T) {
	_ = godotenv.Load("../../.env")
	if os.Getenv("CHART_EXTRACTOR_LIVE") == "" {
		t.Skip("CHART_EXTRACTOR_LIVE not set")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	require.NoError(t, err)
	if cfg.Model.APIKey == "" {
		t.Skipf("no API key for provider %s", cfg.Model.Provider)
	}

	model, err := llm.New(cfg.Model)
	require.NoError(t, err)

	img, err := imaging.NewNormalizer(0, 0).Normalize(testutil.PNG(200, 120))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	doc, err := NewClient(model, observability.DefaultLogger()).Extract(ctx, img.Data, img.MediaType)
	require.NoError(t, err)
	require.NotNil(t, doc)
	t.Logf("has_charts=%v confidence=%v charts=%d", doc.HasCharts, doc.Confidence, len(doc.Charts))
}
