package raster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/chart-extractor/internal/domain"
	"github.com/spherical/chart-extractor/internal/imaging"
	"github.com/spherical/chart-extractor/internal/observability"
	"github.com/spherical/chart-extractor/internal/testutil"
)

type stubPDF struct {
	pages []domain.PageImage
	err   error
	calls int
}

func (s *stubPDF) Convert(ctx context.Context, content []byte) ([]domain.PageImage, error) {
	s.calls++
	return s.pages, s.err
}

func newRasterizer(pdf PDFConverter) *Rasterizer {
	return New(imaging.NewNormalizer(1400, 85), pdf, observability.Nop())
}

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"report.PDF":   KindPDF,
		"chart.png":    KindImage,
		"photo.JPEG":   KindImage,
		"anim.gif":     KindImage,
		"pic.webp":     KindImage,
		"deck.pptx":    KindSlides,
		"legacy.ppt":   KindUnsupported,
		"notes.txt":    KindUnsupported,
		"no-extension": KindUnsupported,
	}
	for name, want := range tests {
		assert.Equal(t, want, KindOf(name), name)
	}
}

func TestRasterize_Image(t *testing.T) {
	r := newRasterizer(&stubPDF{})

	pages, err := r.Rasterize(context.Background(), testutil.PNG(40, 30), "Chart.PNG")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Page)
	assert.Equal(t, "image/jpeg", pages[0].MediaType)
	assert.NotEmpty(t, pages[0].Data)
	assert.False(t, pages[0].Placeholder)
}

func TestRasterize_ImageExtensionWithNonImageContent(t *testing.T) {
	_, err := newRasterizer(&stubPDF{}).Rasterize(context.Background(), []byte("hello"), "fake.png")
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeValidation))
}

func TestRasterize_PDFDelegates(t *testing.T) {
	pdf := &stubPDF{pages: []domain.PageImage{{Page: 1, Data: "x", MediaType: "image/jpeg"}}}
	pages, err := newRasterizer(pdf).Rasterize(context.Background(), []byte("%PDF-1.4"), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, pdf.calls)
	assert.Len(t, pages, 1)
}

func TestRasterize_PDFWithNoImages(t *testing.T) {
	_, err := newRasterizer(&stubPDF{}).Rasterize(context.Background(), []byte("%PDF-1.4"), "doc.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not extract any images")
}

func TestRasterize_Unsupported(t *testing.T) {
	_, err := newRasterizer(&stubPDF{}).Rasterize(context.Background(), []byte("x"), "Notes.TXT")
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "Unsupported file type 'notes.txt'")
}

func TestRasterize_SlidesPlaceholderAndFirstPicture(t *testing.T) {
	deck := testutil.PPTX([][][]byte{
		{[]byte("not an image at all"), testutil.PNG(20, 10), testutil.PNG(50, 50)},
		nil,
		{testutil.PNG(10, 10)},
	}, nil)

	pages, err := newRasterizer(&stubPDF{}).Rasterize(context.Background(), deck, "deck.pptx")
	require.NoError(t, err)
	require.Len(t, pages, 3, "one entry per slide")

	assert.Equal(t, 1, pages[0].Page)
	assert.False(t, pages[0].Placeholder)
	assert.NotEmpty(t, pages[0].Data)

	assert.Equal(t, 2, pages[1].Page)
	assert.True(t, pages[1].Placeholder)
	assert.Equal(t, "", pages[1].Data)
	assert.Equal(t, "image/jpeg", pages[1].MediaType)

	assert.Equal(t, 3, pages[2].Page)
	assert.False(t, pages[2].Placeholder)
}

func TestRasterize_BrokenSlides(t *testing.T) {
	_, err := newRasterizer(&stubPDF{}).Rasterize(context.Background(), []byte("PK broken"), "deck.pptx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PPTX processing error")
}
