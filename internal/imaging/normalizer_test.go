package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/chart-extractor/internal/domain"
)

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeResult(t *testing.T, out *domain.EncodedImage) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(out.Data)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestNormalize_DownscalesLongerSide(t *testing.T) {
	n := NewNormalizer(1400, 85)
	src := image.NewRGBA(image.Rect(0, 0, 2800, 1000))

	out, err := n.Normalize(pngBytes(t, src))
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", out.MediaType)
	assert.Equal(t, 1400, out.Width)
	assert.Equal(t, 500, out.Height)

	img := decodeResult(t, out)
	assert.Equal(t, 1400, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestNormalize_NeverUpscales(t *testing.T) {
	n := NewNormalizer(1400, 85)
	src := image.NewRGBA(image.Rect(0, 0, 300, 200))

	out, err := n.Normalize(pngBytes(t, src))
	require.NoError(t, err)
	assert.Equal(t, 300, out.Width)
	assert.Equal(t, 200, out.Height)
}

func TestNormalize_TransparentAndPaletted(t *testing.T) {
	n := NewNormalizer(0, 0)

	transparent := image.NewNRGBA(image.Rect(0, 0, 20, 20)) // fully transparent
	out, err := n.Normalize(pngBytes(t, transparent))
	require.NoError(t, err)
	r, g, b, _ := decodeResult(t, out).At(10, 10).RGBA()
	assert.Greater(t, r>>8, uint32(240), "transparent pixels are flattened onto white")
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))

	paletted := image.NewPaletted(image.Rect(0, 0, 16, 16), color.Palette{color.Black, color.White})
	out, err = n.Normalize(pngBytes(t, paletted))
	require.NoError(t, err)
	assert.Equal(t, 16, out.Width)
}

func TestNormalize_UndecodableInput(t *testing.T) {
	_, err := NewNormalizer(0, 0).Normalize([]byte("definitely not an image"))
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeValidation))
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{1400, 1400, 1400, 1400, 1400},
		{1000, 3000, 1400, 466, 1400},
		{3000, 1, 1400, 1400, 1},
		{10, 10, 1400, 10, 10},
	}
	for _, tt := range tests {
		w, h := FitWithin(tt.w, tt.h, tt.max)
		assert.Equal(t, tt.wantW, w)
		assert.Equal(t, tt.wantH, h)
		assert.LessOrEqual(t, max(w, h), tt.max)
	}
}
