// Package imaging normalizes page images before they are sent to a vision model.
package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"

	// Decoders for every raster format the upload endpoint accepts.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/spherical/chart-extractor/internal/domain"
)

const (
	DefaultMaxSide = 1400
	DefaultQuality = 85
)

// Normalizer flattens, downsamples and re-encodes images as JPEG
type Normalizer struct {
	maxSide int
	quality int
}

// NewNormalizer creates a normalizer. Non-positive arguments select the defaults.
func NewNormalizer(maxSide, quality int) *Normalizer {
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Normalizer{maxSide: maxSide, quality: quality}
}

// Normalize decodes raw image bytes and re-encodes them
func (n *Normalizer) Normalize(data []byte) (*domain.EncodedImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.ValidationError("cannot decode image", err)
	}
	return n.NormalizeImage(img)
}

// NormalizeImage flattens any alpha onto white, scales the longer side down to
// maxSide, and encodes the result as base64 JPEG. Images are never upscaled.
func (n *Normalizer) NormalizeImage(img image.Image) (*domain.EncodedImage, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, domain.ValidationError("image has no pixels", nil)
	}

	dw, dh := FitWithin(w, h, n.maxSide)

	canvas := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	if dw == w && dh == h {
		xdraw.Draw(canvas, canvas.Bounds(), img, b.Min, xdraw.Over)
	} else {
		xdraw.CatmullRom.Scale(canvas, canvas.Bounds(), img, b, xdraw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: n.quality}); err != nil {
		return nil, domain.ConversionError("failed to encode JPEG", err)
	}

	return &domain.EncodedImage{
		Data:      base64.StdEncoding.EncodeToString(buf.Bytes()),
		MediaType: domain.DefaultMediaType,
		Width:     dw,
		Height:    dh,
	}, nil
}

// FitWithin returns the dimensions of w x h scaled proportionally so the
// longer side is at most maxSide. Sizes already within bounds are unchanged.
func FitWithin(w, h, maxSide int) (int, int) {
	if max(w, h) <= maxSide {
		return w, h
	}
	if w >= h {
		return maxSide, max(1, h*maxSide/w)
	}
	return max(1, w*maxSide/h), maxSide
}
