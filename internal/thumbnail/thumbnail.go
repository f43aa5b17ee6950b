// Package thumbnail renders bounded JPEG previews of page images.
package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/png"
	"math"

	"mangashelf/internal/metrics"
	"mangashelf/internal/page"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultWidth   = 300
	DefaultHeight  = 400
	DefaultQuality = 85
)

// ErrUnavailable is returned when the source bytes can't be decoded as an image.
var ErrUnavailable = errors.New("thumbnail unavailable")

type Generator struct {
	Quality int
}

func New(quality int) *Generator {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	return &Generator{Quality: quality}
}

// Generate decodes data, scales it to fit within maxWidth x maxHeight while
// keeping its aspect ratio, and re-encodes it as JPEG. Images already inside
// the bounds are never upscaled.
func (g *Generator) Generate(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	out, err := g.generate(data, maxWidth, maxHeight)
	if err != nil {
		metrics.ThumbnailsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.ThumbnailsTotal.WithLabelValues("ok").Inc()
	return out, nil
}

func (g *Generator) generate(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, errors.Errorf("invalid thumbnail bounds %dx%d", maxWidth, maxHeight)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, errors.Wrap(ErrUnavailable, "empty image")
	}

	if tw, th := fit(w, h, maxWidth, maxHeight); tw != w || th != h {
		img = imaging.Resize(img, tw, th, imaging.Lanczos)
	}

	// JPEG has no alpha channel
	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	flat := imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(g.Quality)); err != nil {
		return nil, errors.Wrap(err, "could not encode thumbnail")
	}

	return buf.Bytes(), nil
}

// fit returns the target size for a w x h image bounded by maxW x maxH.
func fit(w, h, maxW, maxH int) (int, int) {
	scale := math.Min(1, math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h)))
	if scale == 1 {
		return w, h
	}

	tw := max(1, int(math.Round(float64(w)*scale)))
	th := max(1, int(math.Round(float64(h)*scale)))

	return tw, th
}

// Generate uses the default JPEG quality.
func Generate(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	return New(DefaultQuality).Generate(data, maxWidth, maxHeight)
}

// Page reads page index from src and returns its thumbnail.
func (g *Generator) Page(src page.Source, index, maxWidth, maxHeight int) ([]byte, error) {
	data, err := src.ReadPage(index)
	if err != nil {
		return nil, err
	}

	return g.Generate(data, maxWidth, maxHeight)
}
