// Package imaging derives the rendered sizes served by the gallery from a
// single uploaded image.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/corvan/pixwall/models"
	"github.com/corvan/pixwall/store"
)

// Default bounding boxes for the derived sizes, in pixels.
const (
	DefaultModalBound     = 800
	DefaultThumbnailBound = 280
)

const jpegQuality = 85

// Generate produces the three variant byte streams for one upload: the
// original unchanged, a modal size fitted within modalBound and a thumbnail
// fitted within thumbBound. Images already inside a bound are passed
// through at their own dimensions, never enlarged. Input that does not
// decode as JPEG, PNG or GIF fails with ErrUnsupportedFormat.
func Generate(raw []byte, modalBound, thumbBound int) (models.VariantSet, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return models.VariantSet{}, fmt.Errorf("%w: %v", store.ErrUnsupportedFormat, err)
	}

	modal, err := scaleToFit(img, raw, format, modalBound)
	if err != nil {
		return models.VariantSet{}, err
	}
	thumb, err := scaleToFit(img, raw, format, thumbBound)
	if err != nil {
		return models.VariantSet{}, err
	}

	return models.VariantSet{
		Original:  raw,
		Modal:     modal,
		Thumbnail: thumb,
		Ext:       extensionFor(format),
	}, nil
}

// FitWithin computes the dimensions of a w×h image fitted inside a
// bound×bound box with aspect ratio preserved. Images already within the
// box keep their dimensions.
func FitWithin(w, h, bound int) (int, int) {
	if w <= bound && h <= bound {
		return w, h
	}
	scale := math.Min(float64(bound)/float64(w), float64(bound)/float64(h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// scaleToFit returns the raw bytes untouched when no downscale is needed,
// which keeps small GIF uploads (including animated ones) lossless.
func scaleToFit(img image.Image, raw []byte, format string, bound int) ([]byte, error) {
	b := img.Bounds()
	nw, nh := FitWithin(b.Dx(), b.Dy(), bound)
	if nw == b.Dx() && nh == b.Dy() {
		return raw, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
		if err != nil {
			return nil, fmt.Errorf("encode jpeg variant: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("encode png variant: %w", err)
		}
	case "gif":
		if err := gif.Encode(&buf, dst, nil); err != nil {
			return nil, fmt.Errorf("encode gif variant: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", store.ErrUnsupportedFormat, format)
	}
	return buf.Bytes(), nil
}

func extensionFor(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "gif":
		return ".gif"
	default:
		return ".png"
	}
}
