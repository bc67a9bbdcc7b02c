// Package raster turns vector screen assets into pixels and lays images out
// inside a window.
package raster

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// ErrEmptyImage is returned for SVG documents without a usable size.
var ErrEmptyImage = errors.New("raster: image has no size")

// SVG rasterizes the SVG document read from r. The image keeps the aspect
// ratio of the viewBox and is scaled to fit within maxW by maxH. A zero bound
// leaves that dimension unconstrained.
func SVG(r io.Reader, maxW, maxH int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("raster: parsing svg: %w", err)
	}

	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		return nil, ErrEmptyImage
	}

	size := Fit(image.Pt(int(math.Ceil(vw)), int(math.Ceil(vh))), maxW, maxH)
	if size.X == 0 || size.Y == 0 {
		return nil, ErrEmptyImage
	}

	icon.SetTarget(0, 0, float64(size.X), float64(size.Y))

	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	scanner := rasterx.NewScannerGV(size.X, size.Y, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size.X, size.Y, scanner), 1.0)

	return img, nil
}

// Fit scales size to the largest size within maxW by maxH that keeps its
// aspect ratio. Zero bounds leave the dimension unconstrained. Sizes already
// inside the bounds are scaled up.
func Fit(size image.Point, maxW, maxH int) image.Point {
	if size.X <= 0 || size.Y <= 0 {
		return image.Point{}
	}
	if maxW <= 0 && maxH <= 0 {
		return size
	}

	scale := math.Inf(1)
	if maxW > 0 {
		scale = float64(maxW) / float64(size.X)
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(size.Y))
	}

	return image.Pt(
		max(1, int(math.Round(float64(size.X)*scale))),
		max(1, int(math.Round(float64(size.Y)*scale))),
	)
}

// Center returns the rectangle of an image of the given size fitted into
// bounds and centered in it.
func Center(size image.Point, bounds image.Rectangle) image.Rectangle {
	fitted := Fit(size, bounds.Dx(), bounds.Dy())
	offset := image.Pt((bounds.Dx()-fitted.X)/2, (bounds.Dy()-fitted.Y)/2)
	topLeft := bounds.Min.Add(offset)
	return image.Rectangle{Min: topLeft, Max: topLeft.Add(fitted)}
}
