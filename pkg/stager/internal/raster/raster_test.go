package raster

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 10" width="20" height="10">
<rect x="0" y="0" width="20" height="10" fill="#ff0000"/>
</svg>`

func TestSVG(t *testing.T) {
	img, err := SVG(strings.NewReader(squareSVG), 100, 100)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 100, 50), img.Bounds())

	r, g, b, a := img.At(50, 25).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestSVGUnconstrained(t *testing.T) {
	img, err := SVG(strings.NewReader(squareSVG), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())
}

func TestSVGEmpty(t *testing.T) {
	_, err := SVG(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), 10, 10)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestFit(t *testing.T) {
	tests := []struct {
		name       string
		size       image.Point
		maxW, maxH int
		want       image.Point
	}{
		{"wide into square", image.Pt(200, 100), 100, 100, image.Pt(100, 50)},
		{"tall into square", image.Pt(100, 200), 100, 100, image.Pt(50, 100)},
		{"scale up", image.Pt(10, 10), 40, 30, image.Pt(30, 30)},
		{"width only", image.Pt(10, 5), 20, 0, image.Pt(20, 10)},
		{"height only", image.Pt(10, 5), 0, 20, image.Pt(40, 20)},
		{"unbounded", image.Pt(7, 3), 0, 0, image.Pt(7, 3)},
		{"empty", image.Pt(0, 3), 10, 10, image.Point{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fit(tt.size, tt.maxW, tt.maxH))
		})
	}
}

func TestCenter(t *testing.T) {
	got := Center(image.Pt(200, 100), image.Rect(0, 0, 1024, 768))
	assert.Equal(t, image.Rect(0, 128, 1024, 640), got)
}
