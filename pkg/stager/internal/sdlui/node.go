package sdlui

import (
	"image"
	"math"

	"github.com/BrandonKowalski/stager/pkg/stager/internal/raster"
	"github.com/veandco/go-sdl2/sdl"
)

// Drawable is a node the Scene can render.
type Drawable interface {
	Draw(renderer *sdl.Renderer, bounds sdl.Rect) error
}

// TextureNode draws a texture centered in the window, scaled to fit.
type TextureNode struct {
	texture *sdl.Texture
	size    image.Point
	alpha   uint8
}

// NewTextureNode creates a fully opaque node for a texture of w by h pixels.
func NewTextureNode(texture *sdl.Texture, w, h int32) *TextureNode {
	return &TextureNode{
		texture: texture,
		size:    image.Pt(int(w), int(h)),
		alpha:   255,
	}
}

// SetOpacity sets the blend alpha, clamped to [0, 1].
func (n *TextureNode) SetOpacity(alpha float64) {
	n.alpha = alphaMod(alpha)
}

// Alpha returns the current blend alpha.
func (n *TextureNode) Alpha() uint8 {
	return n.alpha
}

func (n *TextureNode) Draw(renderer *sdl.Renderer, bounds sdl.Rect) error {
	if n.alpha == 0 || n.texture == nil {
		return nil
	}

	if err := n.texture.SetBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		return err
	}
	if err := n.texture.SetAlphaMod(n.alpha); err != nil {
		return err
	}

	dst := toSDLRect(raster.Center(n.size, toRectangle(bounds)))
	return renderer.Copy(n.texture, nil, &dst)
}

func alphaMod(alpha float64) uint8 {
	switch {
	case math.IsNaN(alpha) || alpha <= 0:
		return 0
	case alpha >= 1:
		return 255
	default:
		return uint8(math.Round(alpha * 255))
	}
}

func toRectangle(r sdl.Rect) image.Rectangle {
	return image.Rect(int(r.X), int(r.Y), int(r.X+r.W), int(r.Y+r.H))
}

func toSDLRect(r image.Rectangle) sdl.Rect {
	return sdl.Rect{X: int32(r.Min.X), Y: int32(r.Min.Y), W: int32(r.Dx()), H: int32(r.Dy())}
}
