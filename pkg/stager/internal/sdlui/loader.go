package sdlui

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BrandonKowalski/stager/pkg/stager/internal"
	"github.com/BrandonKowalski/stager/pkg/stager/internal/raster"
	"github.com/BrandonKowalski/stager/pkg/stager/navigation"
	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
)

// Loader turns screen files into TextureNodes. SVG files are rasterized to fit
// the window; every other format goes through SDL_image.
type Loader struct {
	renderer *sdl.Renderer
	cache    *TextureCache
	bounds   sdl.Rect
	logger   *slog.Logger
}

func NewLoader(renderer *sdl.Renderer, cache *TextureCache, bounds sdl.Rect, logger *slog.Logger) *Loader {
	return &Loader{
		renderer: renderer,
		cache:    cache,
		bounds:   bounds,
		logger:   internal.LoggerOr(logger),
	}
}

// Load returns a node for path. Screens loaded this way carry no controller.
func (l *Loader) Load(path string) (navigation.Node, navigation.Controller, error) {
	texture := l.cache.Get(path)
	if texture == nil {
		var err error
		if texture, err = l.loadTexture(path); err != nil {
			return nil, nil, err
		}
		l.cache.Set(path, texture)
	}

	_, _, w, h, err := texture.Query()
	if err != nil {
		return nil, nil, fmt.Errorf("query texture: %w", err)
	}

	l.logger.Debug("Loaded screen texture", "path", path, "width", w, "height", h)
	return NewTextureNode(texture, w, h), nil, nil
}

func (l *Loader) loadTexture(path string) (*sdl.Texture, error) {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return l.loadSVG(path)
	}

	texture, err := img.LoadTexture(l.renderer, path)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	return texture, nil
}

func (l *Loader) loadSVG(path string) (*sdl.Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rgba, err := raster.SVG(f, int(l.bounds.W), int(l.bounds.H))
	if err != nil {
		return nil, err
	}
	return textureFromRGBA(l.renderer, rgba)
}

func textureFromRGBA(renderer *sdl.Renderer, rgba *image.RGBA) (*sdl.Texture, error) {
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()

	surface, err := sdl.CreateRGBSurfaceWithFormat(0, int32(w), int32(h), 32, uint32(sdl.PIXELFORMAT_ABGR8888))
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	defer surface.Free()

	if err := surface.Lock(); err != nil {
		return nil, fmt.Errorf("lock surface: %w", err)
	}
	pixels := surface.Pixels()
	pitch, row := int(surface.Pitch), w*4
	for y := 0; y < h; y++ {
		copy(pixels[y*pitch:y*pitch+row], rgba.Pix[y*rgba.Stride:y*rgba.Stride+row])
	}
	surface.Unlock()

	texture, err := renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}
	return texture, nil
}
