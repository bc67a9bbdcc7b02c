package sdlui

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/BrandonKowalski/stager/pkg/stager/constants"
	"github.com/BrandonKowalski/stager/pkg/stager/internal"
	"github.com/veandco/go-sdl2/sdl"
)

// Window wraps the SDL window and renderer screens are drawn with.
type Window struct {
	Window   *sdl.Window
	Renderer *sdl.Renderer
	Title    string
	width    int32
	height   int32
	hasVSync bool
	logger   *slog.Logger
}

// NewWindow creates a window sized to the current display. In dev mode the size
// comes from WINDOW_WIDTH and WINDOW_HEIGHT instead.
func NewWindow(title string, opts WindowOptions, logger *slog.Logger) (*Window, error) {
	logger = internal.LoggerOr(logger)
	opts = opts.WithDefaults()

	width, height := int32(constants.DefaultDevWindowWidth), int32(constants.DefaultDevWindowHeight)
	x, y := int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED)

	if constants.IsDevMode() {
		opts.Borderless = false
		x, y = 50, 50
		width = envDimension(constants.WindowWidthEnvVar, width, logger)
		height = envDimension(constants.WindowHeightEnvVar, height, logger)
	} else if mode, err := sdl.GetCurrentDisplayMode(0); err != nil {
		logger.Error("Failed to get display mode; using default size", "error", err)
	} else {
		width, height = mode.W, mode.H
	}

	logger.Debug("Initializing SDL window", "width", width, "height", height)

	window, err := sdl.CreateWindow(title, x, y, width, height, opts.ToSDLFlags())
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		logger.Warn("Accelerated renderer unavailable; falling back to software", "error", err)
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
	}
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	if err := renderer.SetLogicalSize(width, height); err != nil {
		logger.Warn("Failed to set logical size", "error", err)
	}

	info, err := renderer.GetInfo()
	vsync := err == nil && info.Flags&sdl.RENDERER_PRESENTVSYNC != 0

	return &Window{
		Window:   window,
		Renderer: renderer,
		Title:    title,
		width:    width,
		height:   height,
		hasVSync: vsync,
		logger:   logger,
	}, nil
}

func envDimension(name string, fallback int32, logger *slog.Logger) int32 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}

	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n <= 0 {
		internal.LoggerOr(logger).Warn("Invalid window dimension; using default", "variable", name, "value", v, "error", err)
		return fallback
	}
	return int32(n)
}

// Bounds returns the logical drawing area.
func (w *Window) Bounds() sdl.Rect {
	return sdl.Rect{X: 0, Y: 0, W: w.width, H: w.height}
}

// HasVSync reports whether presenting waits for the display refresh.
func (w *Window) HasVSync() bool {
	return w.hasVSync
}

// SetTitle updates the window title if it changed.
func (w *Window) SetTitle(title string) {
	if title == w.Title {
		return
	}
	w.Title = title
	w.Window.SetTitle(title)
}

// Present swaps the render buffer.
func (w *Window) Present() {
	w.Renderer.Present()
}

// Close destroys the renderer and the window.
func (w *Window) Close() {
	if w.Renderer != nil {
		w.Renderer.Destroy()
		w.Renderer = nil
	}
	if w.Window != nil {
		w.Window.Destroy()
		w.Window = nil
	}
}
