package sdlui

import (
	"github.com/BrandonKowalski/stager/pkg/stager/constants"
	"github.com/veandco/go-sdl2/sdl"
)

// WindowOptions selects SDL window flags.
type WindowOptions struct {
	Borderless        bool // Remove window decorations (SDL_WINDOW_BORDERLESS)
	Resizable         bool // Allow window resizing (SDL_WINDOW_RESIZABLE)
	Fullscreen        bool // Fullscreen mode (SDL_WINDOW_FULLSCREEN)
	FullscreenDesktop bool // Fullscreen at desktop resolution (SDL_WINDOW_FULLSCREEN_DESKTOP)
	AlwaysOnTop       bool // Window stays above others (SDL_WINDOW_ALWAYS_ON_TOP)
	Hidden            bool // Start hidden (omits SDL_WINDOW_SHOWN)
}

func (wo WindowOptions) IsZero() bool {
	return wo == WindowOptions{}
}

// WithDefaults returns wo, or the default options for the environment when wo is zero.
// Devices run fullscreen at desktop resolution; development runs in a resizable window.
func (wo WindowOptions) WithDefaults() WindowOptions {
	if !wo.IsZero() {
		return wo
	}
	if constants.IsDevMode() {
		return WindowOptions{Resizable: true}
	}
	return WindowOptions{Borderless: true, FullscreenDesktop: true}
}

func (wo WindowOptions) ToSDLFlags() uint32 {
	flags := uint32(sdl.WINDOW_SHOWN)
	if wo.Hidden {
		flags = sdl.WINDOW_HIDDEN
	}

	for _, opt := range []struct {
		set  bool
		flag uint32
	}{
		{wo.Resizable, sdl.WINDOW_RESIZABLE},
		{wo.Borderless, sdl.WINDOW_BORDERLESS},
		{wo.Fullscreen, sdl.WINDOW_FULLSCREEN},
		{wo.FullscreenDesktop, sdl.WINDOW_FULLSCREEN_DESKTOP},
		{wo.AlwaysOnTop, sdl.WINDOW_ALWAYS_ON_TOP},
	} {
		if opt.set {
			flags |= opt.flag
		}
	}

	return flags
}
