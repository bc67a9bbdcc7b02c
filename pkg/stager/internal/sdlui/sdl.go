// Package sdlui renders stager screens with SDL. It provides the window, the
// visible container the stager attaches screen nodes to, texture-backed nodes
// and the loader that turns image and SVG files into them.
//
// Everything in this package must be used from the thread that called Init.
package sdlui

import (
	"fmt"

	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
)

// Init starts the SDL video and event subsystems and the image decoders.
func Init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}

	if err := img.Init(img.INIT_PNG | img.INIT_JPG | img.INIT_WEBP); err != nil {
		sdl.Quit()
		return fmt.Errorf("sdl_image init: %w", err)
	}

	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "1")
	return nil
}

// Quit shuts down the image decoders and SDL.
func Quit() {
	img.Quit()
	sdl.Quit()
}
