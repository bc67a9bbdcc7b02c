package sdlui

import "github.com/veandco/go-sdl2/sdl"

// DefaultBackground is drawn behind screens that do not cover the window,
// and behind a screen while it fades.
var DefaultBackground = sdl.Color{R: 0, G: 0, B: 0, A: 255}

// HexToColor converts 0xRRGGBB into an opaque color.
func HexToColor(hex uint32) sdl.Color {
	return sdl.Color{
		R: uint8(hex >> 16),
		G: uint8(hex >> 8),
		B: uint8(hex),
		A: 255,
	}
}
