package sdlui

import "github.com/veandco/go-sdl2/sdl"

// Input summarizes the SDL events of one frame.
type Input struct {
	Quit bool // Window closed or quit requested
	Back bool // Escape, Backspace or the Android back key pressed
}

// PumpEvents drains the SDL event queue.
func PumpEvents() Input {
	var in Input
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			in.Quit = true
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_CLOSE {
				in.Quit = true
			}
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 && isBackKey(e.Keysym.Sym) {
				in.Back = true
			}
		}
	}
	return in
}

func isBackKey(key sdl.Keycode) bool {
	switch key {
	case sdl.K_ESCAPE, sdl.K_BACKSPACE, sdl.K_AC_BACK:
		return true
	}
	return false
}
