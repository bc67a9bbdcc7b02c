//go:build !linux

package hotkeys

import "errors"

// ErrUnsupported is returned by Listen on platforms without evdev.
var ErrUnsupported = errors.New("hotkeys: input devices are only supported on linux")

// Listener is unavailable on this platform.
type Listener struct{}

func Listen(path string, handler *Handler) (*Listener, error) {
	return nil, ErrUnsupported
}

func (l *Listener) Close() error { return nil }
