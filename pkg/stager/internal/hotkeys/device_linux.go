package hotkeys

import (
	"errors"
	"os"
	"sync"

	"github.com/holoplot/go-evdev"
)

// Listener reads an input device on its own goroutine and feeds a Handler.
type Listener struct {
	device  *evdev.InputDevice
	handler *Handler
	once    sync.Once
}

// Listen opens path and starts delivering its key presses to handler.
func Listen(path string, handler *Handler) (*Listener, error) {
	device, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}

	name, _ := device.Name()
	handler.logger.Debug("Listening for hotkeys", "device", path, "name", name)

	l := &Listener{device: device, handler: handler}
	go l.read()

	return l, nil
}

func (l *Listener) read() {
	for {
		ev, err := l.device.ReadOne()
		if err != nil {
			if !errors.Is(err, os.ErrClosed) {
				l.handler.logger.Debug("Hotkey device stopped", "error", err)
			}
			return
		}
		if code, ok := pressed(ev); ok {
			l.handler.Press(code)
		}
	}
}

// pressed reports the key code of a key-down event. Releases and auto-repeats
// are ignored.
func pressed(ev *evdev.InputEvent) (uint16, bool) {
	if ev == nil || ev.Type != evdev.EV_KEY || ev.Value != 1 {
		return 0, false
	}
	return uint16(ev.Code), true
}

// Close releases the device, which ends the read goroutine.
func (l *Listener) Close() error {
	var err error
	l.once.Do(func() {
		err = l.device.Close()
	})
	return err
}
