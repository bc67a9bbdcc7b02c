package hotkeys

import (
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
)

func TestPressed(t *testing.T) {
	tests := []struct {
		name   string
		event  *evdev.InputEvent
		code   uint16
		isDown bool
	}{
		{"key down", &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_F1, Value: 1}, uint16(evdev.KEY_F1), true},
		{"key up", &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_F1, Value: 0}, 0, false},
		{"repeat", &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_F1, Value: 2}, 0, false},
		{"sync", &evdev.InputEvent{Type: evdev.EV_SYN}, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := pressed(tt.event)
			assert.Equal(t, tt.isDown, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}
