// Package hotkeys turns key presses from an evdev input device into navigation
// requests. Requests are marshaled onto the affinity thread before they
// reach the stager.
package hotkeys

import (
	"log/slog"

	"github.com/BrandonKowalski/stager/pkg/stager/internal"
)

// Target is the navigation surface driven by hotkeys.
type Target interface {
	SetScreen(id string) bool
	Back() bool
}

// Affinity marshals a function onto the affinity thread.
type Affinity interface {
	RunOnAffinityThread(fn func())
}

// Bindings maps key codes to screen ids. BackCode triggers Back; zero disables it.
type Bindings struct {
	Screens  map[uint16]string
	BackCode uint16
}

// IsZero reports whether no key is bound.
func (b Bindings) IsZero() bool {
	return len(b.Screens) == 0 && b.BackCode == 0
}

// Handler translates input events into navigation on target.
type Handler struct {
	bindings Bindings
	affinity Affinity
	target   Target
	logger   *slog.Logger
}

// NewHandler creates a Handler. A nil logger uses the internal logger.
func NewHandler(bindings Bindings, affinity Affinity, target Target, logger *slog.Logger) *Handler {
	return &Handler{
		bindings: bindings,
		affinity: affinity,
		target:   target,
		logger:   internal.LoggerOr(logger),
	}
}

// Press handles a key press. It reports whether code is bound.
func (h *Handler) Press(code uint16) bool {
	if h.bindings.BackCode != 0 && code == h.bindings.BackCode {
		h.logger.Debug("Hotkey back", "code", code)
		h.affinity.RunOnAffinityThread(func() { h.target.Back() })
		return true
	}

	id, ok := h.bindings.Screens[code]
	if !ok {
		return false
	}

	h.logger.Debug("Hotkey navigation", "code", code, "screen", id)
	h.affinity.RunOnAffinityThread(func() {
		if !h.target.SetScreen(id) {
			h.logger.Warn("Hotkey bound to unknown screen", "code", code, "screen", id)
		}
	})
	return true
}
