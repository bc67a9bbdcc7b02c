package sdlui

import (
	"log/slog"

	"github.com/BrandonKowalski/stager/pkg/stager/internal"
	"github.com/BrandonKowalski/stager/pkg/stager/navigation"
	"github.com/veandco/go-sdl2/sdl"
)

// Scene is the visible container. Its nodes are drawn back to front every frame.
type Scene struct {
	background sdl.Color
	nodes      []navigation.Node
	logger     *slog.Logger
}

// NewScene creates an empty scene cleared to background on every frame.
func NewScene(background sdl.Color, logger *slog.Logger) *Scene {
	return &Scene{
		background: background,
		logger:     internal.LoggerOr(logger),
	}
}

func (s *Scene) Nodes() []navigation.Node {
	return s.nodes
}

// Insert places node at index, clamped to the valid range.
func (s *Scene) Insert(index int, node navigation.Node) {
	index = min(max(index, 0), len(s.nodes))
	s.nodes = append(s.nodes, nil)
	copy(s.nodes[index+1:], s.nodes[index:])
	s.nodes[index] = node
}

func (s *Scene) Remove(index int) {
	if index < 0 || index >= len(s.nodes) {
		return
	}
	s.nodes = append(s.nodes[:index], s.nodes[index+1:]...)
}

// Render clears the renderer and draws every Drawable node within bounds.
func (s *Scene) Render(renderer *sdl.Renderer, bounds sdl.Rect) {
	bg := s.background
	renderer.SetDrawColor(bg.R, bg.G, bg.B, bg.A)
	renderer.Clear()

	for i, node := range s.nodes {
		drawable, ok := node.(Drawable)
		if !ok {
			continue
		}
		if err := drawable.Draw(renderer, bounds); err != nil {
			s.logger.Error("Failed to draw node", "index", i, "error", err)
		}
	}
}
