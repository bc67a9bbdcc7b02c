// Package navigation keeps exactly one screen on display and crossfades between
// screens.
//
// A Stager owns the screens registered with it and the container they are
// attached to. Navigating is a small state machine:
//
//	Idle ──SetScreen──▶ FadeOut ──fade done──▶ Swap ──▶ FadeIn ──fade done──▶ Idle
//
// The very first SetScreen skips FadeOut: the node is attached at opacity 0 and
// revealed while the stager stays Idle.
//
// Requests that arrive while a transition is running are coalesced. Only the most
// recent one is kept, and it starts as soon as the stager is Idle again.
//
// Every Stager method must be called from the affinity thread. The animation that
// drives it must be advanced from that thread as well.
package navigation

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/BrandonKowalski/stager/pkg/stager/constants"
	"github.com/BrandonKowalski/stager/pkg/stager/internal"
)

// Phase is the state of the crossfade state machine.
type Phase int

const (
	PhaseIdle    Phase = iota // No transition running
	PhaseFadeOut              // Outgoing screen fading to transparent
	PhaseSwap                 // Outgoing node being replaced by the incoming node
	PhaseFadeIn               // Incoming screen fading to opaque
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFadeOut:
		return "fade-out"
	case PhaseSwap:
		return "swap"
	case PhaseFadeIn:
		return "fade-in"
	default:
		return "unknown"
	}
}

// IsTransitioning reports whether a crossfade is in progress.
func (p Phase) IsTransitioning() bool {
	return p != PhaseIdle
}

// Options configures a Stager.
type Options struct {
	Timings          Timings      // Zero fields fall back to DefaultTimings
	IsAffinityThread func() bool  // Predicate used by affinity assertions; nil disables them
	Assertions       *bool        // Enable affinity assertions (default: constants.IsDevMode())
	Logger           *slog.Logger // Defaults to the internal logger
	OnDisplay        func(Screen) // Called on the affinity thread whenever a screen is attached
}

type request struct {
	id   string
	back bool
}

// Stager displays one registered screen at a time.
type Stager struct {
	container  Container
	animation  Animation
	timings    Timings
	isAffinity func() bool
	assertions bool
	logger     *slog.Logger
	onDisplay  func(Screen)

	screens    map[string]Screen
	current    string
	hasCurrent bool
	phase      Phase
	opacity    float64
	cancel     func()
	pending    *request
	history    *History
}

// New creates a Stager that attaches screens to container and animates them with animation.
func New(container Container, animation Animation, opts Options) *Stager {
	s := &Stager{
		container:  container,
		animation:  animation,
		timings:    opts.Timings.withDefaults(),
		isAffinity: opts.IsAffinityThread,
		assertions: constants.IsDevMode(),
		logger:     internal.LoggerOr(opts.Logger),
		onDisplay:  opts.OnDisplay,
		screens:    make(map[string]Screen),
		history:    NewHistory(),
	}

	if opts.Assertions != nil {
		s.assertions = *opts.Assertions
	}

	return s
}

// RegisterScreen stores node under id.
func (s *Stager) RegisterScreen(id string, node Node) error {
	return s.Register(Screen{ID: id, Node: node})
}

// Register stores a screen and hands its controller a reference to the stager.
// Screens should be registered before the first navigation; the screen map must
// not change while a transition is running.
func (s *Stager) Register(screen Screen) error {
	if screen.ID == "" || screen.Node == nil {
		return ErrInvalidScreen
	}
	if _, exists := s.screens[screen.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateScreen, screen.ID)
	}

	s.screens[screen.ID] = screen
	if screen.Controller != nil {
		screen.Controller.SetStager(s)
	}

	s.logger.Debug("Registered screen", "id", screen.ID)
	return nil
}

// SetScreen navigates to the screen registered under id.
// It returns false, changing nothing, if id is not registered. Otherwise it returns
// true immediately; the transition runs as the animation advances.
func (s *Stager) SetScreen(id string) bool {
	internal.AssertAffinity(s.assertions, s.isAffinity, "Stager.SetScreen")

	if _, ok := s.screens[id]; !ok {
		s.logger.Debug("Navigation to unregistered screen ignored", "id", id)
		return false
	}

	s.submit(request{id: id})
	return true
}

// Back navigates to the previously displayed screen.
// It returns false if there is nothing to go back to.
func (s *Stager) Back() bool {
	internal.AssertAffinity(s.assertions, s.isAffinity, "Stager.Back")

	if !s.phase.IsTransitioning() && s.history.IsEmpty() {
		return false
	}

	s.submit(request{back: true})
	return true
}

// CanGoBack reports whether Back has a screen to return to.
func (s *Stager) CanGoBack() bool {
	return !s.history.IsEmpty()
}

// Current returns the id of the displayed screen, if any.
func (s *Stager) Current() (string, bool) {
	return s.current, s.hasCurrent
}

// Phase returns the current state of the crossfade state machine.
func (s *Stager) Phase() Phase {
	return s.phase
}

// Screen returns the screen registered under id.
func (s *Stager) Screen(id string) (Screen, bool) {
	screen, ok := s.screens[id]
	return screen, ok
}

// IDs returns the registered screen ids in sorted order.
func (s *Stager) IDs() []string {
	ids := make([]string, 0, len(s.screens))
	for id := range s.screens {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Stager) submit(req request) {
	if s.phase.IsTransitioning() {
		s.logger.Debug("Coalescing navigation request",
			"id", req.id,
			"back", req.back,
			"phase", s.phase.String())
		s.pending = &req
		return
	}
	s.start(req)
}

func (s *Stager) start(req request) {
	id := req.id
	if req.back {
		prev, ok := s.history.Pop()
		if !ok {
			return
		}
		id = prev
	}

	target, ok := s.screens[id]
	if !ok {
		return
	}

	if !s.hasCurrent {
		s.reveal(target)
		return
	}
	s.crossfade(target, !req.back)
}

func (s *Stager) reveal(target Screen) {
	s.stopAnimation()

	target.Node.SetOpacity(0)
	s.opacity = 0
	s.container.Insert(len(s.container.Nodes()), target.Node)

	s.current = target.ID
	s.hasCurrent = true

	// Start the reveal before the hooks run so a hook may navigate away at once.
	s.cancel = s.animation.Animate(0, 1, s.timings.InitialReveal, s.fader(target.Node), func() {
		s.cancel = nil
	})
	s.displayed(target)
}

func (s *Stager) crossfade(target Screen, record bool) {
	outgoing := s.screens[s.current]

	// A reveal may still be running; take over from its current opacity.
	s.stopAnimation()
	s.phase = PhaseFadeOut

	s.logger.Debug("Crossfade started", "from", outgoing.ID, "to", target.ID)

	s.cancel = s.animation.Animate(s.opacity, 0, s.timings.FadeOut, s.fader(outgoing.Node), func() {
		s.swap(outgoing, target, record)
	})
}

func (s *Stager) swap(outgoing, target Screen, record bool) {
	s.phase = PhaseSwap

	nodes := s.container.Nodes()
	index := indexOf(nodes, outgoing.Node)
	if index >= 0 {
		s.container.Remove(index)
	} else {
		s.logger.Warn("Outgoing node missing from container", "id", outgoing.ID)
		index = 0
	}

	target.Node.SetOpacity(0)
	s.opacity = 0
	s.container.Insert(index, target.Node)

	if record && outgoing.ID != target.ID {
		s.history.Push(outgoing.ID)
	}
	s.current = target.ID
	s.displayed(target)

	s.phase = PhaseFadeIn
	s.cancel = s.animation.Animate(0, 1, s.timings.FadeIn, s.fader(target.Node), s.settle)
}

func (s *Stager) settle() {
	s.phase = PhaseIdle
	s.cancel = nil

	s.logger.Debug("Crossfade finished", "current", s.current)

	next := s.pending
	s.pending = nil
	if next == nil {
		return
	}
	if !next.back && next.id == s.current {
		return
	}
	s.start(*next)
}

func (s *Stager) displayed(screen Screen) {
	if screen.Controller != nil {
		screen.Controller.OnDisplay()
	}
	if s.onDisplay != nil {
		s.onDisplay(screen)
	}
}

func (s *Stager) fader(node Node) func(float64) {
	return func(alpha float64) {
		s.opacity = alpha
		node.SetOpacity(alpha)
	}
}

func (s *Stager) stopAnimation() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func indexOf(nodes []Node, node Node) int {
	for i, n := range nodes {
		if n == node {
			return i
		}
	}
	return -1
}
