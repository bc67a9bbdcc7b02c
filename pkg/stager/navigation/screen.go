package navigation

import (
	"errors"
	"time"

	"github.com/BrandonKowalski/stager/pkg/stager/constants"
)

// Sentinel errors returned by screen registration.
var (
	ErrDuplicateScreen = errors.New("navigation: screen already registered")
	ErrInvalidScreen   = errors.New("navigation: screen needs an id and a node")
)

// Node is the root of a screen's visual subtree. Implementations must be
// comparable; pointer types are the norm.
type Node interface {
	SetOpacity(alpha float64)
}

// Container is the visible parent the displayed screen is attached to.
// It is only touched from the affinity thread.
type Container interface {
	Nodes() []Node
	Insert(index int, node Node)
	Remove(index int)
}

// Controller is the capability object loaded alongside a screen's node.
type Controller interface {
	// SetStager passes the stager that holds the screen. Called before OnLoad.
	SetStager(s *Stager)

	// OnLoad is called once after the screen has been loaded.
	OnLoad()

	// OnDisplay is called on the affinity thread every time the screen
	// is attached to the container.
	OnDisplay()
}

// BaseController implements Controller with no-op hooks. Embed it and override
// the hooks a screen needs.
type BaseController struct {
	stager *Stager
}

func (c *BaseController) SetStager(s *Stager) { c.stager = s }

// Stager returns the stager that holds this controller's screen.
func (c *BaseController) Stager() *Stager { return c.stager }

func (c *BaseController) OnLoad() {}

func (c *BaseController) OnDisplay() {}

// Screen is a registered, navigable pair of node and controller.
type Screen struct {
	ID         string
	Node       Node
	Controller Controller // Optional
}

// Timings sets the crossfade durations.
type Timings struct {
	InitialReveal time.Duration // Fade-in of the very first screen
	FadeOut       time.Duration // Fade-out of the outgoing screen
	FadeIn        time.Duration // Fade-in of the incoming screen
}

// DefaultTimings returns the standard crossfade timings.
func DefaultTimings() Timings {
	return Timings{
		InitialReveal: constants.DefaultRevealDuration,
		FadeOut:       constants.DefaultFadeOutDuration,
		FadeIn:        constants.DefaultFadeInDuration,
	}
}

func (t Timings) withDefaults() Timings {
	d := DefaultTimings()
	if t.InitialReveal <= 0 {
		t.InitialReveal = d.InitialReveal
	}
	if t.FadeOut <= 0 {
		t.FadeOut = d.FadeOut
	}
	if t.FadeIn <= 0 {
		t.FadeIn = d.FadeIn
	}
	return t
}
