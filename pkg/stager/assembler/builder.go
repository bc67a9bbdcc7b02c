package assembler

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/BrandonKowalski/stager/pkg/stager/navigation"
)

// Loader resolves a resource path into a screen node and its controller.
// The controller may be nil.
type Loader interface {
	Load(path string) (navigation.Node, navigation.Controller, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (navigation.Node, navigation.Controller, error)

func (f LoaderFunc) Load(path string) (navigation.Node, navigation.Controller, error) {
	return f(path)
}

// Affinity shows the initial screen on the affinity thread.
// *affinity.Loop and *dispatch.Dispatcher implement it.
type Affinity interface {
	RunOnAffinityThread(fn func())
}

// Stage holds the collaborators Build wires together.
type Stage struct {
	Loader    Loader
	Container navigation.Container
	Animation navigation.Animation
	Options   navigation.Options
	Affinity  Affinity // Optional; without it the initial screen is set synchronously
}

// ControllerFunc is called once per loaded screen that has a controller.
type ControllerFunc func(key string, controller navigation.Controller)

// Builder collects screen registrations for a Stager.
type Builder struct {
	screens      map[string]string
	controllers  map[string]navigation.Controller
	onController ControllerFunc
	initial      string
	hasInitial   bool
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		screens:     make(map[string]string),
		controllers: make(map[string]navigation.Controller),
	}
}

// AddScreen registers the resource name found under parent.
func (b *Builder) AddScreen(key, parent, name string) *Builder {
	b.screens[key] = filepath.Join(parent, name)
	return b
}

// AddScreenPath registers a resource path.
func (b *Builder) AddScreenPath(key, path string) *Builder {
	b.screens[key] = path
	return b
}

// AddScreens registers every key/path pair in screens.
func (b *Builder) AddScreens(screens map[string]string) *Builder {
	for key, path := range screens {
		b.screens[key] = path
	}
	return b
}

// Bind supplies a controller for a screen whose loader returns none.
func (b *Builder) Bind(key string, controller navigation.Controller) *Builder {
	b.controllers[key] = controller
	return b
}

// OnController sets a callback invoked for every loaded controller.
func (b *Builder) OnController(fn ControllerFunc) *Builder {
	b.onController = fn
	return b
}

// SetInitial sets the screen shown once the stager is built.
func (b *Builder) SetInitial(key string) *Builder {
	b.initial = key
	b.hasInitial = key != ""
	return b
}

// Keys returns the registered screen keys in sorted order.
func (b *Builder) Keys() []string {
	keys := make([]string, 0, len(b.screens))
	for key := range b.screens {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Build loads every screen in key order, registers it with a new Stager and shows
// the initial screen. A failing loader aborts the build with a *LoadError.
func (b *Builder) Build(stage Stage) (*navigation.Stager, error) {
	if stage.Loader == nil || stage.Container == nil || stage.Animation == nil {
		return nil, ErrIncompleteStage
	}
	if _, ok := b.screens[b.initial]; b.hasInitial && !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInitial, b.initial)
	}

	st := navigation.New(stage.Container, stage.Animation, stage.Options)

	for _, key := range b.Keys() {
		path := b.screens[key]

		node, controller, err := stage.Loader.Load(path)
		if err != nil {
			return nil, &LoadError{Key: key, Path: path, Err: err}
		}
		if controller == nil {
			controller = b.controllers[key]
		}

		if err := st.Register(navigation.Screen{ID: key, Node: node, Controller: controller}); err != nil {
			return nil, &LoadError{Key: key, Path: path, Err: err}
		}

		if controller != nil {
			controller.OnLoad()
			if b.onController != nil {
				b.onController(key, controller)
			}
		}
	}

	if b.hasInitial {
		initial := b.initial
		show := func() { st.SetScreen(initial) }
		if stage.Affinity != nil {
			stage.Affinity.RunOnAffinityThread(show)
		} else {
			show()
		}
	}

	return st, nil
}
