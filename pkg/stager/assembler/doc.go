// Package assembler builds a navigation.Stager pre-populated with screens.
//
// Screens are registered by key and resource path. A Loader turns each path into
// a node and an optional controller. A single Build call then loads every screen,
// wires the controllers and shows the initial screen.
//
// # Basic Usage
//
//	st, err := assembler.NewBuilder().
//	    AddScreenPath("home", "screens/home.png").
//	    AddScreen("settings", "screens/", "settings.svg").
//	    Bind("settings", &SettingsController{}).
//	    OnController(func(key string, c navigation.Controller) {
//	        log.Info("Controller ready", "screen", key)
//	    }).
//	    SetInitial("home").
//	    Build(assembler.Stage{
//	        Loader:    loader,
//	        Container: scene,
//	        Animation: animator,
//	        Affinity:  loop,
//	    })
//
// # Controllers
//
// For every loaded screen the controller first receives its stager (SetStager),
// then OnLoad is called, then the OnController callback. This all happens inside
// Build. Controllers may call SetScreen from their hooks once they run on the
// affinity thread.
//
// # Manifests
//
// The same configuration can come from a TOML manifest:
//
//	initial = "home"
//	back_code = 1
//
//	[timings]
//	initial_reveal = "1500ms"
//	fade_out = "500ms"
//	fade_in = "1s"
//
//	[[screens]]
//	id = "home"
//	path = "screens/home.png"
//	title = "HomeTitle"
//
//	[[hotkeys]]
//	code = 59
//	screen = "home"
//
// Use LoadManifest and Manifest.Apply to feed a Builder.
package assembler
