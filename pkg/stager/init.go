// Package stager displays full-window screens with SDL and crossfades between
// them. It wires the affinity run-loop, the background dispatcher and the
// navigation stager to an SDL window.
//
// A typical application:
//
//	func main() {
//	    app, err := stager.Init(stager.Options{
//	        WindowTitle:  "Kiosk",
//	        ManifestPath: "stage.toml",
//	        Controllers:  map[string]navigation.Controller{"home": &HomeController{}},
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer app.Close()
//
//	    if err := app.Run(context.Background()); err != nil {
//	        stager.GetLogger().Error("Run failed", "error", err)
//	    }
//	}
//
// Init and Run must be called from the main goroutine.
package stager

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/BrandonKowalski/stager/pkg/stager/affinity"
	"github.com/BrandonKowalski/stager/pkg/stager/assembler"
	"github.com/BrandonKowalski/stager/pkg/stager/constants"
	"github.com/BrandonKowalski/stager/pkg/stager/dispatch"
	"github.com/BrandonKowalski/stager/pkg/stager/internal"
	"github.com/BrandonKowalski/stager/pkg/stager/internal/hotkeys"
	"github.com/BrandonKowalski/stager/pkg/stager/internal/sdlui"
	"github.com/BrandonKowalski/stager/pkg/stager/navigation"
)

// SDL calls must all come from the main thread.
func init() {
	runtime.LockOSThread()
}

const shutdownTimeout = 2 * time.Second

// WindowOptions selects SDL window flags.
type WindowOptions = sdlui.WindowOptions

// Options configures Init.
type Options struct {
	WindowTitle        string                           // Title used for screens without a localized title
	WindowOptions      WindowOptions                    // SDL window flags (borderless, resizable, etc.)
	ManifestPath       string                           // TOML screen manifest
	Manifest           *assembler.Manifest              // Used when ManifestPath is empty
	Controllers        map[string]navigation.Controller // Controllers for screens, keyed by screen id
	LogPath            string                           // Full path for the log file (creates parent directories)
	LogLevel           string                           // Application log level; falls back to LOG_LEVEL
	Locale             string                           // BCP 47 tag used for screen titles (default "en")
	TranslationFiles   []string                         // go-i18n message files, e.g. "active.fr.toml"
	HotkeyDevice       string                           // evdev device read for manifest hotkeys
	Debug              bool                             // Internal debug logging and affinity assertions
	BackgroundColorHex uint32                           // 0xRRGGBB drawn behind screens (default black)
}

// App is a running stager application.
type App struct {
	loop       *affinity.Loop
	dispatcher *dispatch.Dispatcher
	stager     *navigation.Stager
	animator   *navigation.Animator
	window     *sdlui.Window
	scene      *sdlui.Scene
	textures   *sdlui.TextureCache
	localizer  *internal.Localizer
	hotkeys    *hotkeys.Listener

	title  string
	titles map[string]string
	logger *slog.Logger

	sdlStarted bool
	closeOnce  sync.Once
	closed     bool
}

// Init starts SDL, opens the window, loads every screen of the manifest and
// shows its initial screen once Run starts.
func Init(options Options) (*App, error) {
	configureLogging(options)

	manifest, err := resolveManifest(options)
	if err != nil {
		return nil, err
	}

	logger := internal.GetInternalLogger()
	assertions := options.Debug || constants.IsDevMode()

	app := &App{
		title:  options.WindowTitle,
		titles: manifest.Titles(),
		logger: logger,
	}

	if app.localizer, err = internal.NewLocalizer(options.Locale, options.TranslationFiles...); err != nil {
		return nil, err
	}

	if err := sdlui.Init(); err != nil {
		return nil, NewInfrastructureError("sdl_init", err)
	}
	app.sdlStarted = true

	if app.window, err = sdlui.NewWindow(options.WindowTitle, options.WindowOptions, logger); err != nil {
		app.Close()
		return nil, NewInfrastructureError("create_window", err)
	}

	background := sdlui.DefaultBackground
	if options.BackgroundColorHex != 0 {
		background = sdlui.HexToColor(options.BackgroundColorHex)
	}

	app.loop = affinity.New(affinity.Options{Logger: logger})
	app.dispatcher = dispatch.New(app.loop, dispatch.Options{
		Executor:   dispatch.NewGoroutinePool(),
		Logger:     logger,
		Assertions: &assertions,
	})
	app.scene = sdlui.NewScene(background, logger)
	app.animator = navigation.NewAnimator()
	app.textures = sdlui.NewTextureCache()

	builder := manifest.Apply(assembler.NewBuilder())
	for key, controller := range options.Controllers {
		builder.Bind(key, controller)
	}

	app.stager, err = builder.
		OnController(func(key string, _ navigation.Controller) {
			logger.Debug("Screen controller loaded", "screen", key)
		}).
		Build(assembler.Stage{
			Loader:    sdlui.NewLoader(app.window.Renderer, app.textures, app.window.Bounds(), logger),
			Container: app.scene,
			Animation: app.animator,
			Options: navigation.Options{
				Timings:          manifest.NavigationTimings(),
				IsAffinityThread: app.loop.IsAffinityThread,
				Assertions:       &assertions,
				Logger:           logger,
				OnDisplay:        app.onDisplay,
			},
			Affinity: app.loop,
		})
	if err != nil {
		app.Close()
		return nil, NewInfrastructureError("build_stage", err)
	}

	if bindings := hotkeyBindings(manifest); options.HotkeyDevice != "" && !bindings.IsZero() {
		handler := hotkeys.NewHandler(bindings, app.loop, app.stager, logger)
		if app.hotkeys, err = hotkeys.Listen(options.HotkeyDevice, handler); err != nil {
			logger.Warn("Hotkeys disabled", "device", options.HotkeyDevice, "error", err)
		}
	}

	logger.Debug("Stager initialized",
		"screens", len(app.stager.IDs()),
		"initial", manifest.Initial,
		"locale", app.localizer.Tag().String(),
		"vsync", app.window.HasVSync())

	return app, nil
}

func configureLogging(options Options) {
	if options.LogPath != "" {
		internal.SetLogPath(options.LogPath)
	}

	if options.LogLevel != "" {
		internal.SetRawLogLevel(options.LogLevel)
	} else if level := os.Getenv(constants.LogLevelEnvVar); level != "" {
		internal.SetRawLogLevel(level)
	}

	if options.Debug || constants.IsDevMode() {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else {
		internal.SetInternalLogLevel(slog.LevelError)
	}
}

func resolveManifest(options Options) (*assembler.Manifest, error) {
	if options.ManifestPath != "" {
		return assembler.LoadManifest(options.ManifestPath)
	}
	if options.Manifest == nil {
		return nil, ErrNoManifest
	}
	if err := options.Manifest.Validate(); err != nil {
		return nil, err
	}
	return options.Manifest, nil
}

func hotkeyBindings(m *assembler.Manifest) hotkeys.Bindings {
	return hotkeys.Bindings{
		Screens:  m.HotkeyMap(),
		BackCode: m.BackCode,
	}
}

// screenTitle returns the localized title of a screen, or fallback.
func screenTitle(l *internal.Localizer, titles map[string]string, id, fallback string) string {
	if msg, ok := titles[id]; ok {
		return l.Localize(msg)
	}
	return fallback
}

func (a *App) onDisplay(screen navigation.Screen) {
	a.window.SetTitle(screenTitle(a.localizer, a.titles, screen.ID, a.title))
}

// Run drives the affinity loop on the calling goroutine until ctx is done or the
// window is closed. Each frame pumps SDL events, advances the crossfade and
// redraws the scene.
func (a *App) Run(ctx context.Context) error {
	if a.closed {
		return ErrClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	remove := a.loop.OnFrame(func(now time.Time) {
		a.frame(now, cancel)
	})
	defer remove()

	if err := a.loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (a *App) frame(now time.Time, quit func()) {
	input := sdlui.PumpEvents()
	if input.Quit {
		a.logger.Debug("Window closed")
		quit()
		return
	}
	if input.Back {
		a.stager.Back()
	}

	a.animator.Advance(now)
	a.scene.Render(a.window.Renderer, a.window.Bounds())
	a.window.Present()
}

// Stager returns the navigation stager. Its methods must be called on the
// affinity thread, for example from controller hooks or dispatcher callbacks.
func (a *App) Stager() *navigation.Stager {
	return a.stager
}

// Dispatcher returns the background task dispatcher.
func (a *App) Dispatcher() *dispatch.Dispatcher {
	return a.dispatcher
}

// Loop returns the affinity run-loop.
func (a *App) Loop() *affinity.Loop {
	return a.loop
}

// Close stops hotkeys and background work, then releases all SDL resources.
// Must be called before program exit to prevent resource leaks.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.closed = true

		if a.hotkeys != nil {
			if err := a.hotkeys.Close(); err != nil {
				a.logger.Warn("Failed to close hotkey device", "error", err)
			}
		}

		if a.dispatcher != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			if err := a.dispatcher.Shutdown(ctx); err != nil {
				a.logger.Warn("Background tasks still running at shutdown", "error", err)
			}
			cancel()
		}

		if a.textures != nil {
			a.textures.Destroy()
		}
		if a.window != nil {
			a.window.Close()
		}
		if a.sdlStarted {
			sdlui.Quit()
		}

		internal.CloseLogger()
	})
}

// SetLogPath sets the full path for the log file, including filename.
// Call before Init() to take effect during initialization.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}
