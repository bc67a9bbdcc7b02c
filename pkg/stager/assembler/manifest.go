package assembler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BrandonKowalski/stager/pkg/stager/navigation"
	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration decoded from strings such as "500ms" or "1.5s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// TimingsConfig holds crossfade durations. Zero values keep the defaults.
type TimingsConfig struct {
	InitialReveal Duration `toml:"initial_reveal"`
	FadeOut       Duration `toml:"fade_out"`
	FadeIn        Duration `toml:"fade_in"`
}

// ScreenEntry describes one screen resource.
type ScreenEntry struct {
	ID    string `toml:"id"`
	Path  string `toml:"path"`
	Title string `toml:"title"` // Message id of the localized window title
}

// Hotkey maps an input key code to a screen.
type Hotkey struct {
	Code   uint16 `toml:"code"`
	Screen string `toml:"screen"`
}

// Manifest is the on-disk description of an application's screens.
type Manifest struct {
	Initial  string        `toml:"initial"`
	BackCode uint16        `toml:"back_code"` // Key code that triggers Back; 0 disables
	Timings  TimingsConfig `toml:"timings"`
	Screens  []ScreenEntry `toml:"screens"`
	Hotkeys  []Hotkey      `toml:"hotkeys"`
}

// LoadManifest reads and validates a TOML manifest. Relative screen paths are
// resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	md, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("assembler: reading manifest %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for i, screen := range m.Screens {
		if screen.Path != "" && !filepath.IsAbs(screen.Path) {
			m.Screens[i].Path = filepath.Join(base, screen.Path)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseManifest decodes and validates a TOML manifest held in memory.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("assembler: parsing manifest: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	keys := make([]string, len(undecoded))
	for i, key := range undecoded {
		keys[i] = key.String()
	}
	return fmt.Errorf("%w: unknown keys %s", ErrInvalidManifest, strings.Join(keys, ", "))
}

// Validate checks screen ids, paths, the initial screen and hotkey targets.
func (m *Manifest) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(m.Screens))
	for i, screen := range m.Screens {
		switch {
		case screen.ID == "":
			errs = append(errs, fmt.Errorf("screens[%d]: missing id", i))
		case seen[screen.ID]:
			errs = append(errs, fmt.Errorf("screens[%d]: duplicate id %q", i, screen.ID))
		}
		if screen.Path == "" {
			errs = append(errs, fmt.Errorf("screens[%d]: missing path", i))
		}
		seen[screen.ID] = true
	}

	if m.Initial != "" && !seen[m.Initial] {
		errs = append(errs, fmt.Errorf("initial screen %q is not listed", m.Initial))
	}

	for i, hk := range m.Hotkeys {
		if !seen[hk.Screen] {
			errs = append(errs, fmt.Errorf("hotkeys[%d]: unknown screen %q", i, hk.Screen))
		}
		if hk.Code == 0 {
			errs = append(errs, fmt.Errorf("hotkeys[%d]: missing code", i))
		}
	}

	for name, d := range map[string]Duration{
		"initial_reveal": m.Timings.InitialReveal,
		"fade_out":       m.Timings.FadeOut,
		"fade_in":        m.Timings.FadeIn,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("timings.%s: negative duration", name))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidManifest, errors.Join(errs...))
}

// Apply registers the manifest's screens and initial screen with b.
func (m *Manifest) Apply(b *Builder) *Builder {
	for _, screen := range m.Screens {
		b.AddScreenPath(screen.ID, screen.Path)
	}
	if m.Initial != "" {
		b.SetInitial(m.Initial)
	}
	return b
}

// NavigationTimings converts the configured durations. Unset values stay zero so
// the stager falls back to its defaults.
func (m *Manifest) NavigationTimings() navigation.Timings {
	return navigation.Timings{
		InitialReveal: time.Duration(m.Timings.InitialReveal),
		FadeOut:       time.Duration(m.Timings.FadeOut),
		FadeIn:        time.Duration(m.Timings.FadeIn),
	}
}

// Titles maps screen ids to title message ids, skipping screens without one.
func (m *Manifest) Titles() map[string]string {
	titles := make(map[string]string)
	for _, screen := range m.Screens {
		if screen.Title != "" {
			titles[screen.ID] = screen.Title
		}
	}
	return titles
}

// HotkeyMap maps key codes to screen ids.
func (m *Manifest) HotkeyMap() map[uint16]string {
	keys := make(map[uint16]string, len(m.Hotkeys))
	for _, hk := range m.Hotkeys {
		keys[hk.Code] = hk.Screen
	}
	return keys
}
