package assembler_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BrandonKowalski/stager/pkg/stager/assembler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
initial = "home"
back_code = 1

[timings]
initial_reveal = "2s"
fade_out = "250ms"

[[screens]]
id = "home"
path = "screens/home.png"
title = "HomeTitle"

[[screens]]
id = "settings"
path = "/opt/app/settings.svg"

[[hotkeys]]
code = 59
screen = "settings"
`

func writeManifest(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stage.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	m, err := assembler.LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "home", m.Initial)
	assert.Equal(t, uint16(1), m.BackCode)
	require.Len(t, m.Screens, 2)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "screens", "home.png"), m.Screens[0].Path)
	assert.Equal(t, "/opt/app/settings.svg", m.Screens[1].Path, "absolute paths are kept")

	timings := m.NavigationTimings()
	assert.Equal(t, 2*time.Second, timings.InitialReveal)
	assert.Equal(t, 250*time.Millisecond, timings.FadeOut)
	assert.Zero(t, timings.FadeIn)

	assert.Equal(t, map[string]string{"home": "HomeTitle"}, m.Titles())
	assert.Equal(t, map[uint16]string{59: "settings"}, m.HotkeyMap())
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := assembler.LoadManifest(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseManifestRejectsUnknownKeys(t *testing.T) {
	_, err := assembler.ParseManifest([]byte(`
initial = "home"
colour = "red"

[[screens]]
id = "home"
path = "home.png"
`))
	require.ErrorIs(t, err, assembler.ErrInvalidManifest)
	assert.Contains(t, err.Error(), "colour")
}

func TestParseManifestBadDuration(t *testing.T) {
	_, err := assembler.ParseManifest([]byte(`
[timings]
fade_in = "soon"
`))
	assert.Error(t, err)
}

func TestManifestValidate(t *testing.T) {
	tests := []struct {
		name     string
		manifest assembler.Manifest
		wantErr  string
	}{
		{
			name: "valid",
			manifest: assembler.Manifest{
				Initial: "a",
				Screens: []assembler.ScreenEntry{{ID: "a", Path: "a.png"}},
			},
		},
		{
			name:     "missing id",
			manifest: assembler.Manifest{Screens: []assembler.ScreenEntry{{Path: "a.png"}}},
			wantErr:  "missing id",
		},
		{
			name:     "missing path",
			manifest: assembler.Manifest{Screens: []assembler.ScreenEntry{{ID: "a"}}},
			wantErr:  "missing path",
		},
		{
			name: "duplicate id",
			manifest: assembler.Manifest{Screens: []assembler.ScreenEntry{
				{ID: "a", Path: "a.png"},
				{ID: "a", Path: "b.png"},
			}},
			wantErr: `duplicate id "a"`,
		},
		{
			name: "unknown initial",
			manifest: assembler.Manifest{
				Initial: "b",
				Screens: []assembler.ScreenEntry{{ID: "a", Path: "a.png"}},
			},
			wantErr: `initial screen "b"`,
		},
		{
			name: "hotkey to unknown screen",
			manifest: assembler.Manifest{
				Screens: []assembler.ScreenEntry{{ID: "a", Path: "a.png"}},
				Hotkeys: []assembler.Hotkey{{Code: 30, Screen: "b"}},
			},
			wantErr: `unknown screen "b"`,
		},
		{
			name: "negative duration",
			manifest: assembler.Manifest{
				Timings: assembler.TimingsConfig{FadeOut: assembler.Duration(-time.Second)},
			},
			wantErr: "timings.fade_out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.manifest.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, assembler.ErrInvalidManifest)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestManifestApply(t *testing.T) {
	m, err := assembler.ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	loader := &recordingLoader{}
	stage, _ := newStage(loader)

	st, err := m.Apply(assembler.NewBuilder()).Build(stage)
	require.NoError(t, err)

	assert.Equal(t, []string{"home", "settings"}, st.IDs())
	current, ok := st.Current()
	require.True(t, ok)
	assert.Equal(t, "home", current)
	assert.Equal(t, []string{"screens/home.png", "/opt/app/settings.svg"}, loader.loaded)
}
