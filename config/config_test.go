package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 800.0, cfg.Layout.Width)
	assert.Equal(t, 500.0, cfg.Layout.Height)
	assert.Equal(t, 150.0, cfg.Layout.LinkDistance)
	assert.Equal(t, -500.0, cfg.Layout.Charge)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 16*time.Millisecond, cfg.TickInterval())
	assert.False(t, cfg.Debug)

	opts, err := cfg.FrameOptions()
	require.NoError(t, err)
	assert.Equal(t, 12.0, opts.Padding)
	assert.Equal(t, 500.0, cfg.OutputOptions().Height)
}

func TestLoadTOML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "spectragraph.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
debug = true

[layout]
link_distance = 90.0
charge = -200.0

[server]
addr = ":9999"

[session]
tick_millis = 40
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 90.0, cfg.Layout.LinkDistance)
	assert.Equal(t, -200.0, cfg.Layout.Charge)
	assert.Equal(t, 800.0, cfg.Layout.Width, "unset keys keep defaults")
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 40*time.Millisecond, cfg.TickInterval())
}

func TestLoadYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "spectragraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
layout:
  width: 1024
  friction: 0.8
render:
  high_color: "#00ff00"
session:
  empty: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1024.0, cfg.Layout.Width)
	assert.Equal(t, 0.8, cfg.Layout.Friction)
	assert.Equal(t, "#00ff00", cfg.Render.HighColor)
	assert.True(t, cfg.Session.Empty)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spectragraph.ini")
	require.NoError(t, os.WriteFile(path, []byte("x=1"), 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvAddr, "127.0.0.1:7000")
	t.Setenv(EnvDebug, "true")
	t.Setenv(EnvSeed, "42")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.True(t, cfg.Debug)
	assert.Equal(t, int64(42), cfg.Layout.Seed)

	t.Setenv(EnvDebug, "sometimes")
	_, err = Load("")
	require.Error(t, err)
}

func TestDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvSeed+"=7\n"), 0o644))
	t.Setenv(EnvSeed, "")
	require.NoError(t, os.Unsetenv(EnvSeed))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Layout.Seed)
}

func TestSaveAndLoad(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, name := range []string{"out.toml", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := Default()
			cfg.Layout.Gravity = 0.3
			cfg.Server.EventBurst = 5

			require.NoError(t, Save(cfg, path))
			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, 0.3, loaded.Layout.Gravity)
			assert.Equal(t, 5, loaded.Server.EventBurst)
		})
	}
}
