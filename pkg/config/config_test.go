package config

import (
	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	t.Setenv("XDG_DATA_HOME", t.TempDir())
	xdg.Reload()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""), nil)
	require.NoError(t, err)

	assert.False(t, cfg.UseLocation)
	assert.Zero(t, cfg.Verbosity)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(xdg.DataHome, "kbisw", "layouts.db"), cfg.Store.Path)
	assert.Equal(t, "/dev/input", cfg.Input.Dir)
	assert.Equal(t, "/usr/share/X11/xkb/rules/evdev.xml", cfg.Xkb.RulesPath)
}

func TestConfigFile(t *testing.T) {
	path := writeConfig(t, `
use_location = true
verbosity = 1

[store]
backend = "json"
path = "/tmp/kbisw/layouts.json"

[input]
dir = "/run/input"
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.True(t, cfg.UseLocation)
	assert.Equal(t, 1, cfg.Verbosity)
	assert.Equal(t, StoreConfig{Backend: BackendJSON, Path: "/tmp/kbisw/layouts.json"}, cfg.Store)
	assert.Equal(t, "/run/input", cfg.Input.Dir)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
use_location = false
verbosity = 2

[store]
backend = "sqlite"
`)

	flags := pflag.NewFlagSet("kbisw", pflag.ContinueOnError)
	flags.BoolP("location", "l", false, "")
	flags.CountP("verbose", "v", "")
	flags.String("store", "", "")
	require.NoError(t, flags.Parse([]string{"-l", "-v", "--store", "memory"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.True(t, cfg.UseLocation)
	assert.Equal(t, 1, cfg.Verbosity)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Empty(t, cfg.Store.Path)
}

func TestUnchangedFlagsKeepFileValues(t *testing.T) {
	path := writeConfig(t, "verbosity = 2\n")

	flags := pflag.NewFlagSet("kbisw", pflag.ContinueOnError)
	flags.CountP("verbose", "v", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Verbosity)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("KBISW_STORE_BACKEND", "json")
	t.Setenv("KBISW_USE_LOCATION", "true")

	cfg, err := Load(writeConfig(t, ""), nil)
	require.NoError(t, err)

	assert.Equal(t, BackendJSON, cfg.Store.Backend)
	assert.True(t, cfg.UseLocation)
	assert.Equal(t, "layouts.json", filepath.Base(cfg.Store.Path))
}

func TestUnknownBackend(t *testing.T) {
	_, err := Load(writeConfig(t, "[store]\nbackend = \"redis\"\n"), nil)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
	assert.Error(t, err)
}
