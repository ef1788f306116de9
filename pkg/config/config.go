// Package config loads kbisw settings from the config file, the environment
// and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
)

const appName = "kbisw"

const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

var ErrUnknownBackend = errors.New("unknown store backend")

type Config struct {
	UseLocation bool        `mapstructure:"use_location"`
	Verbosity   int         `mapstructure:"verbosity"`
	Store       StoreConfig `mapstructure:"store"`
	Input       InputConfig `mapstructure:"input"`
	Xkb         XkbConfig   `mapstructure:"xkb"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	// Path defaults to a file named after the backend in the XDG data dir.
	Path string `mapstructure:"path"`
}

type InputConfig struct {
	Dir string `mapstructure:"dir"`
}

type XkbConfig struct {
	RulesPath string `mapstructure:"rules_path"`
}

var defaults = map[string]any{
	"use_location":   false,
	"verbosity":      0,
	"store.backend":  BackendSQLite,
	"store.path":     "",
	"input.dir":      "/dev/input",
	"xkb.rules_path": "/usr/share/X11/xkb/rules/evdev.xml",
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"location": "use_location",
	"verbose":  "verbosity",
	"store":    "store.backend",
}

// Load reads the config file at path, or the default location when path is
// empty. A missing default file is not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
		for _, dir := range xdg.ConfigDirs {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) resolve() error {
	var file string
	switch c.Store.Backend {
	case BackendSQLite:
		file = "layouts.db"
	case BackendJSON:
		file = "layouts.json"
	case BackendMemory:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Store.Backend)
	}

	if c.Store.Path != "" {
		return nil
	}

	path, err := xdg.DataFile(filepath.Join(appName, file))
	if err != nil {
		return fmt.Errorf("get data file path: %w", err)
	}
	c.Store.Path = path

	return nil
}
