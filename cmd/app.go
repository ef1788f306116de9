package cmd

import (
	"codeberg.org/miketth/kbisw/pkg/config"
	"codeberg.org/miketth/kbisw/pkg/hyprland"
	"codeberg.org/miketth/kbisw/pkg/kbisw"
	"codeberg.org/miketth/kbisw/pkg/kvstore/json"
	"codeberg.org/miketth/kbisw/pkg/kvstore/memory"
	"codeberg.org/miketth/kbisw/pkg/kvstore/sqlite"
	"codeberg.org/miketth/kbisw/pkg/xkblayouts"
	"fmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(verbosity int) (*zap.SugaredLogger, error) {
	loggerConfig := zap.NewDevelopmentConfig()

	loggerConfig.OutputPaths = []string{"stdout"}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbosity >= kbisw.VerbosityDebug {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.Sugar(), nil
}

// openStore returns the configured store and a func releasing it.
func openStore(cfg config.StoreConfig, log *zap.SugaredLogger) (kbisw.KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewKVStore(), noop, nil

	case config.BackendJSON:
		store, err := json.NewKVStore(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("create json store: %w", err)
		}
		return store, noop, nil

	case config.BackendSQLite:
		store, err := sqlite.NewKVStore(cfg.Path, log)
		if err != nil {
			return nil, nil, fmt.Errorf("create sqlite store: %w", err)
		}
		return store, store.Close, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
}

func newDirectory(cfg *config.Config) (*hyprland.Directory, error) {
	registry, err := xkblayouts.ParseLayouts(cfg.Xkb.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	hyprctl, err := hyprland.NewHyprctl()
	if err != nil {
		return nil, fmt.Errorf("connect hyprctl: %w", err)
	}

	return hyprland.NewDirectory(hyprctl, registry), nil
}
