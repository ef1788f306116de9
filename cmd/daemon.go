package cmd

import (
	"codeberg.org/miketth/kbisw/pkg/config"
	"codeberg.org/miketth/kbisw/pkg/hyprland"
	"codeberg.org/miketth/kbisw/pkg/inputdev"
	"codeberg.org/miketth/kbisw/pkg/kbisw"
	"context"
	"errors"
	"fmt"
	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/multierr"
	"sync"
	"time"
)

// eventBuffer absorbs bursts of key presses while a layout switch is in
// flight. Order is kept, nothing is dropped.
const eventBuffer = 64

func runDaemon(ctx context.Context, cfg *config.Config) (err error) {
	log, err := newLogger(cfg.Verbosity)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	log.Debugw("starting", "use_location", cfg.UseLocation, "verbosity", cfg.Verbosity, "store", cfg.Store.Backend)

	directory, err := newDirectory(cfg)
	if err != nil {
		return err
	}

	client, err := hyprland.Connect()
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		err = multierr.Append(err, client.Close())
	}()

	kv, closeStore, err := openStore(cfg.Store, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeStore())
	}()

	layouts := kbisw.LoadLayoutStore(kv, directory, log)
	sw := kbisw.NewSwitcher(directory, layouts, kbisw.Options{
		Verbosity: cfg.Verbosity,
	}, log)
	source := inputdev.NewSource(cfg.Input.Dir, cfg.UseLocation, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan kbisw.Event, eventBuffer)
	errChan := make(chan error, 4)
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		if err := source.Run(ctx, events); err != nil {
			errChan <- fmt.Errorf("read keyboards: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		if err := client.ListenLayoutChanges(ctx, events, log); err != nil {
			errChan <- fmt.Errorf("listen layout changes: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		if err := sw.Run(ctx, events); err != nil {
			errChan <- fmt.Errorf("switch layouts: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		if err := systemdNotifyLoop(ctx); err != nil {
			errChan <- fmt.Errorf("systemd notify: %w", err)
		}
	}()

	log.Info("started kbisw")

	err = <-errChan
	cancel()
	wg.Wait()

	if errors.Is(err, context.Canceled) {
		log.Info("shutting down")
		return nil
	}
	return err
}

func systemdNotifyLoop(ctx context.Context) error {
	// tell systemd that we're ready
	supported, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		return fmt.Errorf("notify systemd: %w", err)
	}
	if !supported {
		return nil
	}

	_, _ = daemon.SdNotify(false, "STATUS=Remembering keyboard layouts")

	t, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return fmt.Errorf("check watchdog: %w", err)
	}
	// if watchdog is not enabled, we don't need to notify it
	if t == 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
			return ctx.Err()

		case <-time.After(t / 2):
			_, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			if err != nil {
				return fmt.Errorf("notify watchdog: %w", err)
			}
		}
	}
}
