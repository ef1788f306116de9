package kbisw

import (
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
)

var ErrSourceClosed = errors.New("event source closed")

const (
	VerbosityDebug = 1
	VerbosityTrace = 2
)

type Options struct {
	Verbosity int
}

// Switcher restores the last used layout when the active keyboard changes
// and attributes every layout change to the keyboard active at the time.
//
// It is not safe for concurrent use. Run handles keystrokes and layout
// change notifications from a single channel on a single goroutine.
type Switcher struct {
	active    ActiveDevice
	layouts   *LayoutStore
	directory LayoutDirectory
	opts      Options
	log       *zap.SugaredLogger
}

func NewSwitcher(
	directory LayoutDirectory,
	layouts *LayoutStore,
	opts Options,
	log *zap.SugaredLogger,
) *Switcher {
	return &Switcher{
		layouts:   layouts,
		directory: directory,
		opts:      opts,
		log:       log,
	}
}

// Run handles events until ctx is done or events is closed.
func (s *Switcher) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return ErrSourceClosed
			}
			s.handle(ev)
		}
	}
}

func (s *Switcher) handle(ev Event) {
	switch ev.Kind {
	case EventKeystroke:
		if s.opts.Verbosity >= VerbosityTrace {
			s.log.Debugw("keystroke", "device", ev.Device)
		}
		if err := s.OnKeystroke(ev.Device); err != nil {
			s.log.Warnw("handle keystroke", "device", ev.Device, "error", err)
		}

	case EventLayoutChanged:
		if err := s.OnLayoutChanged(); err != nil {
			s.log.Warnw("handle layout change", "error", err)
		}

	default:
		s.log.Warnw("unknown event", "kind", ev.Kind)
	}
}

// OnKeystroke makes device the active keyboard. A keyboard seen before gets
// its layout back, a new one is mapped to whatever layout is active now.
func (s *Switcher) OnKeystroke(device string) error {
	if s.active.Is(device) {
		return nil
	}

	// must be set before activating, the resulting layout change belongs to
	// the new device
	s.active.Set(device)

	layout, found := s.layouts.Get(device)
	if found {
		if s.opts.Verbosity >= VerbosityDebug {
			s.log.Debugw("restoring layout", "device", device, "layout", layout.ID)
		}
		if err := s.directory.Activate(layout); err != nil {
			return fmt.Errorf("activate layout %q: %w", layout.ID, err)
		}
		return nil
	}

	if err := s.storeCurrent(device); err != nil {
		return fmt.Errorf("capture layout: %w", err)
	}

	return nil
}

// OnLayoutChanged stores the now active layout for the active keyboard. This
// also fires for changes made by OnKeystroke, which store the same value again.
func (s *Switcher) OnLayoutChanged() error {
	device, ok := s.active.Get()
	if !ok {
		return nil
	}

	return s.storeCurrent(device)
}

func (s *Switcher) ActiveDevice() string {
	key, _ := s.active.Get()
	return key
}

func (s *Switcher) storeCurrent(device string) error {
	current, err := s.directory.Current()
	if err != nil {
		return fmt.Errorf("get current layout: %w", err)
	}

	if s.opts.Verbosity >= VerbosityDebug {
		s.log.Debugw("storing layout", "device", device, "layout", current.ID)
	}

	if err := s.layouts.Set(device, current); err != nil {
		return fmt.Errorf("store layout: %w", err)
	}

	return nil
}
