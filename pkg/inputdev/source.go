package inputdev

import (
	"codeberg.org/miketth/kbisw/pkg/kbisw"
	"context"
	"errors"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	openAttempts   = 5
	openRetryDelay = 200 * time.Millisecond
)

// Source delivers a keystroke for every key press on every keyboard below
// dir. Keyboards plugged in later are picked up as their nodes appear.
type Source struct {
	dir         string
	useLocation bool
	open        func(path string) (*Keyboard, error)
	log         *zap.SugaredLogger

	lock      sync.Mutex
	keyboards map[string]*Keyboard
	wg        sync.WaitGroup
}

// NewSource creates a Source reading every keyboard below dir. useLocation
// is passed on to deviceid.Identity.Key for the keys sent with keystrokes.
func NewSource(dir string, useLocation bool, log *zap.SugaredLogger) *Source {
	return &Source{
		dir:         dir,
		useLocation: useLocation,
		open:        OpenKeyboard,
		log:         log,
		keyboards:   make(map[string]*Keyboard),
	}
}

func (s *Source) Run(ctx context.Context, out chan<- kbisw.Event) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read input dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			s.attach(ctx, filepath.Join(s.dir, e.Name()), out, false)
		}
	}
	if len(s.attached()) == 0 {
		s.log.Warnw("no keyboards found, waiting for one to be plugged in", "dir", s.dir)
	}

	defer func() {
		if err := s.closeAll(); err != nil {
			s.log.Warnw("close keyboards", "error", err)
		}
		s.wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if ev.Has(fsnotify.Create) {
				s.attach(ctx, ev.Name, out, true)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			s.log.Warnw("watch input dir", "error", err)
		}
	}
}

// attached returns the paths of the keyboards currently being read.
func (s *Source) attached() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	paths := make([]string, 0, len(s.keyboards))
	for p := range s.keyboards {
		paths = append(paths, p)
	}
	return paths
}

func (s *Source) attach(ctx context.Context, path string, out chan<- kbisw.Event, hotplug bool) {
	if !isEventNode(path) {
		return
	}

	s.lock.Lock()
	_, known := s.keyboards[path]
	s.lock.Unlock()
	if known {
		return
	}

	kbd, err := s.openWithRetry(ctx, path, hotplug)
	if errors.Is(err, ErrNotKeyboard) {
		return
	}
	if err != nil {
		s.log.Debugw("skipping input device", "path", path, "error", err)
		return
	}

	s.lock.Lock()
	s.keyboards[path] = kbd
	s.lock.Unlock()

	key := kbd.Identity.Key(s.useLocation)
	s.log.Infow("keyboard attached", "path", path, "device", key)

	s.wg.Add(1)
	go s.read(ctx, kbd, key, out)
}

// openWithRetry gives udev a moment to fix up permissions on fresh nodes.
func (s *Source) openWithRetry(ctx context.Context, path string, hotplug bool) (*Keyboard, error) {
	attempts := 1
	if hotplug {
		attempts = openAttempts
	}

	var err error
	for i := 0; i < attempts; i++ {
		var kbd *Keyboard
		kbd, err = s.open(path)
		if err == nil || errors.Is(err, ErrNotKeyboard) {
			return kbd, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(openRetryDelay):
		}
	}

	return nil, err
}

func (s *Source) read(ctx context.Context, kbd *Keyboard, key string, out chan<- kbisw.Event) {
	defer s.wg.Done()
	defer s.detach(kbd)

	for {
		ev, err := kbd.dev.ReadOne()
		if err != nil {
			if ctx.Err() == nil {
				s.log.Infow("keyboard detached", "path", kbd.Path, "device", key, "error", err)
			}
			return
		}

		if !IsKeyPress(ev) {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case out <- kbisw.Keystroke(key):
		}
	}
}

func (s *Source) detach(kbd *Keyboard) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.keyboards[kbd.Path] != kbd {
		return
	}
	delete(s.keyboards, kbd.Path)
	_ = kbd.Close()
}

func (s *Source) closeAll() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	var err error
	for path, kbd := range s.keyboards {
		err = multierr.Append(err, kbd.Close())
		delete(s.keyboards, path)
	}
	return err
}
