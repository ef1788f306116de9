package inputdev

import (
	"codeberg.org/miketth/kbisw/pkg/deviceid"
	"errors"
	"fmt"
	"github.com/holoplot/go-evdev"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrNotKeyboard = errors.New("not a keyboard")

type eventReader interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Keyboard is an opened keyboard-class input device.
type Keyboard struct {
	Path     string
	Identity deviceid.Identity

	dev eventReader
}

func (k *Keyboard) Close() error {
	return k.dev.Close()
}

// letters a device has to report before it counts as a keyboard; the evdev
// counterpart of the HID generic desktop keyboard usage.
var keyboardKeys = []evdev.EvCode{
	evdev.KEY_A, evdev.KEY_B, evdev.KEY_C, evdev.KEY_D, evdev.KEY_E, evdev.KEY_F,
	evdev.KEY_G, evdev.KEY_H, evdev.KEY_I, evdev.KEY_J, evdev.KEY_K, evdev.KEY_L,
	evdev.KEY_M, evdev.KEY_N, evdev.KEY_O, evdev.KEY_P, evdev.KEY_Q, evdev.KEY_R,
	evdev.KEY_S, evdev.KEY_T, evdev.KEY_U, evdev.KEY_V, evdev.KEY_W, evdev.KEY_X,
	evdev.KEY_Y, evdev.KEY_Z, evdev.KEY_SPACE,
}

func IsKeyboard(keys []evdev.EvCode) bool {
	have := make(map[evdev.EvCode]bool, len(keys))
	for _, k := range keys {
		have[k] = true
	}

	for _, k := range keyboardKeys {
		if !have[k] {
			return false
		}
	}
	return true
}

// IsKeyPress reports whether ev is a key going down. Releases and
// autorepeat are not keystrokes.
func IsKeyPress(ev *evdev.InputEvent) bool {
	return ev.Type == evdev.EV_KEY && ev.Value == 1
}

// OpenKeyboard opens the event device at path. Devices that are not keyboards
// are closed again and reported as ErrNotKeyboard.
func OpenKeyboard(path string) (*Keyboard, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if !IsKeyboard(dev.CapableEvents(evdev.EV_KEY)) {
		dev.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotKeyboard)
	}

	return &Keyboard{
		Path:     path,
		Identity: identify(path, dev),
		dev:      dev,
	}, nil
}

// identify reads what the kernel knows about the device. Anything that
// cannot be read stays empty and shows up as unknown in the key.
func identify(path string, dev *evdev.InputDevice) deviceid.Identity {
	var id deviceid.Identity

	if inputID, err := dev.InputID(); err == nil {
		id.VendorID = inputID.Vendor
		id.ProductID = inputID.Product
	}
	if name, err := dev.Name(); err == nil {
		id.Product = name
	}
	if uniq, err := dev.UniqueID(); err == nil {
		id.Serial = uniq
	}
	if phys, err := dev.PhysicalLocation(); err == nil {
		id.Location = phys
	}

	enrichFromUdev(path, &id)

	return id
}

func isEventNode(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "event")
}

// ListKeyboards opens every keyboard below dir. The caller closes them.
func ListKeyboards(dir string) ([]*Keyboard, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var keyboards []*Keyboard
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() || !isEventNode(path) {
			continue
		}

		kbd, err := OpenKeyboard(path)
		if err != nil {
			continue
		}
		keyboards = append(keyboards, kbd)
	}

	sort.Slice(keyboards, func(i, j int) bool {
		return keyboards[i].Path < keyboards[j].Path
	})

	return keyboards, nil
}
