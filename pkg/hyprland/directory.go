package hyprland

import (
	"codeberg.org/miketth/kbisw/pkg/kbisw"
	"codeberg.org/miketth/kbisw/pkg/xkblayouts"
	"errors"
	"fmt"
)

var ErrNoKeyboard = errors.New("no keyboard attached")

type keyboardController interface {
	GetKeyboards() ([]Keyboard, error)
	SwitchToLayout(keyboard string, idx int) error
}

// Directory exposes the layouts configured in Hyprland. Every keyboard shares
// the layout list of the main keyboard; switching applies to all of them.
type Directory struct {
	ctl      keyboardController
	registry *xkblayouts.XkbConfigRegistry
}

func NewDirectory(ctl *Hyprctl, registry *xkblayouts.XkbConfigRegistry) *Directory {
	return &Directory{ctl: ctl, registry: registry}
}

func (d *Directory) Layouts() ([]kbisw.Layout, error) {
	kbd, err := d.mainKeyboard()
	if err != nil {
		return nil, err
	}

	return d.layoutsOf(kbd), nil
}

func (d *Directory) Current() (kbisw.Layout, error) {
	kbd, err := d.mainKeyboard()
	if err != nil {
		return kbisw.Layout{}, err
	}

	for _, l := range d.layoutsOf(kbd) {
		if l.Name == kbd.ActiveKeymap {
			return l, nil
		}
	}

	// keymap not in the configured list, still report it if xkb knows it
	code, variant := d.registry.GetLayoutAndVariantFromPrettyName(kbd.ActiveKeymap)
	if code == "" {
		return kbisw.Layout{}, fmt.Errorf("active keymap %q: %w", kbd.ActiveKeymap, kbisw.ErrLayoutNotFound)
	}

	return kbisw.Layout{
		ID:   xkblayouts.LayoutID(code, variant),
		Name: kbd.ActiveKeymap,
	}, nil
}

func (d *Directory) Activate(layout kbisw.Layout) error {
	kbd, err := d.mainKeyboard()
	if err != nil {
		return err
	}

	for i, code := range kbd.Layouts {
		if xkblayouts.LayoutID(code, kbd.Variant(i)) == layout.ID {
			if err := d.ctl.SwitchToLayout("all", i); err != nil {
				return fmt.Errorf("switch layout: %w", err)
			}
			return nil
		}
	}

	return fmt.Errorf("%w: %q is not configured", kbisw.ErrLayoutNotFound, layout.ID)
}

func (d *Directory) mainKeyboard() (Keyboard, error) {
	keyboards, err := d.ctl.GetKeyboards()
	if err != nil {
		return Keyboard{}, fmt.Errorf("get keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return Keyboard{}, ErrNoKeyboard
	}

	for _, k := range keyboards {
		if k.Main {
			return k, nil
		}
	}

	return keyboards[0], nil
}

func (d *Directory) layoutsOf(kbd Keyboard) []kbisw.Layout {
	layouts := make([]kbisw.Layout, 0, len(kbd.Layouts))
	for i, code := range kbd.Layouts {
		if code == "" {
			continue
		}
		variant := kbd.Variant(i)
		layouts = append(layouts, kbisw.Layout{
			ID:   xkblayouts.LayoutID(code, variant),
			Name: d.registry.GetLayoutPrettyName(code, variant),
		})
	}
	return layouts
}

// ShortName returns the short label of layout, such as "en", or "" when the
// registry has none.
func (d *Directory) ShortName(layout kbisw.Layout) string {
	code, variant := xkblayouts.SplitLayoutID(layout.ID)
	return d.registry.GetLayoutShortName(code, variant)
}
