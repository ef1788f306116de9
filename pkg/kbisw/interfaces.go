package kbisw

// Layout references an installed keyboard layout. ID is durable across
// restarts, Name is what the compositor reports for the active keymap.
type Layout struct {
	ID   string
	Name string
}

type LayoutDirectory interface {
	Layouts() ([]Layout, error)
	Current() (Layout, error)
	Activate(layout Layout) error
}

type KeyValueStore interface {
	LoadTable(namespace string) (map[string]string, error)
	SaveTable(namespace string, table map[string]string) error
}

type EventKind int

const (
	// EventKeystroke is a key press on the keyboard with key Device.
	EventKeystroke EventKind = iota
	// EventLayoutChanged means the active layout changed, for any reason.
	EventLayoutChanged
)

// Event is what adapters deliver to the Switcher. Both kinds share one
// channel so they are handled in the order they happened.
type Event struct {
	Kind   EventKind
	Device string
}

// Keystroke is a key press on the keyboard identified by device, a key
// computed once when the keyboard was attached.
func Keystroke(device string) Event {
	return Event{Kind: EventKeystroke, Device: device}
}

func LayoutChanged() Event {
	return Event{Kind: EventLayoutChanged}
}
