package kbisw

// ActiveDevice remembers which keyboard produced the last keystroke. The zero
// value means no keystroke has been seen yet.
type ActiveDevice struct {
	key string
}

func (a *ActiveDevice) Get() (string, bool) {
	return a.key, a.key != ""
}

func (a *ActiveDevice) Is(key string) bool {
	return a.key == key
}

func (a *ActiveDevice) Set(key string) {
	a.key = key
}
