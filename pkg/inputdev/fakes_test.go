package inputdev

import (
	"errors"
	"github.com/holoplot/go-evdev"
	"sync"
)

type fakeReader struct {
	events chan *evdev.InputEvent
	closed chan struct{}
	once   sync.Once
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		events: make(chan *evdev.InputEvent),
		closed: make(chan struct{}),
	}
}

func (r *fakeReader) ReadOne() (*evdev.InputEvent, error) {
	select {
	case ev := <-r.events:
		return ev, nil
	case <-r.closed:
		return nil, errors.New("file already closed")
	}
}

func (r *fakeReader) Close() error {
	r.once.Do(func() { close(r.closed) })
	return nil
}

func (r *fakeReader) press(code evdev.EvCode) {
	r.events <- &evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: 1}
}

func (r *fakeReader) release(code evdev.EvCode) {
	r.events <- &evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: 0}
}

func (r *fakeReader) repeat(code evdev.EvCode) {
	r.events <- &evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: 2}
}

func (r *fakeReader) sync() {
	r.events <- &evdev.InputEvent{Type: evdev.EV_SYN}
}
