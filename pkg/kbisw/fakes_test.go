package kbisw

import (
	"errors"
	"maps"
)

var (
	us     = Layout{ID: "us", Name: "English (US)"}
	french = Layout{ID: "fr", Name: "French"}
	dvorak = Layout{ID: "us(dvorak)", Name: "English (Dvorak)"}
)

type fakeDirectory struct {
	installed   []Layout
	current     Layout
	activated   []Layout
	activateErr error
	currentErr  error
}

func newFakeDirectory(current Layout) *fakeDirectory {
	return &fakeDirectory{
		installed: []Layout{us, french, dvorak},
		current:   current,
	}
}

func (d *fakeDirectory) Layouts() ([]Layout, error) {
	return d.installed, nil
}

func (d *fakeDirectory) Current() (Layout, error) {
	if d.currentErr != nil {
		return Layout{}, d.currentErr
	}
	return d.current, nil
}

func (d *fakeDirectory) Activate(layout Layout) error {
	if d.activateErr != nil {
		return d.activateErr
	}
	d.activated = append(d.activated, layout)
	d.current = layout
	return nil
}

var errDiskFull = errors.New("disk full")

type fakeKV struct {
	tables  map[string]map[string]string
	saves   int
	saveErr error
	loadErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{tables: make(map[string]map[string]string)}
}

func (kv *fakeKV) LoadTable(namespace string) (map[string]string, error) {
	if kv.loadErr != nil {
		return nil, kv.loadErr
	}
	return maps.Clone(kv.tables[namespace]), nil
}

func (kv *fakeKV) SaveTable(namespace string, table map[string]string) error {
	if kv.saveErr != nil {
		return kv.saveErr
	}
	kv.saves++
	kv.tables[namespace] = maps.Clone(table)
	return nil
}
