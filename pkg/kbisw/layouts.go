package kbisw

import (
	"errors"
	"fmt"
)

var ErrLayoutNotFound = errors.New("layout not found")

// ResolveLayout finds the layout with the given id.
func ResolveLayout(layouts []Layout, id string) (Layout, error) {
	for _, l := range layouts {
		if l.ID == id {
			return l, nil
		}
	}

	return Layout{}, fmt.Errorf("%w: %q", ErrLayoutNotFound, id)
}
