package kbisw

import (
	"fmt"
	"go.uber.org/zap"
	"maps"
)

// MappingNamespace is the record the device table is saved under.
const MappingNamespace = "keyboardISMapping"

// LayoutStore maps device keys to the layout last used on that device. Every
// mutation is written through to the backing KeyValueStore as a whole table.
type LayoutStore struct {
	layouts map[string]Layout
	kv      KeyValueStore
	log     *zap.SugaredLogger
}

// LoadLayoutStore reads the saved table and keeps the entries whose layout is
// still installed. It never fails: an unreadable table starts out empty.
func LoadLayoutStore(kv KeyValueStore, dir LayoutDirectory, log *zap.SugaredLogger) *LayoutStore {
	s := &LayoutStore{
		layouts: make(map[string]Layout),
		kv:      kv,
		log:     log,
	}

	table, err := kv.LoadTable(MappingNamespace)
	if err != nil {
		log.Warnw("could not load saved layouts, starting empty", "error", err)
		return s
	}
	if len(table) == 0 {
		return s
	}

	installed, err := dir.Layouts()
	if err != nil {
		log.Warnw("could not list layouts, starting empty", "error", err)
		return s
	}

	for device, id := range table {
		layout, err := ResolveLayout(installed, id)
		if err != nil {
			log.Debugw("dropping saved layout", "device", device, "layout", id, "error", err)
			continue
		}
		s.layouts[device] = layout
	}

	log.Infow("loaded saved layouts", "devices", len(s.layouts), "dropped", len(table)-len(s.layouts))
	return s
}

func (s *LayoutStore) Get(device string) (Layout, bool) {
	layout, ok := s.layouts[device]
	return layout, ok
}

// Set records the layout for the device and saves the whole table. The entry
// is kept in memory even if saving fails; the next Set saves it again.
func (s *LayoutStore) Set(device string, layout Layout) error {
	s.layouts[device] = layout

	table := make(map[string]string, len(s.layouts))
	for d, l := range s.layouts {
		table[d] = l.ID
	}

	if err := s.kv.SaveTable(MappingNamespace, table); err != nil {
		return fmt.Errorf("save table: %w", err)
	}

	return nil
}

func (s *LayoutStore) Entries() map[string]Layout {
	return maps.Clone(s.layouts)
}
