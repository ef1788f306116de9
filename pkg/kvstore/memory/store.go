package memory

import (
	"maps"
	"sync"
)

type KVStore struct {
	tables map[string]map[string]string
	lock   sync.Mutex
}

func NewKVStore() *KVStore {
	return &KVStore{
		tables: make(map[string]map[string]string),
	}
}

func (s *KVStore) LoadTable(namespace string) (map[string]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	table, ok := s.tables[namespace]
	if !ok {
		return nil, nil
	}
	return maps.Clone(table), nil
}

func (s *KVStore) SaveTable(namespace string, table map[string]string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.tables[namespace] = maps.Clone(table)
	return nil
}
