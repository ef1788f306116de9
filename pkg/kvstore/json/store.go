package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// KVStore keeps every table in one JSON document. Saves replace the file
// atomically so a crash never leaves a half-written document behind.
type KVStore struct {
	filename string
	tables   map[string]map[string]string
	lock     sync.Mutex
}

func NewKVStore(filename string) (*KVStore, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	return &KVStore{filename: filename}, nil
}

func (s *KVStore) LoadTable(namespace string) (map[string]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	return maps.Clone(s.tables[namespace]), nil
}

func (s *KVStore) SaveTable(namespace string, table map[string]string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.tables == nil {
		// an unreadable file gets replaced by what we have
		if err := s.load(); err != nil {
			s.tables = make(map[string]map[string]string)
		}
	}

	s.tables[namespace] = maps.Clone(table)

	return s.save()
}

func (s *KVStore) load() error {
	data, err := os.ReadFile(s.filename)
	if errors.Is(err, os.ErrNotExist) {
		s.tables = make(map[string]map[string]string)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	tables := make(map[string]map[string]string)
	if err := json.Unmarshal(data, &tables); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	s.tables = tables
	return nil
}

func (s *KVStore) save() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.filename), filepath.Base(s.filename)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.tables); err != nil {
		tmp.Close()
		return fmt.Errorf("encode json: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.filename); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}

	return nil
}
