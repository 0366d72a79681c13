package kv

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

type fileStore struct {
	path string

	mutex  sync.Mutex
	values map[string]string
}

// NewFileStore keeps the whole key space in one JSON file, rewritten
// atomically on every change. A missing or unreadable file starts
// empty; it is the caller's problem only if the first write fails.
func NewFileStore(path string) (*fileStore, error) {
	store := &fileStore{path: path, values: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(raw, &store.values); err != nil {
		// Corrupt state file, start over.
		store.values = make(map[string]string)
	}

	return store, nil
}

func (s *fileStore) Get(_ context.Context, key string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	value, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

func (s *fileStore) Set(_ context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.values[key] = value
	return s.flush()
}

func (s *fileStore) Del(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.values, key)
	return s.flush()
}

func (s *fileStore) flush() error {
	raw, err := json.Marshal(s.values)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
