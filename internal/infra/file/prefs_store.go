// Package file keeps preferences and question banks in YAML files.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// PrefsStore is a key-value store persisted as a flat YAML map.
type PrefsStore struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

// OpenPrefsStore reads path if it exists; a missing file starts empty.
func OpenPrefsStore(path string) (*PrefsStore, error) {
	s := &PrefsStore{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parse prefs %s: %w", path, err)
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	return s, nil
}

// ProfilePath is where a profile's prefs live under dir.
func ProfilePath(dir, profileID string) string {
	return filepath.Join(dir, profileID+".yaml")
}

func (s *PrefsStore) Get(key, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return fallback
}

func (s *PrefsStore) Set(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

// Save rewrites the whole file through a temp file and rename.
func (s *PrefsStore) Save() error {
	s.mu.RLock()
	data, err := yaml.Marshal(s.values)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
