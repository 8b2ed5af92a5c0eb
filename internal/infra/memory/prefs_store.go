package memory

import "sync"

// PrefsStore is an in-memory key-value store. Save never fails; it only
// counts flushes so tests can assert on them.
type PrefsStore struct {
	mu     sync.RWMutex
	values map[string]string
	saves  int
}

func NewPrefsStore() *PrefsStore {
	return &PrefsStore{values: make(map[string]string)}
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

func (s *PrefsStore) Save() error {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return nil
}

// Saves reports how many times Save was called.
func (s *PrefsStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
