package memory

import (
	"sync"

	"quiz-arena/internal/app"
)

// PrefsOpener returns the prefs store backing a profile.
type PrefsOpener func(profileID string) (app.PrefsStore, error)

// ProfileStore is an in-memory implementation of app.ProfileRepository.
type ProfileStore struct {
	builder app.ProfileBuilder
	open    PrefsOpener

	mu       sync.RWMutex
	profiles map[string]*app.Profile
}

// NewProfileStore keeps profiles in process. A nil open gives every profile
// its own in-memory prefs.
func NewProfileStore(builder app.ProfileBuilder, open PrefsOpener) *ProfileStore {
	if open == nil {
		open = func(string) (app.PrefsStore, error) { return NewPrefsStore(), nil }
	}
	return &ProfileStore{
		builder:  builder,
		open:     open,
		profiles: make(map[string]*app.Profile),
	}
}

func (s *ProfileStore) GetOrCreate(id string) (*app.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id)
}

// Acquire returns the profile already subscribed to, so a concurrent
// DeleteIfEmpty cannot drop it before the caller is counted as a watcher.
func (s *ProfileStore) Acquire(id string) (*app.Profile, <-chan app.Update, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, err := s.getOrCreateLocked(id)
	if err != nil {
		return nil, nil, nil, err
	}
	updates, cancel := profile.Subscribe()
	return profile, updates, cancel, nil
}

func (s *ProfileStore) getOrCreateLocked(id string) (*app.Profile, error) {
	if profile, ok := s.profiles[id]; ok {
		return profile, nil
	}
	prefs, err := s.open(id)
	if err != nil {
		return nil, err
	}
	profile := s.builder.Build(id, prefs)
	s.profiles[id] = profile
	return profile, nil
}

func (s *ProfileStore) Get(id string) (*app.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	return profile, ok
}

func (s *ProfileStore) DeleteIfEmpty(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id]
	if !ok {
		return
	}
	if profile.IsEmpty() {
		delete(s.profiles, id)
	}
}
