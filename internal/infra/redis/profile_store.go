package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-arena/internal/app"
)

// ProfileStore is a Redis-backed implementation of app.ProfileRepository.
// Notes:
//   - Games run in process; each profile's prefs (score, volume, history)
//     live in its Redis hash so they survive restarts and are shared by
//     every instance.
//   - A liveness key marks profiles that currently have a game loaded here.
//     It is refreshed every ttl/2 until the profile is dropped.
type ProfileStore struct {
	client  *redis.Client
	builder app.ProfileBuilder
	ttl     time.Duration

	mu       sync.RWMutex
	profiles map[string]*liveProfile
}

type liveProfile struct {
	profile *app.Profile
	stop    context.CancelFunc
	done    chan struct{}
}

func NewProfileStore(client *redis.Client, builder app.ProfileBuilder, ttl time.Duration) *ProfileStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ProfileStore{
		client:   client,
		builder:  builder,
		ttl:      ttl,
		profiles: make(map[string]*liveProfile),
	}
}

func (s *ProfileStore) GetOrCreate(id string) (*app.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id)
}

// Acquire loads the profile and subscribes to it under the store lock, so
// DeleteIfEmpty can never drop it between the two steps.
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
	if live, ok := s.profiles[id]; ok {
		return live.profile, nil
	}

	ctx := context.Background()
	prefs := NewPrefsStore(s.client, id)
	if err := prefs.Load(ctx); err != nil {
		return nil, err
	}
	profile := s.builder.Build(id, prefs)
	// best-effort liveness marker
	_ = s.client.Set(ctx, s.key(id), "1", s.ttl).Err()

	keepCtx, stop := context.WithCancel(ctx)
	live := &liveProfile{profile: profile, stop: stop, done: make(chan struct{})}
	go s.keepAlive(keepCtx, id, live.done)
	s.profiles[id] = live
	return profile, nil
}

func (s *ProfileStore) keepAlive(ctx context.Context, id string, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.client.Set(ctx, s.key(id), "1", s.ttl).Err()
		}
	}
}

func (s *ProfileStore) Get(id string) (*app.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	live, ok := s.profiles[id]
	if !ok {
		return nil, false
	}
	return live.profile, true
}

func (s *ProfileStore) DeleteIfEmpty(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	live, ok := s.profiles[id]
	if !ok || !live.profile.IsEmpty() {
		return
	}
	delete(s.profiles, id)
	s.dropLocked(id, live)
}

// Close stops every keepalive and clears the liveness keys.
func (s *ProfileStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, live := range s.profiles {
		delete(s.profiles, id)
		s.dropLocked(id, live)
	}
}

func (s *ProfileStore) dropLocked(id string, live *liveProfile) {
	live.stop()
	// a refresh still in flight would bring the key back after Del
	<-live.done
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *ProfileStore) key(id string) string {
	return "quiz:profile:" + id
}
