package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// PrefsStore keeps one profile's preferences in a Redis hash:
//
//	HSET quiz:prefs:{profileID} {key} {value}
//
// Reads are served from a local copy filled by Load; Set only touches the
// copy and Save pipelines the changed fields back.
type PrefsStore struct {
	client  *redis.Client
	key     string
	timeout time.Duration

	mu     sync.RWMutex
	values map[string]string
	dirty  map[string]struct{}
}

func NewPrefsStore(client *redis.Client, profileID string) *PrefsStore {
	return &PrefsStore{
		client:  client,
		key:     prefsKey(profileID),
		timeout: 3 * time.Second,
		values:  make(map[string]string),
		dirty:   make(map[string]struct{}),
	}
}

// Load replaces the local copy with the hash stored in Redis.
func (s *PrefsStore) Load(ctx context.Context) error {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return fmt.Errorf("load prefs %s: %w", s.key, err)
	}
	s.mu.Lock()
	s.values = values
	s.dirty = make(map[string]struct{})
	s.mu.Unlock()
	return nil
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
	s.dirty[key] = struct{}{}
	s.mu.Unlock()
}

// Save writes every field changed since the last successful save.
func (s *PrefsStore) Save() error {
	s.mu.Lock()
	if len(s.dirty) == 0 {
		s.mu.Unlock()
		return nil
	}
	fields := make(map[string]interface{}, len(s.dirty))
	for k := range s.dirty {
		fields[k] = s.values[k]
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, s.key, fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save prefs %s: %w", s.key, err)
	}

	s.mu.Lock()
	for k, v := range fields {
		if s.values[k] == v {
			delete(s.dirty, k)
		}
	}
	s.mu.Unlock()
	return nil
}

func prefsKey(profileID string) string {
	return "quiz:prefs:" + profileID
}
