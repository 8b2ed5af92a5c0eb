package app

import (
	"log/slog"
	"sync"

	"quiz-arena/internal/domain"
)

// DefaultHistoryCapacity is how many results each history list keeps.
const DefaultHistoryCapacity = 5

// HistoryKeys lists every history list in storage order.
var HistoryKeys = []string{
	"ClassicEasy", "ClassicMedium", "ClassicHard",
	"TimeAttackEasy", "TimeAttackMedium", "TimeAttackHard",
	"BossRush",
}

// HistoryKey maps a mode and difficulty label to its storage key. Boss Rush
// keeps a single list whatever the stage label; unknown difficulties fall
// back to Easy. ok is false for unknown modes.
func HistoryKey(mode domain.Mode, difficulty string) (string, bool) {
	switch mode {
	case domain.ModeClassic, domain.ModeTimeAttack:
		d, err := domain.ParseDifficulty(difficulty)
		if err != nil {
			d = domain.Easy
		}
		return string(mode) + string(d), true
	case domain.ModeBossRush:
		return string(mode), true
	default:
		return "", false
	}
}

// HistoryStore keeps the most recent results per mode and difficulty, newest
// first, bounded by capacity, and mirrors every list into the prefs store.
type HistoryStore struct {
	mu       sync.RWMutex
	prefs    PrefsStore
	capacity int
	lists    map[string][]domain.GameResult
	log      *slog.Logger
}

// NewHistoryStore loads every known list from prefs.
func NewHistoryStore(prefs PrefsStore, capacity int, log *slog.Logger) *HistoryStore {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	h := &HistoryStore{
		prefs:    prefs,
		capacity: capacity,
		lists:    make(map[string][]domain.GameResult, len(HistoryKeys)),
		log:      loggerOr(log),
	}
	for _, key := range HistoryKeys {
		results := DecodeResults(prefs.Get(key, ""))
		if len(results) > capacity {
			results = results[:capacity]
		}
		h.lists[key] = results
	}
	return h
}

func (h *HistoryStore) Capacity() int { return h.capacity }

// Record inserts r at the head of its list and drops whatever falls past capacity.
func (h *HistoryStore) Record(r domain.GameResult) {
	key, ok := HistoryKey(r.Mode, r.Difficulty)
	if !ok {
		h.log.Warn("dropping result for unknown mode", "mode", r.Mode)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	list := append([]domain.GameResult{r}, h.lists[key]...)
	if len(list) > h.capacity {
		list = list[:h.capacity]
	}
	h.lists[key] = list
	h.persistLocked(key)
	h.log.Info("result recorded", "key", key, "score", r.Score, "stage", r.Stage)
}

// Query returns a copy of the list for mode and difficulty, newest first.
func (h *HistoryStore) Query(mode domain.Mode, difficulty string) []domain.GameResult {
	key, ok := HistoryKey(mode, difficulty)
	if !ok {
		return []domain.GameResult{}
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.GameResult, len(h.lists[key]))
	copy(out, h.lists[key])
	return out
}

// Reset clears the list for mode and difficulty.
func (h *HistoryStore) Reset(mode domain.Mode, difficulty string) {
	key, ok := HistoryKey(mode, difficulty)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lists[key] = []domain.GameResult{}
	h.persistLocked(key)
}

// All returns a copy of every list keyed by storage key.
func (h *HistoryStore) All() map[string][]domain.GameResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string][]domain.GameResult, len(h.lists))
	for k, v := range h.lists {
		out[k] = append([]domain.GameResult(nil), v...)
	}
	return out
}

func (h *HistoryStore) persistLocked(key string) {
	h.prefs.Set(key, EncodeResults(h.lists[key]))
	save(h.prefs, h.log)
}
