package app

import (
	"log/slog"
	"strconv"
)

// PrefsStore is the flat key-value store game state is persisted into
// (memory, YAML file or Redis).
type PrefsStore interface {
	Get(key, fallback string) string
	Set(key, value string)
	Save() error
}

// Well-known preference keys.
const (
	KeyPlayerScore  = "PlayerScore"
	KeyMasterVolume = "MasterVolume"
)

func prefInt(p PrefsStore, key string, fallback int) int {
	raw := p.Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func prefFloat(p PrefsStore, key string, fallback float64) float64 {
	raw := p.Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

// save flushes the store; failures are logged and otherwise ignored.
func save(p PrefsStore, log *slog.Logger) {
	if err := p.Save(); err != nil {
		log.Warn("prefs save failed", "error", err)
	}
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
