package app

import (
	"log/slog"
	"math"
	"strconv"

	"quiz-arena/internal/domain"
)

// Settings exposes player preferences that live next to the game state.
type Settings struct {
	prefs PrefsStore
	log   *slog.Logger
}

func NewSettings(prefs PrefsStore, log *slog.Logger) *Settings {
	return &Settings{prefs: prefs, log: loggerOr(log)}
}

// Volume is the master volume in [0,1], 1 when never set.
func (s *Settings) Volume() float64 {
	return clampVolume(prefFloat(s.prefs, KeyMasterVolume, 1.0))
}

// SetVolume clamps v to [0,1], persists it and returns the command that applies it.
func (s *Settings) SetVolume(v float64) domain.Command {
	v = clampVolume(v)
	s.prefs.Set(KeyMasterVolume, strconv.FormatFloat(v, 'f', -1, 64))
	save(s.prefs, s.log)
	return domain.SetVolume(v)
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	return min(1, max(0, v))
}
