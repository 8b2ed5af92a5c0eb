package app

import (
	"log/slog"
	"strconv"
)

// Side selects a health pool.
type Side int

const (
	Player Side = iota
	Enemy
)

func (s Side) String() string {
	if s == Enemy {
		return "enemy"
	}
	return "player"
}

// Ledger holds the score and the two health pools of the active run. Score
// changes are written through to the prefs store immediately.
type Ledger struct {
	prefs  PrefsStore
	log    *slog.Logger
	score  int
	player int
	enemy  int
}

func NewLedger(prefs PrefsStore, log *slog.Logger) *Ledger {
	return &Ledger{prefs: prefs, log: loggerOr(log)}
}

func (l *Ledger) Score() int        { return l.score }
func (l *Ledger) PlayerHealth() int { return l.player }
func (l *Ledger) EnemyHealth() int  { return l.enemy }

// Health returns the pool for side.
func (l *Ledger) Health(side Side) int {
	if side == Enemy {
		return l.enemy
	}
	return l.player
}

func (l *Ledger) IncreaseScore(points int) {
	if points < 0 {
		l.DecreaseScore(-points)
		return
	}
	l.score += points
	l.persist()
}

// DecreaseScore subtracts points, never going below zero.
func (l *Ledger) DecreaseScore(points int) {
	if points < 0 {
		l.IncreaseScore(-points)
		return
	}
	l.score = max(0, l.score-points)
	l.persist()
}

// DecreaseHealth removes one point from side, never going below zero. The
// caller checks for zero afterwards.
func (l *Ledger) DecreaseHealth(side Side) {
	switch side {
	case Enemy:
		if l.enemy > 0 {
			l.enemy--
		}
	default:
		if l.player > 0 {
			l.player--
		}
	}
	l.log.Debug("health decreased", "side", side, "health", l.Health(side))
}

// ResetHealth sets both pools and keeps the score (stage transitions).
func (l *Ledger) ResetHealth(player, enemy int) {
	l.player = max(0, player)
	l.enemy = max(0, enemy)
}

func (l *Ledger) ResetScore() {
	l.score = 0
	l.persist()
}

// ResetAll is a full restart: health pools and score.
func (l *Ledger) ResetAll(player, enemy int) {
	l.ResetHealth(player, enemy)
	l.ResetScore()
}

// RestoreScore reloads the persisted score, used when a run continues in a new stage.
func (l *Ledger) RestoreScore() {
	l.score = max(0, prefInt(l.prefs, KeyPlayerScore, l.score))
}

func (l *Ledger) persist() {
	l.prefs.Set(KeyPlayerScore, strconv.Itoa(l.score))
	save(l.prefs, l.log)
}
