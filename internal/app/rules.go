package app

import (
	"time"

	"quiz-arena/internal/domain"
)

// GameRules are the tunables of all three modes.
type GameRules struct {
	AnswerDelay  time.Duration
	TickInterval time.Duration
	Classic      TierRules
	TimeAttack   TierRules
	BossRush     BossRushRules
}

// TierRules configure Classic and Time Attack, which climb Easy→Medium→Hard.
type TierRules struct {
	PointsPerCorrect int
	PenaltyPerWrong  int
	PassThreshold    int
	PlayerHealth     int
	TimeLimit        time.Duration
	TimeUpEndsRun    bool
}

// BossRushRules configure the stage ladder. The last stage is the final one.
type BossRushRules struct {
	PointsPerCorrect int
	PenaltyPerWrong  int
	Stages           []StageRules
}

// StageRules are the health pools of one Boss Rush stage.
type StageRules struct {
	PlayerHealth int
	EnemyHealth  int
}

// DefaultRules mirror the values the game shipped with.
func DefaultRules() GameRules {
	stages := make([]StageRules, 5)
	for i := range stages {
		stages[i] = StageRules{PlayerHealth: 5, EnemyHealth: 10}
	}
	return GameRules{
		AnswerDelay:  3 * time.Second,
		TickInterval: time.Second,
		Classic: TierRules{
			PointsPerCorrect: 10,
			PassThreshold:    70,
		},
		TimeAttack: TierRules{
			PointsPerCorrect: 10,
			PassThreshold:    70,
			TimeLimit:        10 * time.Second,
		},
		BossRush: BossRushRules{
			PointsPerCorrect: 100,
			PenaltyPerWrong:  50,
			Stages:           stages,
		},
	}
}

// Stage returns the rules and kind of a 1-based stage number.
func (r BossRushRules) Stage(n int) (StageRules, domain.StageKind, bool) {
	if n < 1 || n > len(r.Stages) {
		return StageRules{}, domain.StageIntermediate, false
	}
	kind := domain.StageIntermediate
	if n == len(r.Stages) {
		kind = domain.StageFinal
	}
	return r.Stages[n-1], kind, true
}

func (r GameRules) tier(mode domain.Mode) TierRules {
	if mode == domain.ModeTimeAttack {
		return r.TimeAttack
	}
	return r.Classic
}

func (r GameRules) tierQuiz(mode domain.Mode) Rules {
	t := r.tier(mode)
	return Rules{
		Mode:             mode,
		PointsPerCorrect: t.PointsPerCorrect,
		PenaltyPerWrong:  t.PenaltyPerWrong,
		PlayerHealth:     t.PlayerHealth,
		AnswerDelay:      r.AnswerDelay,
		Timed:            mode == domain.ModeTimeAttack,
		TimeLimit:        t.TimeLimit,
		TickInterval:     r.TickInterval,
		TimeUpEndsRun:    t.TimeUpEndsRun,
	}
}

func (r GameRules) stageQuiz(stage StageRules) Rules {
	return Rules{
		Mode:             domain.ModeBossRush,
		PointsPerCorrect: r.BossRush.PointsPerCorrect,
		PenaltyPerWrong:  r.BossRush.PenaltyPerWrong,
		PlayerHealth:     stage.PlayerHealth,
		EnemyHealth:      stage.EnemyHealth,
		AnswerDelay:      r.AnswerDelay,
		TickInterval:     r.TickInterval,
	}
}
