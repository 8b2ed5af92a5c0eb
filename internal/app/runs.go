package app

import "quiz-arena/internal/domain"

// ActiveRun is the run a Game is currently driving: *ClassicRun,
// *TimeAttackRun or *BossRushRun.
type ActiveRun interface {
	Quiz() *Quiz
	Mode() domain.Mode
}

// tieredRun is shared by the modes that climb Easy→Medium→Hard.
type tieredRun struct {
	quiz       *Quiz
	difficulty domain.Difficulty
	threshold  int
	passed     bool
}

func (r *tieredRun) Quiz() *Quiz { return r.quiz }

func (r *tieredRun) Difficulty() domain.Difficulty { return r.difficulty }

// Passed reports whether the finished run met the score threshold.
func (r *tieredRun) Passed() bool { return r.passed }

type ClassicRun struct{ tieredRun }

func (*ClassicRun) Mode() domain.Mode { return domain.ModeClassic }

type TimeAttackRun struct{ tieredRun }

func (*TimeAttackRun) Mode() domain.Mode { return domain.ModeTimeAttack }

// BossRushRun is one stage of the Boss Rush ladder.
type BossRushRun struct {
	quiz  *Quiz
	stage int
	kind  domain.StageKind
}

func (r *BossRushRun) Quiz() *Quiz { return r.quiz }

func (*BossRushRun) Mode() domain.Mode { return domain.ModeBossRush }

func (r *BossRushRun) Stage() int { return r.stage }

func (r *BossRushRun) Kind() domain.StageKind { return r.kind }
