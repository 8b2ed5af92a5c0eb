package app

import "quiz-arena/internal/domain"

// Snapshot is a read-only view of the game for presenters that render state
// instead of replaying commands.
type Snapshot struct {
	RunID         string            `json:"runId,omitempty"`
	Mode          domain.Mode       `json:"mode,omitempty"`
	Difficulty    domain.Difficulty `json:"difficulty,omitempty"`
	Stage         int               `json:"stage,omitempty"`
	FinalStage    bool              `json:"finalStage,omitempty"`
	State         string            `json:"state"`
	Score         int               `json:"score"`
	PlayerHealth  int               `json:"playerHealth"`
	EnemyHealth   int               `json:"enemyHealth"`
	Correct       int               `json:"correct"`
	Answered      int               `json:"answered"`
	Total         int               `json:"total"`
	Index         int               `json:"index"`
	TimeRemaining float64           `json:"timeRemaining,omitempty"` // seconds
	CanAnswer     bool              `json:"canAnswer"`
	CanProceed    bool              `json:"canProceed"`
	Volume        float64           `json:"volume"`
}

// Snapshot describes the active run, or an idle game when there is none.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		State:        Idle.String(),
		Score:        g.ledger.Score(),
		PlayerHealth: g.ledger.PlayerHealth(),
		EnemyHealth:  g.ledger.EnemyHealth(),
		Volume:       g.settings.Volume(),
	}
	if g.active == nil {
		return s
	}
	q := g.active.Quiz()
	s.RunID = g.runID
	s.Mode = g.active.Mode()
	s.State = q.State().String()
	s.Correct = q.Correct()
	s.Answered = q.Answered()
	s.Total = q.Total()
	s.Index = q.Index()
	s.TimeRemaining = q.TimeRemaining().Seconds()
	s.CanAnswer = q.CanAnswer()

	switch run := g.active.(type) {
	case *ClassicRun:
		s.Difficulty = run.difficulty
		s.CanProceed = q.State().Terminal() && run.passed
	case *TimeAttackRun:
		s.Difficulty = run.difficulty
		s.CanProceed = q.State().Terminal() && run.passed
	case *BossRushRun:
		s.Stage = run.stage
		s.FinalStage = run.kind == domain.StageFinal
		s.CanProceed = q.State() == RoundWon
	}
	return s
}

// CurrentQuestion returns the question awaiting an answer.
func (g *Game) CurrentQuestion() (domain.Question, bool) {
	if g.active == nil || !g.active.Quiz().CanAnswer() {
		return domain.Question{}, false
	}
	return g.active.Quiz().deck.Current()
}
