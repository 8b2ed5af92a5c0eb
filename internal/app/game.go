package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"quiz-arena/internal/domain"
)

// QuestionSource loads question content (static, YAML, Postgres, cached).
type QuestionSource interface {
	GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// Game is the controller for one player: it owns the ledger, starts runs in
// any mode and routes answers and time to whichever run is active.
type Game struct {
	rules    GameRules
	source   QuestionSource
	history  *HistoryStore
	settings *Settings
	ledger   *Ledger
	rnd      *rand.Rand
	now      func() time.Time
	log      *slog.Logger

	runID  string
	active ActiveRun
}

// GameOption customises a Game.
type GameOption func(*Game)

// WithClock sets the clock used to timestamp results.
func WithClock(now func() time.Time) GameOption {
	return func(g *Game) { g.now = now }
}

// WithRand sets the shuffle source.
func WithRand(rnd *rand.Rand) GameOption {
	return func(g *Game) { g.rnd = rnd }
}

func WithLogger(log *slog.Logger) GameOption {
	return func(g *Game) { g.log = log }
}

func NewGame(rules GameRules, source QuestionSource, prefs PrefsStore, history *HistoryStore, opts ...GameOption) *Game {
	g := &Game{
		rules:   rules,
		source:  source,
		history: history,
		now:     time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.ledger = NewLedger(prefs, g.log)
	g.settings = NewSettings(prefs, g.log)
	return g
}

func (g *Game) Active() ActiveRun { return g.active }

func (g *Game) Ledger() *Ledger { return g.ledger }

func (g *Game) History() *HistoryStore { return g.history }

func (g *Game) Settings() *Settings { return g.settings }

// Play starts a new run. difficulty is ignored for Boss Rush and defaults to
// Easy for the other modes.
func (g *Game) Play(ctx context.Context, mode domain.Mode, difficulty domain.Difficulty) ([]domain.Command, error) {
	switch mode {
	case domain.ModeClassic, domain.ModeTimeAttack:
		if difficulty == "" {
			difficulty = domain.Easy
		}
		if _, ok := difficultyIndex(difficulty); !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDifficulty, difficulty)
		}
		return g.startTier(ctx, mode, difficulty)
	case domain.ModeBossRush:
		return g.startStage(ctx, 1, false)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMode, mode)
	}
}

// Submit forwards an answer to the active run.
func (g *Game) Submit(index int) []domain.Command {
	if g.active == nil {
		return nil
	}
	return g.active.Quiz().Submit(index)
}

// Advance lets dt of time pass in the active run.
func (g *Game) Advance(dt time.Duration) []domain.Command {
	if g.active == nil {
		return nil
	}
	return g.active.Quiz().Advance(dt)
}

// Restart replays the current difficulty from scratch, or sends Boss Rush
// back to stage 1.
func (g *Game) Restart(ctx context.Context) ([]domain.Command, error) {
	var (
		cmds []domain.Command
		err  error
	)
	switch run := g.active.(type) {
	case *ClassicRun:
		cmds, err = g.startTier(ctx, domain.ModeClassic, run.difficulty)
	case *TimeAttackRun:
		cmds, err = g.startTier(ctx, domain.ModeTimeAttack, run.difficulty)
	case *BossRushRun:
		cmds, err = g.startStage(ctx, 1, false)
	default:
		return nil, domain.ErrNoActiveRun
	}
	return prepend(domain.PlayEffect(domain.SoundClick), cmds), err
}

// Proceed moves on after a run that earned it: the next difficulty after a
// passing tiered run, the next stage after a Boss Rush win, or the results
// screen once there is nothing left to climb.
func (g *Game) Proceed(ctx context.Context) ([]domain.Command, error) {
	click := domain.PlayEffect(domain.SoundClick)
	switch run := g.active.(type) {
	case nil:
		return nil, domain.ErrNoActiveRun
	case *ClassicRun:
		return g.proceedTier(ctx, domain.ModeClassic, &run.tieredRun, click)
	case *TimeAttackRun:
		return g.proceedTier(ctx, domain.ModeTimeAttack, &run.tieredRun, click)
	case *BossRushRun:
		if run.quiz.State() != RoundWon {
			return nil, domain.ErrCannotProceed
		}
		if run.kind == domain.StageFinal {
			g.end()
			return []domain.Command{click, domain.LoadScreen(domain.ScreenResults)}, nil
		}
		cmds, err := g.startStage(ctx, run.stage+1, true)
		return prepend(click, cmds), err
	}
	return nil, domain.ErrNoActiveRun
}

// Abandon leaves the active run for the title screen. A run still in
// progress is recorded with the progress made so far.
func (g *Game) Abandon() []domain.Command {
	switch run := g.active.(type) {
	case *ClassicRun:
		g.recordAbandonedTier(domain.ModeClassic, &run.tieredRun)
	case *TimeAttackRun:
		g.recordAbandonedTier(domain.ModeTimeAttack, &run.tieredRun)
	case *BossRushRun:
		if !run.quiz.State().Terminal() {
			g.history.Record(g.result(domain.ModeBossRush, domain.StageLabel(run.stage), 0, 0, run.stage))
		}
	}
	g.end()
	return []domain.Command{
		domain.PlayEffect(domain.SoundClick),
		domain.StopAudio(),
		domain.LoadScreen(domain.ScreenTitle),
	}
}

func (g *Game) recordAbandonedTier(mode domain.Mode, run *tieredRun) {
	if run.quiz.State().Terminal() {
		return
	}
	g.history.Record(g.result(mode, string(run.difficulty), run.quiz.Correct(), run.quiz.Total(), 1))
}

func (g *Game) startTier(ctx context.Context, mode domain.Mode, difficulty domain.Difficulty) ([]domain.Command, error) {
	set, err := g.source.GetQuestionSet(ctx, domain.QuestionSetID(mode, difficulty, 0))
	if err != nil {
		return nil, fmt.Errorf("load %s %s questions: %w", mode, difficulty, err)
	}
	g.end()

	tier := g.rules.tier(mode)
	quiz := g.newQuiz(g.rules.tierQuiz(mode), set)
	base := tieredRun{quiz: quiz, difficulty: difficulty, threshold: tier.PassThreshold}
	if mode == domain.ModeTimeAttack {
		g.active = &TimeAttackRun{tieredRun: base}
	} else {
		g.active = &ClassicRun{tieredRun: base}
	}
	g.ledger.ResetAll(tier.PlayerHealth, 0)
	g.beginRun(mode, string(difficulty))

	cmds := []domain.Command{domain.PlayMusic(fmt.Sprintf("%s-%s", mode, difficulty))}
	return append(cmds, quiz.Start()...), nil
}

// startStage begins Boss Rush stage n. keepScore carries the score over from
// the previous stage; otherwise the ladder starts from nothing.
func (g *Game) startStage(ctx context.Context, n int, keepScore bool) ([]domain.Command, error) {
	stage, kind, ok := g.rules.BossRush.Stage(n)
	if !ok {
		return nil, fmt.Errorf("boss rush stage %d is not configured", n)
	}
	set, err := g.source.GetQuestionSet(ctx, domain.QuestionSetID(domain.ModeBossRush, "", n))
	if err != nil {
		return nil, fmt.Errorf("load boss rush stage %d questions: %w", n, err)
	}
	g.end()

	quiz := g.newQuiz(g.rules.stageQuiz(stage), set)
	g.active = &BossRushRun{quiz: quiz, stage: n, kind: kind}
	if keepScore {
		g.ledger.RestoreScore()
		g.ledger.ResetHealth(stage.PlayerHealth, stage.EnemyHealth)
	} else {
		g.ledger.ResetAll(stage.PlayerHealth, stage.EnemyHealth)
	}
	if !keepScore || g.runID == "" {
		g.beginRun(domain.ModeBossRush, domain.StageLabel(n))
	}

	cmds := []domain.Command{domain.PlayMusic(fmt.Sprintf("%s-%d", domain.ModeBossRush, n))}
	return append(cmds, quiz.Start()...), nil
}

func (g *Game) proceedTier(ctx context.Context, mode domain.Mode, run *tieredRun, click domain.Command) ([]domain.Command, error) {
	if !run.quiz.State().Terminal() || !run.passed {
		return nil, domain.ErrCannotProceed
	}
	next, ok := run.difficulty.Next()
	if !ok {
		g.end()
		return []domain.Command{click, domain.LoadScreen(domain.ScreenResults)}, nil
	}
	cmds, err := g.startTier(ctx, mode, next)
	return prepend(click, cmds), err
}

func (g *Game) newQuiz(rules Rules, set domain.QuestionSet) *Quiz {
	deck := NewDeck(g.rnd, g.log)
	deck.Load(set.Questions)
	quiz := NewQuiz(rules, deck, g.ledger, g.log)
	quiz.OnFinish(g.finished)
	return quiz
}

// finished is the terminal hook of every quiz the game creates.
func (g *Game) finished(won bool) []domain.Command {
	switch run := g.active.(type) {
	case *ClassicRun:
		return g.finishTier(domain.ModeClassic, &run.tieredRun, won)
	case *TimeAttackRun:
		return g.finishTier(domain.ModeTimeAttack, &run.tieredRun, won)
	case *BossRushRun:
		return g.finishStage(run, won)
	}
	return nil
}

func (g *Game) finishTier(mode domain.Mode, run *tieredRun, won bool) []domain.Command {
	run.passed = won && g.ledger.Score() >= run.threshold
	g.history.Record(g.result(mode, string(run.difficulty), run.quiz.Correct(), run.quiz.Total(), 1))
	return []domain.Command{
		domain.SetVisible(domain.NodeSuccessText, run.passed),
		domain.SetVisible(domain.NodeFailText, !run.passed),
		domain.SetVisible(domain.NodeRestartButton, !run.passed),
		domain.SetVisible(domain.NodeMenuButton, true),
		domain.SetVisible(domain.NodeProceedButton, run.passed),
	}
}

// finishStage records losses at any stage but wins only on the final stage.
func (g *Game) finishStage(run *BossRushRun, won bool) []domain.Command {
	if !won || run.kind == domain.StageFinal {
		g.history.Record(g.result(domain.ModeBossRush, domain.StageLabel(run.stage), run.quiz.Correct(), run.quiz.Total(), run.stage))
	}
	g.log.Info("boss rush stage finished", "run", g.runID, "stage", run.stage, "kind", run.kind, "won", won)
	return []domain.Command{
		domain.SetVisible(domain.NodeSuccessText, won),
		domain.SetVisible(domain.NodeFailText, !won),
		domain.SetVisible(domain.NodeRestartButton, !won),
		domain.SetVisible(domain.NodeMenuButton, !won),
		domain.SetVisible(domain.NodeProceedButton, won),
	}
}

func (g *Game) result(mode domain.Mode, difficulty string, correct, total, stage int) domain.GameResult {
	return domain.GameResult{
		Mode:           mode,
		Difficulty:     difficulty,
		Score:          g.ledger.Score(),
		CorrectAnswers: correct,
		TotalQuestions: total,
		Timestamp:      g.now().Format(domain.TimestampLayout),
		Stage:          stage,
	}
}

func (g *Game) beginRun(mode domain.Mode, label string) {
	g.runID = uuid.NewString()
	g.log.Info("run started", "run", g.runID, "mode", mode, "label", label)
}

// end stops the active run's timers and forgets it.
func (g *Game) end() {
	if g.active != nil {
		g.active.Quiz().Halt()
	}
	g.active = nil
}

func difficultyIndex(d domain.Difficulty) (int, bool) {
	for i, cur := range domain.Difficulties {
		if cur == d {
			return i, true
		}
	}
	return 0, false
}

func prepend(cmd domain.Command, cmds []domain.Command) []domain.Command {
	if cmds == nil {
		return nil
	}
	return append([]domain.Command{cmd}, cmds...)
}
