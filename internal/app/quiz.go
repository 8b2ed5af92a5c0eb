package app

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"quiz-arena/internal/domain"
)

// State is the position of a Quiz in its question loop.
type State int

const (
	Idle State = iota
	AwaitingAnswer
	Evaluating
	Advancing
	RoundWon
	RoundLost
)

var stateNames = [...]string{"idle", "awaiting_answer", "evaluating", "advancing", "round_won", "round_lost"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether the run has ended.
func (s State) Terminal() bool { return s == RoundWon || s == RoundLost }

// Rules configure one Quiz. A zero health value disables that pool.
type Rules struct {
	Mode             domain.Mode
	PointsPerCorrect int
	PenaltyPerWrong  int
	PlayerHealth     int
	EnemyHealth      int
	AnswerDelay      time.Duration
	Timed            bool
	TimeLimit        time.Duration
	TickInterval     time.Duration
	TimeUpEndsRun    bool
}

// Quiz drives one run through its deck: it evaluates answers, books them in
// the ledger and decides whether to advance, win or lose. Every transition
// returns the commands the presentation layer should apply.
type Quiz struct {
	rules     Rules
	deck      *Deck
	ledger    *Ledger
	sched     Scheduler
	countdown *Countdown
	log       *slog.Logger

	state    State
	correct  int
	answered int
	token    uint64
	onFinish func(won bool) []domain.Command
}

func NewQuiz(rules Rules, deck *Deck, ledger *Ledger, log *slog.Logger) *Quiz {
	q := &Quiz{
		rules:  rules,
		deck:   deck,
		ledger: ledger,
		log:    loggerOr(log).With("mode", rules.Mode),
	}
	if rules.Timed {
		q.countdown = NewCountdown(rules.TickInterval)
	}
	return q
}

// OnFinish registers the hook run when the quiz enters RoundWon or RoundLost.
func (q *Quiz) OnFinish(fn func(won bool) []domain.Command) { q.onFinish = fn }

func (q *Quiz) State() State { return q.state }

func (q *Quiz) Correct() int { return q.correct }

func (q *Quiz) Answered() int { return q.answered }

// Total is the question count reported in results.
func (q *Quiz) Total() int { return max(q.answered, q.deck.Len()) }

func (q *Quiz) Index() int { return q.deck.Index() }

func (q *Quiz) CanAnswer() bool { return q.state == AwaitingAnswer }

// TimeRemaining is zero when no countdown is running.
func (q *Quiz) TimeRemaining() time.Duration {
	if q.countdown == nil || !q.countdown.Running() {
		return 0
	}
	return q.countdown.Remaining()
}

// Start begins (or restarts) the run: pending steps and the countdown are
// dropped, the deck is reshuffled and the first question is shown.
func (q *Quiz) Start() []domain.Command {
	q.halt()
	q.deck.Shuffle()
	q.correct, q.answered = 0, 0

	cmds := []domain.Command{
		domain.SetVisible(domain.NodeGameOverPanel, false),
		domain.SetVisible(domain.NodeSuccessText, false),
		domain.SetVisible(domain.NodeFailText, false),
		domain.SetVisible(domain.NodeRestartButton, false),
		domain.SetVisible(domain.NodeMenuButton, false),
		domain.SetVisible(domain.NodeProceedButton, false),
		domain.SetVisible(domain.NodeQuestionPanel, true),
	}
	cmds = append(cmds, q.ledgerText()...)
	q.log.Info("quiz started", "questions", q.deck.Len())
	return append(cmds, q.present()...)
}

// Submit answers the current question. It does nothing unless the quiz is
// waiting for an answer, so repeated clicks during a transition are dropped.
func (q *Quiz) Submit(index int) []domain.Command {
	if q.state != AwaitingAnswer {
		return nil
	}
	cur, ok := q.deck.Current()
	if !ok {
		return nil
	}
	if index < 0 || index >= len(cur.Options) {
		q.log.Warn("answer index out of range", "index", index, "options", len(cur.Options))
		return nil
	}
	return q.evaluate(cur, index)
}

// Advance lets dt of time pass: countdown ticks first, then pending steps.
// At most one time-up fires per call.
func (q *Quiz) Advance(dt time.Duration) []domain.Command {
	var out []domain.Command
	if q.countdown != nil && q.countdown.Running() {
		for _, t := range q.countdown.Advance(dt) {
			if t.Token != q.token || q.state != AwaitingAnswer {
				continue
			}
			if t.Expired {
				return append(out, q.timeUp()...)
			}
			out = append(out,
				domain.SetText(domain.FieldTimer, timerText(t.Remaining)),
				domain.PlayEffect(domain.SoundTick),
			)
		}
	}
	return append(out, q.sched.Advance(dt)...)
}

// Halt stops the quiz without finishing it.
func (q *Quiz) Halt() {
	q.halt()
}

func (q *Quiz) halt() {
	q.sched.Cancel()
	q.stopCountdown()
	q.state = Idle
}

func (q *Quiz) stopCountdown() {
	if q.countdown != nil {
		q.countdown.Stop()
	}
}

// present shows the question under the cursor, or wins the round when the
// deck is exhausted.
func (q *Quiz) present() []domain.Command {
	cur, ok := q.deck.Current()
	if !ok {
		return q.finish(true)
	}
	q.token++
	q.state = AwaitingAnswer

	cmds := []domain.Command{
		domain.SetText(domain.FieldQuestion, cur.Prompt),
		domain.SetText(domain.FieldQuestionNumber, fmt.Sprintf("Question %d/%d", q.deck.Index()+1, q.deck.Len())),
	}
	for i, opt := range cur.Options {
		ctrl := domain.AnswerControl(i)
		cmds = append(cmds,
			domain.SetText(ctrl, opt),
			domain.SetColor(ctrl, domain.ColorNormal),
			domain.SetInteractable(ctrl, true),
		)
	}
	if q.countdown != nil {
		limit := q.rules.TimeLimit
		if cur.TimeLimit > 0 {
			limit = time.Duration(cur.TimeLimit * float64(time.Second))
		}
		if limit > 0 {
			q.countdown.Start(limit, q.token)
			cmds = append(cmds, domain.SetText(domain.FieldTimer, timerText(limit)))
		}
	}
	return cmds
}

// evaluate books an answer. chosen is -1 when the countdown ran out.
func (q *Quiz) evaluate(cur domain.Question, chosen int) []domain.Command {
	q.state = Evaluating
	q.stopCountdown()
	q.answered++

	cmds := q.lockAnswers()
	if chosen == cur.CorrectIndex {
		q.correct++
		cmds = append(cmds,
			domain.SetColor(domain.AnswerControl(chosen), domain.ColorCorrect),
			domain.PlayEffect(domain.SoundCorrect),
		)
		q.ledger.IncreaseScore(q.rules.PointsPerCorrect)
		if q.rules.EnemyHealth > 0 {
			q.ledger.DecreaseHealth(Enemy)
		}
	} else {
		if chosen >= 0 {
			cmds = append(cmds, domain.SetColor(domain.AnswerControl(chosen), domain.ColorWrong))
		}
		cmds = append(cmds,
			domain.SetColor(domain.AnswerControl(cur.CorrectIndex), domain.ColorCorrect),
			domain.PlayEffect(domain.SoundIncorrect),
		)
		if q.rules.PenaltyPerWrong > 0 {
			q.ledger.DecreaseScore(q.rules.PenaltyPerWrong)
		}
		if q.rules.PlayerHealth > 0 {
			q.ledger.DecreaseHealth(Player)
		}
	}
	cmds = append(cmds, q.ledgerText()...)

	switch {
	case q.rules.PlayerHealth > 0 && q.ledger.PlayerHealth() == 0:
		q.after(func() []domain.Command { return q.finish(false) })
	case q.rules.EnemyHealth > 0 && q.ledger.EnemyHealth() == 0:
		q.after(func() []domain.Command { return q.finish(true) })
	default:
		q.state = Advancing
		q.after(q.next)
	}
	return cmds
}

func (q *Quiz) timeUp() []domain.Command {
	cur, ok := q.deck.Current()
	if !ok {
		return nil
	}
	q.log.Info("time up", "question", q.deck.Index()+1)
	if !q.rules.TimeUpEndsRun {
		return q.evaluate(cur, -1)
	}
	q.state = Evaluating
	q.stopCountdown()
	q.answered++
	cmds := q.lockAnswers()
	cmds = append(cmds,
		domain.SetColor(domain.AnswerControl(cur.CorrectIndex), domain.ColorCorrect),
		domain.PlayEffect(domain.SoundIncorrect),
	)
	q.after(func() []domain.Command { return q.finish(false) })
	return cmds
}

func (q *Quiz) next() []domain.Command {
	q.deck.Advance()
	return q.present()
}

func (q *Quiz) after(fn func() []domain.Command) {
	q.sched.Play(Step{Wait: q.rules.AnswerDelay, Do: fn})
}

func (q *Quiz) finish(won bool) []domain.Command {
	q.sched.Cancel()
	q.stopCountdown()
	if won {
		q.state = RoundWon
	} else {
		q.state = RoundLost
	}
	q.log.Info("quiz finished", "won", won, "score", q.ledger.Score(), "correct", q.correct, "total", q.Total())

	cue := domain.SoundDefeat
	if won {
		cue = domain.SoundVictory
	}
	cmds := q.lockAnswers()
	cmds = append(cmds,
		domain.StopAudio(),
		domain.PlayEffect(cue),
		domain.SetVisible(domain.NodeQuestionPanel, false),
		domain.SetVisible(domain.NodeGameOverPanel, true),
		domain.SetText(domain.FieldFinalScore, fmt.Sprintf("Correct Answers: %d/%d", q.correct, q.Total())),
		domain.SetText(domain.FieldTotalScore, fmt.Sprintf("Total Score: %d", q.ledger.Score())),
	)
	if q.onFinish != nil {
		cmds = append(cmds, q.onFinish(won)...)
	}
	return cmds
}

func (q *Quiz) lockAnswers() []domain.Command {
	cmds := make([]domain.Command, 0, domain.OptionCount)
	for i := 0; i < domain.OptionCount; i++ {
		cmds = append(cmds, domain.SetInteractable(domain.AnswerControl(i), false))
	}
	return cmds
}

func (q *Quiz) ledgerText() []domain.Command {
	cmds := []domain.Command{domain.SetText(domain.FieldScore, fmt.Sprintf("Score: %d", q.ledger.Score()))}
	if q.rules.PlayerHealth > 0 {
		cmds = append(cmds, domain.SetText(domain.FieldPlayerHealth, fmt.Sprintf("%d/%d", q.ledger.PlayerHealth(), q.rules.PlayerHealth)))
	}
	if q.rules.EnemyHealth > 0 {
		cmds = append(cmds, domain.SetText(domain.FieldEnemyHealth, fmt.Sprintf("%d/%d", q.ledger.EnemyHealth(), q.rules.EnemyHealth)))
	}
	return cmds
}

func timerText(d time.Duration) string {
	return fmt.Sprintf("Time: %d", int(math.Ceil(d.Seconds())))
}
