package app_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"quiz-arena/internal/app"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/infra/memory"
)

var fixedNow = time.Date(2024, 11, 22, 9, 30, 0, 0, time.UTC)

// questions builds n valid questions whose correct answer rotates through the options.
func questions(prefix string, n int) []domain.Question {
	out := make([]domain.Question, n)
	for i := range out {
		out[i] = domain.Question{
			Prompt:       fmt.Sprintf("%s question %d", prefix, i+1),
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % domain.OptionCount,
		}
	}
	return out
}

// bank returns every set the game can ask for, each with n questions.
func bank(n int) map[string]domain.QuestionSet {
	sets := make(map[string]domain.QuestionSet)
	for _, mode := range []domain.Mode{domain.ModeClassic, domain.ModeTimeAttack} {
		for _, d := range domain.Difficulties {
			id := domain.QuestionSetID(mode, d, 0)
			sets[id] = domain.QuestionSet{ID: id, Questions: questions(id, n)}
		}
	}
	for stage := 1; stage <= 5; stage++ {
		id := domain.QuestionSetID(domain.ModeBossRush, "", stage)
		sets[id] = domain.QuestionSet{ID: id, Questions: questions(id, n)}
	}
	return sets
}

type fixture struct {
	game  *app.Game
	prefs *memory.PrefsStore
}

func newFixture(t *testing.T, rules app.GameRules, sets map[string]domain.QuestionSet) fixture {
	t.Helper()
	prefs := memory.NewPrefsStore()
	history := app.NewHistoryStore(prefs, app.DefaultHistoryCapacity, nil)
	game := app.NewGame(rules, memory.NewStaticQuestionLoader(sets), prefs, history,
		app.WithClock(func() time.Time { return fixedNow }),
		app.WithRand(rand.New(rand.NewSource(1))),
	)
	return fixture{game: game, prefs: prefs}
}

func (f fixture) play(t *testing.T, mode domain.Mode, d domain.Difficulty) {
	t.Helper()
	if _, err := f.game.Play(context.Background(), mode, d); err != nil {
		t.Fatalf("play %s %s: %v", mode, d, err)
	}
}

// answer submits the correct (or a wrong) option and waits out the answer delay.
func (f fixture) answer(t *testing.T, correct bool) []domain.Command {
	t.Helper()
	q, ok := f.game.CurrentQuestion()
	if !ok {
		t.Fatalf("no question awaiting an answer (state %s)", f.game.Snapshot().State)
	}
	choice := q.CorrectIndex
	if !correct {
		choice = (q.CorrectIndex + 1) % domain.OptionCount
	}
	cmds := f.game.Submit(choice)
	if len(cmds) == 0 {
		t.Fatalf("submit produced no commands")
	}
	return append(cmds, f.game.Advance(3*time.Second)...)
}

func (f fixture) state() string { return f.game.Snapshot().State }

func hasCommand(cmds []domain.Command, want domain.Command) bool {
	for _, c := range cmds {
		if c == want {
			return true
		}
	}
	return false
}
