package app

import (
	"log/slog"
	"math/rand"

	"quiz-arena/internal/domain"
)

// Deck is an ordered question pool with a forward-only cursor.
type Deck struct {
	questions []domain.Question
	cursor    int
	rnd       *rand.Rand
	log       *slog.Logger
}

func NewDeck(rnd *rand.Rand, log *slog.Logger) *Deck {
	return &Deck{rnd: rnd, log: loggerOr(log)}
}

// Load replaces the pool and rewinds the cursor. Questions that cannot be
// shown (wrong option count, correct index out of range) are skipped.
func (d *Deck) Load(questions []domain.Question) {
	d.questions = make([]domain.Question, 0, len(questions))
	for i, q := range questions {
		if !q.Valid() {
			d.log.Warn("skipping malformed question", "index", i, "options", len(q.Options), "correct", q.CorrectIndex)
			continue
		}
		d.questions = append(d.questions, q)
	}
	d.cursor = 0
}

// Shuffle permutes the pool uniformly (Fisher-Yates) and rewinds the cursor.
func (d *Deck) Shuffle() {
	d.rnd.Shuffle(len(d.questions), func(i, j int) {
		d.questions[i], d.questions[j] = d.questions[j], d.questions[i]
	})
	d.cursor = 0
}

// Current returns the question under the cursor; ok is false once exhausted.
func (d *Deck) Current() (domain.Question, bool) {
	if d.cursor >= len(d.questions) {
		return domain.Question{}, false
	}
	return d.questions[d.cursor], true
}

func (d *Deck) Advance() { d.cursor++ }

func (d *Deck) Reset() { d.cursor = 0 }

func (d *Deck) Exhausted() bool { return d.cursor >= len(d.questions) }

func (d *Deck) Index() int { return d.cursor }

func (d *Deck) Len() int { return len(d.questions) }

// Questions returns a copy of the pool in its current order.
func (d *Deck) Questions() []domain.Question {
	out := make([]domain.Question, len(d.questions))
	copy(out, d.questions)
	return out
}
