package app

import (
	"time"

	"quiz-arena/internal/domain"
)

// Step runs Do once Wait has elapsed after the previous step.
type Step struct {
	Wait time.Duration
	Do   func() []domain.Command
}

// Scheduler plays one sequence of timed steps at a time. Time only moves
// through Advance, so sequences are deterministic under test.
type Scheduler struct {
	steps   []Step
	elapsed time.Duration
	seq     uint64
}

// Play replaces whatever sequence is pending with steps.
func (s *Scheduler) Play(steps ...Step) {
	s.seq++
	s.steps = append([]Step(nil), steps...)
	s.elapsed = 0
}

// Cancel drops the pending sequence.
func (s *Scheduler) Cancel() {
	s.seq++
	s.steps = nil
	s.elapsed = 0
}

func (s *Scheduler) Busy() bool { return len(s.steps) > 0 }

// Advance moves time forward by dt and runs every step that became due.
// A step that starts a new sequence restarts the clock for it.
func (s *Scheduler) Advance(dt time.Duration) []domain.Command {
	if len(s.steps) == 0 {
		return nil
	}
	s.elapsed += dt
	var out []domain.Command
	for len(s.steps) > 0 && s.elapsed >= s.steps[0].Wait {
		st := s.steps[0]
		s.elapsed -= st.Wait
		s.steps = s.steps[1:]
		seq := s.seq
		if st.Do != nil {
			out = append(out, st.Do()...)
		}
		if s.seq != seq {
			break
		}
	}
	if len(s.steps) == 0 {
		s.elapsed = 0
	}
	return out
}
