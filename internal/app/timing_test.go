package app_test

import (
	"testing"
	"time"

	"quiz-arena/internal/app"
	"quiz-arena/internal/domain"
)

func TestSchedulerRunsStepsInOrder(t *testing.T) {
	var s app.Scheduler
	var got []string
	step := func(name string, wait time.Duration) app.Step {
		return app.Step{Wait: wait, Do: func() []domain.Command {
			got = append(got, name)
			return []domain.Command{domain.SetText(domain.FieldQuestion, name)}
		}}
	}
	s.Play(step("a", time.Second), step("b", 2*time.Second))

	if cmds := s.Advance(500 * time.Millisecond); cmds != nil {
		t.Fatalf("nothing should be due yet, got %+v", cmds)
	}
	s.Advance(600 * time.Millisecond)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected first step, got %v", got)
	}
	s.Advance(2 * time.Second)
	if len(got) != 2 || s.Busy() {
		t.Fatalf("expected both steps and an idle scheduler, got %v", got)
	}
}

func TestSchedulerCancelAndReplace(t *testing.T) {
	var s app.Scheduler
	fired := 0
	s.Play(app.Step{Wait: time.Second, Do: func() []domain.Command { fired++; return nil }})
	s.Cancel()
	s.Advance(time.Minute)
	if fired != 0 {
		t.Fatalf("cancelled step fired")
	}

	s.Play(app.Step{Wait: time.Second, Do: func() []domain.Command {
		fired++
		s.Play(app.Step{Wait: time.Second, Do: func() []domain.Command { fired += 10; return nil }})
		return nil
	}})
	s.Advance(5 * time.Second)
	if fired != 1 {
		t.Fatalf("a step that starts a new sequence must restart its clock, fired=%d", fired)
	}
	s.Advance(time.Second)
	if fired != 11 {
		t.Fatalf("expected the replacement step to run, fired=%d", fired)
	}
}

func TestCountdownExpiresOnce(t *testing.T) {
	c := app.NewCountdown(time.Second)
	c.Start(3*time.Second, 7)

	ticks := c.Advance(10 * time.Second)
	if len(ticks) != 3 {
		t.Fatalf("expected 2 ticks and an expiry, got %+v", ticks)
	}
	last := ticks[len(ticks)-1]
	if !last.Expired || last.Token != 7 {
		t.Fatalf("expected expiry for token 7, got %+v", last)
	}
	if c.Running() || c.Advance(10*time.Second) != nil {
		t.Fatalf("countdown must stop after expiring")
	}
}

func TestCountdownRestartReplacesToken(t *testing.T) {
	c := app.NewCountdown(time.Second)
	c.Start(10*time.Second, 1)
	c.Advance(1500 * time.Millisecond)
	c.Start(10*time.Second, 2)

	ticks := c.Advance(time.Second)
	if len(ticks) != 1 || ticks[0].Token != 2 || ticks[0].Remaining != 9*time.Second {
		t.Fatalf("expected a fresh tick for token 2, got %+v", ticks)
	}
}
