package tui

import (
	"testing"

	"quiz-arena/internal/domain"
)

func TestScreenApply(t *testing.T) {
	s := NewScreen()
	s.Apply([]domain.Command{
		domain.PlayMusic("BossRush-1"),
		domain.SetText(domain.FieldScore, "Score: 100"),
		domain.SetVisible(domain.NodeQuestionPanel, true),
		domain.SetColor(domain.AnswerControl(2), domain.ColorWrong),
		domain.SetInteractable(domain.AnswerControl(2), false),
		domain.SetVolume(0.25),
		domain.PlayEffect(domain.SoundIncorrect),
	})

	if s.Music != "BossRush-1" || s.Volume != 0.25 {
		t.Fatalf("unexpected audio state %q %v", s.Music, s.Volume)
	}
	if !s.InGame() || s.Texts[domain.FieldScore] != "Score: 100" {
		t.Fatalf("unexpected screen %+v", s)
	}
	if s.Colors["answer2"] != domain.ColorWrong || s.Enabled["answer2"] {
		t.Fatalf("answer2 should be wrong and disabled")
	}

	s.Apply([]domain.Command{domain.StopAudio(), domain.LoadScreen(domain.ScreenResults)})
	if s.Name != domain.ScreenResults || s.Music != "" || s.InGame() || len(s.Texts) != 0 {
		t.Fatalf("loading a screen clears it, got %+v", s)
	}
	if s.Volume != 0.25 {
		t.Fatalf("volume survives screen changes")
	}
}

func TestScreenKeepsRecentEffects(t *testing.T) {
	s := NewScreen()
	for i := 0; i < 20; i++ {
		s.Apply([]domain.Command{domain.PlayEffect(domain.SoundTick)})
	}
	s.Apply([]domain.Command{domain.PlayEffect(domain.SoundVictory)})
	if len(s.Effects) != maxEffects || s.LastEffect() != domain.SoundVictory {
		t.Fatalf("unexpected effects %v", s.Effects)
	}
}
