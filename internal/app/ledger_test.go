package app_test

import (
	"testing"

	"quiz-arena/internal/app"
	"quiz-arena/internal/infra/memory"
)

func TestLedgerScoreFloorAndPersistence(t *testing.T) {
	prefs := memory.NewPrefsStore()
	ledger := app.NewLedger(prefs, nil)

	ledger.IncreaseScore(100)
	ledger.DecreaseScore(30)
	ledger.DecreaseScore(500)
	if ledger.Score() != 0 {
		t.Fatalf("expected score floored at 0, got %d", ledger.Score())
	}
	ledger.DecreaseScore(-20)
	if ledger.Score() != 20 {
		t.Fatalf("negative decrease should add, got %d", ledger.Score())
	}
	if got := prefs.Get(app.KeyPlayerScore, ""); got != "20" {
		t.Fatalf("expected persisted score 20, got %q", got)
	}
	if prefs.Saves() != 4 {
		t.Fatalf("expected a flush per change, got %d", prefs.Saves())
	}
}

func TestLedgerHealth(t *testing.T) {
	ledger := app.NewLedger(memory.NewPrefsStore(), nil)
	ledger.ResetAll(2, 1)

	ledger.DecreaseHealth(app.Enemy)
	ledger.DecreaseHealth(app.Enemy)
	if ledger.Health(app.Enemy) != 0 {
		t.Fatalf("enemy health must stop at 0, got %d", ledger.EnemyHealth())
	}
	ledger.DecreaseHealth(app.Player)
	if ledger.PlayerHealth() != 1 {
		t.Fatalf("expected player health 1, got %d", ledger.PlayerHealth())
	}
}

func TestLedgerRestoreScore(t *testing.T) {
	prefs := memory.NewPrefsStore()
	ledger := app.NewLedger(prefs, nil)
	ledger.IncreaseScore(300)

	next := app.NewLedger(prefs, nil)
	next.RestoreScore()
	if next.Score() != 300 {
		t.Fatalf("expected restored score 300, got %d", next.Score())
	}
	next.ResetHealth(5, 10)
	if next.Score() != 300 || next.PlayerHealth() != 5 || next.EnemyHealth() != 10 {
		t.Fatalf("health reset must keep the score")
	}
}
