package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quiz-arena/internal/domain"
	"quiz-arena/internal/infra/schema"
)

func TestPrefsStoreRoundTrip(t *testing.T) {
	path := ProfilePath(filepath.Join(t.TempDir(), "profiles"), "p1")

	prefs, err := OpenPrefsStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := prefs.Get("MasterVolume", "1"); got != "1" {
		t.Fatalf("expected fallback on a fresh store, got %q", got)
	}
	prefs.Set("MasterVolume", "0.3")
	prefs.Set("ClassicEasy", "Classic,Easy,70,7,10,2024-11-22 09:30,1|")
	if err := prefs.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	again, err := OpenPrefsStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := again.Get("MasterVolume", ""); got != "0.3" {
		t.Fatalf("expected persisted volume, got %q", got)
	}
	if got := again.Get("ClassicEasy", ""); got != "Classic,Easy,70,7,10,2024-11-22 09:30,1|" {
		t.Fatalf("expected persisted history, got %q", got)
	}
}

func TestPrefsStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("- not\n- a map\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := OpenPrefsStore(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

const bankYAML = `sets:
  - id: classic-easy
    title: Warm up
    questions:
      - prompt: What is 2 + 2?
        options: ["3", "4", "5", "6"]
        correct_index: 1
      - prompt: Pick red
        options: [red, green, blue, black]
        correct_index: 0
        time_limit: 5
  - id: classic-medium
    questions:
      - prompt: Only three
        options: [a, b, c]
        correct_index: 0
`

func TestLoadQuestionBank(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bank.yaml"), []byte(bankYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	validator, err := schema.New()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	sets, err := LoadQuestionBank(dir, validator, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("expected 2 sets, got %d", len(sets))
	}
	easy := sets["classic-easy"]
	if easy.Title != "Warm up" || len(easy.Questions) != 2 {
		t.Fatalf("unexpected set %+v", easy)
	}
	if q := easy.Questions[1]; q.CorrectIndex != 0 || q.TimeLimit != 5 || q.Options[2] != "blue" {
		t.Fatalf("unexpected question %+v", q)
	}

	_, err = ValidateQuestionBank(dir, validator)
	if !errors.Is(err, domain.ErrInvalidQuestionSet) {
		t.Fatalf("strict validation should reject the three-option question, got %v", err)
	}
}

func TestLoadQuestionBankMissingPath(t *testing.T) {
	if _, err := LoadQuestionBank(filepath.Join(t.TempDir(), "nope"), nil, nil); err == nil {
		t.Fatalf("expected error for a missing bank")
	}
}
