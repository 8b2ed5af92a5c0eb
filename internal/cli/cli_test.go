package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	bank, err := filepath.Abs(filepath.Join("..", "..", "config", "questions.yaml"))
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	cfg := "log:\n  level: error\n" +
		"questions:\n  bank: " + bank + "\n" +
		"store:\n  engine: file\n  dir: " + filepath.Join(dir, "store") + "\n  profile: tester\n"
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSettingsVolumePersists(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, "--config", cfg, "settings", "volume", "0.4")
	if err != nil {
		t.Fatalf("set volume: %v", err)
	}
	if strings.TrimSpace(out) != "volume 0.40" {
		t.Fatalf("unexpected output %q", out)
	}
	out, err = run(t, "--config", cfg, "settings", "volume")
	if err != nil || strings.TrimSpace(out) != "volume 0.40" {
		t.Fatalf("expected persisted volume, got %q (%v)", out, err)
	}
	// another profile keeps its own settings
	out, _ = run(t, "--config", cfg, "--profile", "other", "settings", "volume")
	if strings.TrimSpace(out) != "volume 1.00" {
		t.Fatalf("expected default volume for another profile, got %q", out)
	}
}

func TestShippedQuestionBankValidates(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, "--config", cfg, "questions", "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, id := range []string{"classic-easy", "timeattack-hard", "bossrush-stage-5"} {
		if !strings.Contains(out, id+":") {
			t.Fatalf("expected %s in %q", id, out)
		}
	}
}

func TestHistoryCommands(t *testing.T) {
	cfg := writeConfig(t)
	out, err := run(t, "--config", cfg, "history", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.HasPrefix(out, "LIST") {
		t.Fatalf("expected a header, got %q", out)
	}

	xlsx := filepath.Join(t.TempDir(), "history.xlsx")
	if _, err := run(t, "--config", cfg, "history", "export", "--xlsx", xlsx); err != nil {
		t.Fatalf("export: %v", err)
	}
	if info, err := os.Stat(xlsx); err != nil || info.Size() == 0 {
		t.Fatalf("expected a workbook at %s (%v)", xlsx, err)
	}

	if _, err := run(t, "--config", cfg, "history", "reset", "arcade"); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}

func TestImportNeedsPostgres(t *testing.T) {
	cfg := writeConfig(t)
	_, err := run(t, "--config", cfg, "questions", "import")
	if err == nil || !strings.Contains(err.Error(), "postgres") {
		t.Fatalf("expected a postgres error, got %v", err)
	}
}
