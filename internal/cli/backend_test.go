package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quizgenius/internal/config"
)

func TestOpenBackendDrivers(t *testing.T) {
	ctx := context.Background()

	var cfg config.Config
	cfg.Storage.Driver = config.DriverSQLite
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "nested", "quiz.db")
	b, err := openBackend(ctx, cfg)
	if err != nil {
		t.Fatalf("open sqlite backend: %v", err)
	}
	defer b.Close()
	if quizzes := b.service.ListQuizzes(ctx); len(quizzes) != 1 || quizzes[0].ID != "sample-1" {
		t.Fatalf("expected sample library on a fresh database, got %d quizzes", len(quizzes))
	}
	if b.sweeper == nil || b.sweepEvery != 15*time.Minute {
		t.Fatalf("expected session sweep every 15m, got %v", b.sweepEvery)
	}

	cfg.Storage.Driver = config.DriverRedis
	if _, err := openBackend(ctx, cfg); err == nil {
		t.Fatalf("expected error for redis driver without addr")
	}
	cfg.Storage.Driver = "mongo"
	if _, err := openBackend(ctx, cfg); err == nil || !strings.Contains(err.Error(), "mongo") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestReadSourceFromStdin(t *testing.T) {
	text, err := readSource(bytes.NewBufferString("some text"), "-")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if text != "some text" {
		t.Fatalf("unexpected text %q", text)
	}
	if _, err := readSource(nil, filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestQuizzesListCommandPrintsSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path, "quizzes", "list"})
	raw := "storage:\n  driver: sqlite\nsqlite:\n  path: " + filepath.Join(t.TempDir(), "q.db") + "\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "sample-1") {
		t.Fatalf("expected sample quiz in output:\n%s", out.String())
	}
}
