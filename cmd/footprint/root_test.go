package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vladimiradmaev/footprint-helper/internal/summary"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("footprint %s: %v\n%s", strings.Join(args, " "), err, buf.String())
	}
	return buf.String()
}

func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "PHOTO_BUCKET", "STORAGE_BACKEND"} {
		t.Setenv(key, "")
	}
	return filepath.Join(t.TempDir(), "footprint.db")
}

func TestRootHelp(t *testing.T) {
	if out := run(t, "--help"); out == "" {
		t.Fatal("expected help output")
	}
}

func TestLogThenStreakAndEntries(t *testing.T) {
	db := isolate(t)

	out := run(t, "--db", db, "log", "rice", "200g,", "lentils", "150g")
	if !strings.Contains(out, "logged") {
		t.Fatalf("log output %q", out)
	}

	if out := run(t, "--db", db, "streak"); !strings.Contains(out, "1 day(s) in a row") {
		t.Fatalf("streak output %q", out)
	}
	if out := run(t, "--db", db, "entries"); !strings.Contains(out, "rice 200g, lentils 150g") {
		t.Fatalf("entries output %q", out)
	}
}

func TestUsersAreSeparate(t *testing.T) {
	db := isolate(t)

	run(t, "--db", db, "--user", "alice", "log", "tofu 150g")
	out := run(t, "--db", db, "--user", "bob", "summary")
	userID = "local"

	if !strings.Contains(out, summary.NoActivity) {
		t.Fatalf("bob sees %q", out)
	}
}

func TestResetClearsLog(t *testing.T) {
	db := isolate(t)

	run(t, "--db", db, "log", "bread 50g")
	run(t, "--db", db, "reset")

	if out := run(t, "--db", db, "entries"); !strings.Contains(out, "No meals logged.") {
		t.Fatalf("entries after reset %q", out)
	}
}

func TestChallengesRejectsUnknownRefresh(t *testing.T) {
	db := isolate(t)
	rootCmd.SetArgs([]string{"--db", db, "challenges", "--refresh", "monthly"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	err := rootCmd.Execute()
	refreshWhich = ""
	if err == nil {
		t.Fatal("expected error for --refresh monthly")
	}
}

func TestChallengesFallBackWithoutProvider(t *testing.T) {
	db := isolate(t)

	out := run(t, "--db", db, "challenges", "--refresh", "all")
	refreshWhich = ""
	if strings.TrimSpace(out) == "" {
		t.Fatal("expected challenges output")
	}
}
