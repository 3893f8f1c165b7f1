package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunReturnsCodeInsteadOfExiting(t *testing.T) {
	// An unreadable input must surface as exit code 1 through run's return
	// value, leaving deferred cleanup to execute normally.
	if got := run([]string{"-input", filepath.Join(t.TempDir(), "missing.json")}); got != 1 {
		t.Fatalf("exit code: got %d, want 1", got)
	}

	if got := run([]string{"-definitely-not-a-flag"}); got != 2 {
		t.Fatalf("exit code for bad flags: got %d, want 2", got)
	}
}

func TestReadInputFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "input.json")
	payload := `{"business_idea":"coffee subscription","industry":"ecommerce","budget":50000,"timeline_months":12}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	raw, err := readInput(path)
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if raw.BusinessIdea != "coffee subscription" || raw.Budget != 50_000 {
		t.Fatalf("unexpected input: %+v", raw)
	}
}

func TestReadInputMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := readInput(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("missing file must be an error")
	}
}
