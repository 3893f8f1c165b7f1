package storage

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"VentureScanner/internal/domain"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())

	snapshot := domain.RunSnapshot{
		RunID:    "run-123",
		Stage:    domain.StageCompleted,
		Progress: 100,
		Data: map[string]any{
			"structured_input": map[string]any{"industry": "ecommerce"},
			"scraping_partial": true,
		},
		Errors: []string{"only 2 pages fetched"},
	}

	if err := store.Save(context.Background(), snapshot); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(context.Background(), "run-123")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(snapshot, loaded); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStoreOverwritesSameRun(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	first := domain.RunSnapshot{RunID: "run-1", Stage: domain.StageError, Progress: 40}
	second := domain.RunSnapshot{RunID: "run-1", Stage: domain.StageCompleted, Progress: 100}

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	loaded, err := store.Load(ctx, "run-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Stage != domain.StageCompleted || loaded.Progress != 100 {
		t.Fatalf("latest save must win: %+v", loaded)
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store := NewFileStore(t.TempDir())
	if _, err := store.Load(context.Background(), "never-saved"); err == nil {
		t.Fatal("missing run must be an error")
	}
}
