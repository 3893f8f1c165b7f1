package runstate

import (
	"testing"

	"VentureScanner/internal/domain"
)

func TestAdvanceForwardOnly(t *testing.T) {
	t.Parallel()

	state := New(nil)
	if state.Stage() != domain.StageInitialized {
		t.Fatalf("new state should start initialized, got %s", state.Stage())
	}
	if state.RunID() == "" {
		t.Fatal("expected a run id")
	}

	if err := state.Advance(domain.StageInputReceived); err != nil {
		t.Fatalf("advance to input_received: %v", err)
	}
	if err := state.Advance(domain.StageSearching); err != nil {
		t.Fatalf("advance to searching: %v", err)
	}

	if err := state.Advance(domain.StageInputReceived); err == nil {
		t.Fatal("backward transition should be rejected")
	}
	if err := state.Advance(domain.StageSearching); err == nil {
		t.Fatal("self transition should be rejected")
	}
	if err := state.Advance(domain.Stage("made_up")); err == nil {
		t.Fatal("unknown stage should be rejected")
	}

	if state.Stage() != domain.StageSearching {
		t.Fatalf("rejected transitions must not move the stage, got %s", state.Stage())
	}
}

func TestErrorReachableFromAnyStage(t *testing.T) {
	t.Parallel()

	state := New(nil)
	if err := state.Advance(domain.StageInputReceived); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := state.Advance(domain.StageError); err != nil {
		t.Fatalf("error should be reachable from input_received: %v", err)
	}

	if err := state.Advance(domain.StageSearching); err == nil {
		t.Fatal("no transition out of error should be allowed")
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	t.Parallel()

	state := New(nil)
	for _, next := range []domain.Stage{
		domain.StageInputReceived, domain.StageSearching, domain.StageScraping,
		domain.StageExtracting, domain.StageAnalyzing, domain.StageConsolidating,
		domain.StageGeneratingReport, domain.StageCompleted,
	} {
		if err := state.Advance(next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}

	if err := state.Advance(domain.StageError); err == nil {
		t.Fatal("completed run must not move to error")
	}
}

func TestProgressMonotonicAndClamped(t *testing.T) {
	t.Parallel()

	state := New(nil)

	state.SetProgress(40)
	state.SetProgress(30)
	if got := state.Progress(); got != 40 {
		t.Fatalf("progress regressed: got %d, want 40", got)
	}

	state.SetProgress(150)
	if got := state.Progress(); got != 100 {
		t.Fatalf("progress should clamp to 100, got %d", got)
	}
}

func TestErrorFreezesProgressAndData(t *testing.T) {
	t.Parallel()

	state := New(nil)
	state.SetProgress(70)
	state.Put("before", true)

	state.RecordError("downstream blew up")
	if state.Stage() != domain.StageError {
		t.Fatalf("record error should force the error stage, got %s", state.Stage())
	}

	state.SetProgress(90)
	state.Put("after", true)

	if got := state.Progress(); got != 70 {
		t.Fatalf("progress must freeze at error, got %d", got)
	}
	if _, ok := state.Get("after"); ok {
		t.Fatal("data bag must freeze at error")
	}
	if _, ok := state.Get("before"); !ok {
		t.Fatal("pre-error data must survive")
	}
}

func TestWarningsDoNotChangeStage(t *testing.T) {
	t.Parallel()

	state := New(nil)
	if err := state.Advance(domain.StageInputReceived); err != nil {
		t.Fatalf("advance: %v", err)
	}

	state.RecordWarning("only 2 pages fetched")
	if state.Stage() != domain.StageInputReceived {
		t.Fatalf("warning must not change the stage, got %s", state.Stage())
	}

	state.RecordError("hard failure")
	errs := state.Errors()
	if len(errs) != 2 || errs[0] != "only 2 pages fetched" || errs[1] != "hard failure" {
		t.Fatalf("errors must keep recording order, got %v", errs)
	}
}

func TestSnapshotIsolatesData(t *testing.T) {
	t.Parallel()

	state := New(nil)
	payload := map[string]any{"count": 3}
	state.Put("stats", payload)

	snapshot := state.Snapshot()
	payload["count"] = 99

	stats, ok := snapshot.Data["stats"].(map[string]any)
	if !ok {
		t.Fatalf("snapshot stats has unexpected type %T", snapshot.Data["stats"])
	}
	// JSON round-trip turns numbers into float64.
	if got := stats["count"].(float64); got != 3 {
		t.Fatalf("snapshot must not share memory with the bag, got count=%v", got)
	}

	if snapshot.RunID != state.RunID() {
		t.Fatalf("snapshot run id mismatch: %s vs %s", snapshot.RunID, state.RunID())
	}
}
