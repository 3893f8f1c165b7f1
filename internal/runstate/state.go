// Package runstate holds the mutable record of a single pipeline run.
// One State is created per run and owned by exactly one orchestrator;
// collaborators never touch it directly.
package runstate

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"VentureScanner/internal/domain"
)

// State tracks the current stage, monotonic progress, an arbitrary data bag,
// and the ordered error/warning log of one run.
type State struct {
	runID    string
	stage    domain.Stage
	progress int
	data     map[string]any
	errs     []string
	logger   *slog.Logger
}

// New creates a fresh run record at StageInitialized with progress 0.
func New(logger *slog.Logger) *State {
	return &State{
		runID:  uuid.NewString(),
		stage:  domain.StageInitialized,
		data:   map[string]any{},
		logger: logger,
	}
}

// RunID returns the identifier assigned at creation.
func (s *State) RunID() string { return s.runID }

// Stage returns the current pipeline stage.
func (s *State) Stage() domain.Stage { return s.stage }

// Progress returns the current completion percentage.
func (s *State) Progress() int { return s.progress }

// Advance moves the run to the next stage. Backward moves, moves out of a
// terminal stage, and unknown targets are rejected; Error is reachable from
// any non-terminal stage.
func (s *State) Advance(next domain.Stage) error {
	if s.stage.Terminal() {
		return fmt.Errorf("invalid transition: run already terminal at %s", s.stage)
	}
	if next == domain.StageError {
		s.setStage(next)
		return nil
	}
	target, ok := next.Order()
	if !ok {
		return fmt.Errorf("invalid transition: unknown stage %q", next)
	}
	current, _ := s.stage.Order()
	if target <= current {
		return fmt.Errorf("invalid transition: %s does not follow %s", next, s.stage)
	}
	s.setStage(next)
	return nil
}

func (s *State) setStage(next domain.Stage) {
	s.stage = next
	if s.logger != nil {
		s.logger.Info("stage updated", "run_id", s.runID, "stage", next)
	}
}

// SetProgress raises the completion percentage. Values are clamped to
// [0,100]; a value below the current progress is ignored, keeping progress
// monotonic by contract. Progress is frozen once the run reaches Error.
func (s *State) SetProgress(value int) {
	if s.stage == domain.StageError {
		return
	}
	if value > 100 {
		value = 100
	}
	if value <= s.progress {
		return
	}
	s.progress = value
	if s.logger != nil {
		s.logger.Debug("progress updated", "run_id", s.runID, "progress", value)
	}
}

// Put stores a value in the data bag, overwriting any previous value.
// The bag is frozen once the run reaches Error.
func (s *State) Put(key string, value any) {
	if s.stage == domain.StageError {
		return
	}
	s.data[key] = value
}

// Get returns a previously stored value.
func (s *State) Get(key string) (any, bool) {
	value, ok := s.data[key]
	return value, ok
}

// Flag reports whether a boolean marker such as scraping_partial is set.
func (s *State) Flag(key string) bool {
	value, ok := s.data[key]
	if !ok {
		return false
	}
	flag, ok := value.(bool)
	return ok && flag
}

// RecordError appends to the error log and forces the run into Error.
// This is the hard-failure path: the orchestrator loop stops afterwards.
func (s *State) RecordError(message string) {
	s.errs = append(s.errs, message)
	if s.logger != nil {
		s.logger.Error("error recorded", "run_id", s.runID, "message", message)
	}
	if s.stage != domain.StageCompleted {
		s.stage = domain.StageError
	}
}

// RecordWarning appends to the error log without changing the stage.
// This is the soft-failure path: the run continues degraded.
func (s *State) RecordWarning(message string) {
	s.errs = append(s.errs, message)
	if s.logger != nil {
		s.logger.Warn("warning recorded", "run_id", s.runID, "message", message)
	}
}

// Errors returns a copy of the ordered error/warning log.
func (s *State) Errors() []string {
	out := make([]string, len(s.errs))
	copy(out, s.errs)
	return out
}

// Snapshot returns an immutable copy of the run record. The data bag is
// deep-copied through JSON so callers cannot reach internal references;
// values that do not serialize are replaced with their string form.
func (s *State) Snapshot() domain.RunSnapshot {
	return domain.RunSnapshot{
		RunID:    s.runID,
		Stage:    s.stage,
		Progress: s.progress,
		Data:     copyData(s.data),
		Errors:   s.Errors(),
	}
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for key, value := range data {
		raw, err := json.Marshal(value)
		if err != nil {
			out[key] = fmt.Sprintf("%v", value)
			continue
		}
		var copied any
		if err := json.Unmarshal(raw, &copied); err != nil {
			out[key] = string(raw)
			continue
		}
		out[key] = copied
	}
	return out
}
