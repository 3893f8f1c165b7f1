package domain

// Stage enumerates pipeline milestones in canonical order.
type Stage string

const (
	StageInitialized      Stage = "initialized"
	StageInputReceived    Stage = "input_received"
	StageSearching        Stage = "searching"
	StageScraping         Stage = "scraping"
	StageExtracting       Stage = "extracting"
	StageAnalyzing        Stage = "analyzing"
	StageConsolidating    Stage = "consolidating"
	StageGeneratingReport Stage = "generating_report"
	StageCompleted        Stage = "completed"
	StageError            Stage = "error"
)

var stageOrder = map[Stage]int{
	StageInitialized:      0,
	StageInputReceived:    1,
	StageSearching:        2,
	StageScraping:         3,
	StageExtracting:       4,
	StageAnalyzing:        5,
	StageConsolidating:    6,
	StageGeneratingReport: 7,
	StageCompleted:        8,
}

// Order returns the stage position in the canonical sequence.
// Error has no position: it is reachable from any non-terminal stage.
func (s Stage) Order() (int, bool) {
	order, ok := stageOrder[s]
	return order, ok
}

// Terminal reports whether the run stops at this stage.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageError
}

// Known reports whether the stage belongs to the pipeline at all.
func (s Stage) Known() bool {
	if s == StageError {
		return true
	}
	_, ok := stageOrder[s]
	return ok
}
