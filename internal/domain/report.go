package domain

import "time"

// RiskCategory names the analysis domain a risk flag originates from.
type RiskCategory string

const (
	RiskFinancial   RiskCategory = "Financial"
	RiskCompetitive RiskCategory = "Competitive"
	RiskMarket      RiskCategory = "Market"
)

// Severity grades a risk flag.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Rating classifies the risk-adjusted overall score.
type Rating string

const (
	RatingStrong   Rating = "Strong"
	RatingModerate Rating = "Moderate"
	RatingWeak     Rating = "Weak"
)

// Decision is the investment recommendation derived from the rating bracket.
type Decision string

const (
	DecisionProceed     Decision = "Proceed"
	DecisionWithCaution Decision = "Proceed with Caution"
	DecisionReevaluate  Decision = "Re-evaluate"
)

// RiskFlag is a single aggregated risk signal.
type RiskFlag struct {
	Category RiskCategory `json:"category"`
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
}

// ReportMetadata records how the consolidated score was produced.
type ReportMetadata struct {
	GeneratedAt        time.Time          `json:"generated_at"`
	Weights            map[string]float64 `json:"weights"`
	RiskPenaltyApplied float64            `json:"risk_penalty_applied"`
	Advisories         []string           `json:"advisories,omitempty"`
}

// ConsolidatedReport merges the three domain analyses into one decision.
// OverallScore is always the risk-adjusted score, never the raw weighted sum.
type ConsolidatedReport struct {
	FinancialScore   float64        `json:"financial_score"`
	MarketScore      float64        `json:"market_score"`
	CompetitiveScore float64        `json:"competitive_score"`
	OverallScore     float64        `json:"overall_score"`
	Rating           Rating         `json:"rating"`
	Risks            []RiskFlag     `json:"risks"`
	Recommendations  []string       `json:"recommendations"`
	Summary          string         `json:"summary"`
	Decision         Decision       `json:"decision"`
	Metadata         ReportMetadata `json:"metadata"`
}

// ReportArtifacts holds the rendered document paths. An empty path means the
// artifact was not produced; either one existing is a usable outcome.
type ReportArtifacts struct {
	PDF string `json:"pdf,omitempty"`
	PPT string `json:"ppt,omitempty"`
}

// Empty reports whether rendering produced nothing at all.
func (a ReportArtifacts) Empty() bool {
	return a.PDF == "" && a.PPT == ""
}

// RunSnapshot is the immutable record persisted when a run terminates.
type RunSnapshot struct {
	RunID    string         `json:"run_id"`
	Stage    Stage          `json:"stage"`
	Progress int            `json:"progress"`
	Data     map[string]any `json:"data"`
	Errors   []string       `json:"errors"`
}
