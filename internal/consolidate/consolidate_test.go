package consolidate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"VentureScanner/internal/domain"
)

func fullResults() domain.AnalysisResults {
	return domain.AnalysisResults{
		Financial: &domain.FinancialReport{
			ViabilityScore: 0.8,
			RunwayMonths:   4,
		},
		Market: &domain.MarketReport{
			OpportunityScore: 0.8,
			GrowthRate:       12,
			Sentiment:        domain.Sentiment{Label: domain.SentimentPositive},
		},
		Competitive: &domain.CompetitiveReport{
			CompetitiveIntensity: domain.IntensityHigh,
		},
	}
}

func TestConsolidateAppliesPenaltyBeforeClassification(t *testing.T) {
	t.Parallel()

	// raw = 0.4*0.8 + 0.3*0.8 + 0.3*0.3 = 0.65
	// flags: runway < 6 (High) and high intensity (High) => penalty 0.10
	report, err := Consolidate(fullResults())
	if err != nil {
		t.Fatalf("consolidate: %v", err)
	}

	if report.OverallScore != 0.55 {
		t.Fatalf("overall must be the adjusted score: got %v, want 0.55", report.OverallScore)
	}
	if report.Metadata.RiskPenaltyApplied != 0.1 {
		t.Fatalf("penalty: got %v, want 0.1", report.Metadata.RiskPenaltyApplied)
	}
	if report.Rating != domain.RatingModerate {
		t.Fatalf("rating must come from the adjusted score: got %s", report.Rating)
	}
	if report.Decision != domain.DecisionWithCaution {
		t.Fatalf("decision must come from the adjusted score: got %s", report.Decision)
	}
	if len(report.Risks) != 2 {
		t.Fatalf("expected 2 risk flags, got %d: %v", len(report.Risks), report.Risks)
	}
}

func TestConsolidateWeights(t *testing.T) {
	t.Parallel()

	report, err := Consolidate(fullResults())
	if err != nil {
		t.Fatalf("consolidate: %v", err)
	}

	weights := report.Metadata.Weights
	if weights["financial"] != 0.4 || weights["market"] != 0.3 || weights["competitive"] != 0.3 {
		t.Fatalf("unexpected weights: %v", weights)
	}

	var sum float64
	for _, weight := range weights {
		sum += weight
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("weights must sum to 1, got %v", sum)
	}
}

func TestConsolidateDefaultsAbsentDomains(t *testing.T) {
	t.Parallel()

	// Only financial present, with nothing to score: every component is 0.
	report, err := Consolidate(domain.AnalysisResults{
		Financial: &domain.FinancialReport{},
	})
	if err != nil {
		t.Fatalf("consolidate: %v", err)
	}

	if report.FinancialScore != 0 || report.MarketScore != 0 || report.CompetitiveScore != 0 {
		t.Fatalf("absent domains must score 0: %+v", report)
	}
	if report.OverallScore != 0 {
		t.Fatalf("overall: got %v, want 0", report.OverallScore)
	}
	if report.Rating != domain.RatingWeak {
		t.Fatalf("rating: got %s, want Weak", report.Rating)
	}
	if report.Decision != domain.DecisionReevaluate {
		t.Fatalf("decision: got %s, want Re-evaluate", report.Decision)
	}
}

func TestConsolidateRejectsEmptyResults(t *testing.T) {
	t.Parallel()

	_, err := Consolidate(domain.AnalysisResults{})
	if !errors.Is(err, ErrNoAnalysisResults) {
		t.Fatalf("expected ErrNoAnalysisResults, got %v", err)
	}
}

func TestCompetitiveScoreDefaults(t *testing.T) {
	t.Parallel()

	if got := extractCompetitiveScore(nil); got != 0 {
		t.Fatalf("absent report: got %v, want 0", got)
	}

	unknown := &domain.CompetitiveReport{CompetitiveIntensity: domain.Intensity("Extreme")}
	if got := extractCompetitiveScore(unknown); got != 0.6 {
		t.Fatalf("unknown label: got %v, want 0.6 (medium)", got)
	}

	low := &domain.CompetitiveReport{CompetitiveIntensity: domain.IntensityLow}
	if got := extractCompetitiveScore(low); got != 0.9 {
		t.Fatalf("low intensity: got %v, want 0.9", got)
	}
}

func TestPenaltyClampsAtZero(t *testing.T) {
	t.Parallel()

	results := domain.AnalysisResults{
		Financial: &domain.FinancialReport{ViabilityScore: 0, RunwayMonths: 3},
		Market: &domain.MarketReport{
			OpportunityScore: 0,
			Sentiment:        domain.Sentiment{Label: domain.SentimentNegative},
		},
		Competitive: &domain.CompetitiveReport{CompetitiveIntensity: domain.IntensityHigh},
	}

	// raw = 0.3*0.3 = 0.09, penalty = 0.05 + 0.02 + 0.05 = 0.12
	report, err := Consolidate(results)
	if err != nil {
		t.Fatalf("consolidate: %v", err)
	}
	if report.OverallScore != 0 {
		t.Fatalf("adjusted score must clamp at 0, got %v", report.OverallScore)
	}
	if report.Metadata.RiskPenaltyApplied != 0.12 {
		t.Fatalf("penalty: got %v, want 0.12", report.Metadata.RiskPenaltyApplied)
	}
}

func TestRatingBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		adjusted float64
		rating   domain.Rating
		decision domain.Decision
	}{
		{0.7, domain.RatingStrong, domain.DecisionProceed},
		{0.69, domain.RatingModerate, domain.DecisionWithCaution},
		{0.5, domain.RatingModerate, domain.DecisionWithCaution},
		{0.49, domain.RatingWeak, domain.DecisionReevaluate},
		{0, domain.RatingWeak, domain.DecisionReevaluate},
	}
	for _, tc := range cases {
		if got := classifyRating(tc.adjusted); got != tc.rating {
			t.Fatalf("rating(%v): got %s, want %s", tc.adjusted, got, tc.rating)
		}
		if got := makeDecision(tc.adjusted); got != tc.decision {
			t.Fatalf("decision(%v): got %s, want %s", tc.adjusted, got, tc.decision)
		}
	}
}

func TestHighRiskRecommendationsNameTheDomain(t *testing.T) {
	t.Parallel()

	report, err := Consolidate(fullResults())
	if err != nil {
		t.Fatalf("consolidate: %v", err)
	}

	var mitigations []string
	for _, rec := range report.Recommendations {
		if strings.Contains(rec, "Immediate mitigation required") {
			mitigations = append(mitigations, rec)
		}
	}
	if len(mitigations) != 2 {
		t.Fatalf("expected one mitigation per High flag, got %v", mitigations)
	}
	joined := strings.Join(mitigations, " ")
	if !strings.Contains(joined, "financial") || !strings.Contains(joined, "competitive") {
		t.Fatalf("mitigations must name the flagged domains: %v", mitigations)
	}
}

func TestSummaryMentionsAvailableSignals(t *testing.T) {
	t.Parallel()

	report, err := Consolidate(fullResults())
	if err != nil {
		t.Fatalf("consolidate: %v", err)
	}

	if !strings.Contains(report.Summary, "moderate viability") {
		t.Fatalf("summary should carry the rating: %s", report.Summary)
	}
	if !strings.Contains(report.Summary, "4.0 months") {
		t.Fatalf("summary should carry the runway: %s", report.Summary)
	}
	if !strings.Contains(report.Summary, "12.0%") {
		t.Fatalf("summary should carry the growth rate: %s", report.Summary)
	}
}
