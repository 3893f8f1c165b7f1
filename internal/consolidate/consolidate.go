// Package consolidate merges the three domain analyses into a single
// risk-adjusted decision. Consolidate is a pure function: it touches neither
// the run state nor the cache.
package consolidate

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"VentureScanner/internal/domain"
)

// Blend weights. They sum to 1.0.
const (
	weightFinancial   = 0.4
	weightMarket      = 0.3
	weightCompetitive = 0.3
)

// Penalty per aggregated risk flag.
const (
	penaltyHigh   = 0.05
	penaltyMedium = 0.02
	penaltyLow    = 0.01
)

var intensityScores = map[domain.Intensity]float64{
	domain.IntensityLow:    0.9,
	domain.IntensityMedium: 0.6,
	domain.IntensityHigh:   0.3,
}

// ErrNoAnalysisResults signals a malformed input container: a run with no
// analysis domain at all cannot be consolidated. Absence of individual
// domains is defaulted instead.
var ErrNoAnalysisResults = errors.New("consolidate: no analysis results provided")

// Consolidate computes the weighted score merge, aggregates risk flags,
// applies the risk penalty, and classifies rating, decision,
// recommendations, and summary. Classification reads the adjusted score,
// never the raw weighted sum.
func Consolidate(results domain.AnalysisResults) (domain.ConsolidatedReport, error) {
	if results.Empty() {
		return domain.ConsolidatedReport{}, ErrNoAnalysisResults
	}

	financialScore := extractFinancialScore(results.Financial)
	marketScore := extractMarketScore(results.Market)
	competitiveScore := extractCompetitiveScore(results.Competitive)

	raw := weightFinancial*financialScore +
		weightMarket*marketScore +
		weightCompetitive*competitiveScore

	// Risk has to be priced in before anything is classified.
	risks := aggregateRisks(results)
	adjusted, penalty := applyRiskPenalty(raw, risks)

	rating := classifyRating(adjusted)

	return domain.ConsolidatedReport{
		FinancialScore:   round2(financialScore),
		MarketScore:      round2(marketScore),
		CompetitiveScore: round2(competitiveScore),
		OverallScore:     round2(adjusted),
		Rating:           rating,
		Risks:            risks,
		Recommendations:  buildRecommendations(adjusted, risks),
		Summary:          buildSummary(rating, results),
		Decision:         makeDecision(adjusted),
		Metadata: domain.ReportMetadata{
			GeneratedAt: time.Now().UTC(),
			Weights: map[string]float64{
				"financial":   weightFinancial,
				"market":      weightMarket,
				"competitive": weightCompetitive,
			},
			RiskPenaltyApplied: round3(penalty),
		},
	}, nil
}

func extractFinancialScore(report *domain.FinancialReport) float64 {
	if report == nil {
		return 0
	}
	return report.ViabilityScore
}

func extractMarketScore(report *domain.MarketReport) float64 {
	if report == nil {
		return 0
	}
	return report.OpportunityScore
}

// extractCompetitiveScore maps the categorical intensity onto a blendable
// score. An absent report scores 0; a present report with an unrecognized
// label falls back to Medium.
func extractCompetitiveScore(report *domain.CompetitiveReport) float64 {
	if report == nil {
		return 0
	}
	if score, ok := intensityScores[report.CompetitiveIntensity]; ok {
		return score
	}
	return intensityScores[domain.IntensityMedium]
}

func aggregateRisks(results domain.AnalysisResults) []domain.RiskFlag {
	var flags []domain.RiskFlag

	if financial := results.Financial; financial != nil {
		runway := financial.RunwayMonths
		switch {
		case runway > 0 && runway < 6:
			flags = append(flags, domain.RiskFlag{
				Category: domain.RiskFinancial,
				Severity: domain.SeverityHigh,
				Message:  "Runway below 6 months.",
			})
		case runway > 0 && runway < 12:
			flags = append(flags, domain.RiskFlag{
				Category: domain.RiskFinancial,
				Severity: domain.SeverityMedium,
				Message:  "Runway below 12 months.",
			})
		}
	}

	if competitive := results.Competitive; competitive != nil {
		if competitive.CompetitiveIntensity == domain.IntensityHigh {
			flags = append(flags, domain.RiskFlag{
				Category: domain.RiskCompetitive,
				Severity: domain.SeverityHigh,
				Message:  "Highly competitive market.",
			})
		}
	}

	if market := results.Market; market != nil {
		if market.Sentiment.Label == domain.SentimentNegative {
			flags = append(flags, domain.RiskFlag{
				Category: domain.RiskMarket,
				Severity: domain.SeverityMedium,
				Message:  "Negative industry sentiment detected.",
			})
		}
	}

	return flags
}

// applyRiskPenalty subtracts the summed flag penalties from the raw score
// and clamps the result into [0,1]. The clamp holds even when the penalty
// exceeds the raw score.
func applyRiskPenalty(raw float64, risks []domain.RiskFlag) (adjusted, penalty float64) {
	for _, risk := range risks {
		switch risk.Severity {
		case domain.SeverityHigh:
			penalty += penaltyHigh
		case domain.SeverityMedium:
			penalty += penaltyMedium
		case domain.SeverityLow:
			penalty += penaltyLow
		}
	}
	return math.Min(1, math.Max(0, raw-penalty)), penalty
}

func classifyRating(adjusted float64) domain.Rating {
	switch {
	case adjusted >= 0.7:
		return domain.RatingStrong
	case adjusted >= 0.5:
		return domain.RatingModerate
	default:
		return domain.RatingWeak
	}
}

func makeDecision(adjusted float64) domain.Decision {
	switch {
	case adjusted >= 0.7:
		return domain.DecisionProceed
	case adjusted >= 0.5:
		return domain.DecisionWithCaution
	default:
		return domain.DecisionReevaluate
	}
}

func buildRecommendations(adjusted float64, risks []domain.RiskFlag) []string {
	var recommendations []string

	switch {
	case adjusted >= 0.7:
		recommendations = append(recommendations, "Proceed aggressively with expansion strategy.")
	case adjusted >= 0.5:
		recommendations = append(recommendations, "Proceed with phased investment and controlled scaling.")
	default:
		recommendations = append(recommendations, "Re-evaluate business model before major investment.")
	}

	for _, risk := range risks {
		if risk.Severity == domain.SeverityHigh {
			recommendations = append(recommendations,
				fmt.Sprintf("Immediate mitigation required in %s domain.", strings.ToLower(string(risk.Category))))
		}
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Monitor performance metrics regularly.")
	}
	return recommendations
}

func buildSummary(rating domain.Rating, results domain.AnalysisResults) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The business opportunity demonstrates %s viability. ", strings.ToLower(string(rating)))

	if financial := results.Financial; financial != nil && financial.RunwayMonths > 0 {
		fmt.Fprintf(&b, "Financial runway is approximately %.1f months. ", financial.RunwayMonths)
	}
	if market := results.Market; market != nil && market.GrowthRate != 0 {
		fmt.Fprintf(&b, "Market growth is estimated at %.1f%% annually. ", market.GrowthRate)
	}
	if competitive := results.Competitive; competitive != nil && competitive.CompetitiveIntensity != "" {
		fmt.Fprintf(&b, "Competitive intensity is %s. ", strings.ToLower(string(competitive.CompetitiveIntensity)))
	}

	b.WriteString("Overall evaluation is based on weighted financial, market, and competitive analysis.")
	return b.String()
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
