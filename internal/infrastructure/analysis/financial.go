// Package analysis implements the three domain-scoring heuristics consumed
// by the consolidation engine.
package analysis

import (
	"context"
	"log/slog"
	"math"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

// FinancialAgent scores financial viability from burn, growth, and revenue
// signals against the declared budget.
type FinancialAgent struct {
	cfg    config.AnalysisConfig
	logger *slog.Logger
}

var _ ports.FinancialAnalyzer = (*FinancialAgent)(nil)

// NewFinancialAgent builds the financial analyzer.
func NewFinancialAgent(cfg config.AnalysisConfig, logger *slog.Logger) *FinancialAgent {
	return &FinancialAgent{cfg: cfg, logger: logger}
}

// Analyze derives runway from the budget and the estimated yearly cost,
// then scores viability from runway, growth, and revenue presence.
func (a *FinancialAgent) Analyze(_ context.Context, data domain.ExtractedData, budget float64) (*domain.FinancialReport, error) {
	totalCost := sumInts(data.FinancialMetrics.StartupCosts)
	revenue := meanInts(data.FinancialMetrics.RevenueFigures)
	growth := meanFloats(data.FinancialMetrics.GrowthRates)

	var monthlyBurn, runway float64
	if totalCost > 0 {
		monthlyBurn = totalCost / 12
		runway = budget / monthlyBurn
	}

	score := a.viabilityScore(runway, growth, revenue)

	report := &domain.FinancialReport{
		Metrics: domain.FinancialMetricsSummary{
			TotalEstimatedCost: totalCost,
			MonthlyBurn:        monthlyBurn,
			EstimatedRevenue:   revenue,
			GrowthRate:         growth,
		},
		RunwayMonths:    round2(runway),
		ViabilityScore:  round2(score),
		Risks:           a.financialRisks(runway, growth),
		Recommendations: a.recommendations(runway, score),
		Summary:         a.summary(score),
	}

	if a.logger != nil {
		a.logger.Info("financial analysis finished",
			"runway_months", report.RunwayMonths, "viability", report.ViabilityScore)
	}
	return report, nil
}

func (a *FinancialAgent) viabilityScore(runway, growth, revenue float64) float64 {
	var score float64

	switch {
	case runway > 18:
		score += 0.3
	case runway > a.cfg.HealthyRunwayMonths:
		score += 0.2
	}

	if growth > a.cfg.StrongGrowthPct {
		score += 0.3
	}
	if revenue > 0 {
		score += 0.2
	}
	return math.Min(score, 1)
}

func (a *FinancialAgent) financialRisks(runway, growth float64) []string {
	var risks []string
	if runway < a.cfg.HealthyRunwayMonths {
		risks = append(risks, "Runway below healthy threshold (12 months).")
	}
	if growth < 5 {
		risks = append(risks, "Low projected growth rate.")
	}
	if len(risks) == 0 {
		risks = append(risks, "No major financial risks detected.")
	}
	return risks
}

func (a *FinancialAgent) recommendations(runway, score float64) []string {
	var recs []string
	if runway < a.cfg.HealthyRunwayMonths {
		recs = append(recs, "Seek additional funding to extend runway.")
	}
	if score < a.cfg.LowViability {
		recs = append(recs, "Reduce operational costs and prioritize MVP.")
	}
	if score >= a.cfg.HighViability {
		recs = append(recs, "Financial outlook strong. Proceed with expansion strategy.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Monitor financial metrics regularly.")
	}
	return recs
}

func (a *FinancialAgent) summary(score float64) string {
	switch {
	case score >= a.cfg.HighViability:
		return "Strong financial viability with sufficient runway and growth."
	case score >= a.cfg.LowViability:
		return "Moderate financial outlook. Some improvements needed."
	default:
		return "Financial viability is weak. High caution recommended."
	}
}

func sumInts(values []int64) float64 {
	var sum float64
	for _, value := range values {
		sum += float64(value)
	}
	return sum
}

func meanInts(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sumInts(values) / float64(len(values))
}

func meanFloats(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
