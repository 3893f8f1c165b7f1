package analysis

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

var positiveSignals = []string{
	"growth", "expanding", "rising", "demand", "opportunity", "adoption", "increase",
}

var negativeSignals = []string{
	"decline", "falling", "crisis", "saturation", "risk", "challenging",
}

// MarketAgent scores the market opportunity from market size, growth, and
// keyword sentiment.
type MarketAgent struct {
	logger *slog.Logger
}

var _ ports.MarketAnalyzer = (*MarketAgent)(nil)

// NewMarketAgent builds the market analyzer.
func NewMarketAgent(logger *slog.Logger) *MarketAgent {
	return &MarketAgent{logger: logger}
}

// Analyze estimates TAM/SAM/SOM, keyword sentiment, and the opportunity
// score from the extracted metrics.
func (a *MarketAgent) Analyze(_ context.Context, data domain.ExtractedData) (*domain.MarketReport, error) {
	tam := meanInts(data.FinancialMetrics.MarketSizes)
	growth := meanFloats(data.FinancialMetrics.GrowthRates)
	sentiment := analyzeSentiment(data.Keywords)
	score := opportunityScore(tam, growth, sentiment.Score)

	report := &domain.MarketReport{
		MarketSize: domain.MarketSize{Global: tam, Currency: "USD"},
		TamSamSom: domain.TamSamSom{
			TAM:         tam,
			SAM:         tam * 0.3,
			SOM:         tam * 0.3 * 0.03,
			Assumptions: "SAM = 30% of TAM, SOM = 3% of SAM",
		},
		GrowthRate:       growth,
		Sentiment:        sentiment,
		OpportunityScore: round2(score),
		KeyInsights:      marketInsights(tam, growth, sentiment),
		Summary:          marketSummary(score),
	}

	if a.logger != nil {
		a.logger.Info("market analysis finished",
			"opportunity", report.OpportunityScore, "sentiment", sentiment.Label)
	}
	return report, nil
}

// analyzeSentiment counts positive and negative signal words among the
// extracted keywords; the label cuts at ±0.2.
func analyzeSentiment(keywords []string) domain.Sentiment {
	var positive, negative int
	for _, keyword := range keywords {
		lower := strings.ToLower(keyword)
		if matchesAny(lower, positiveSignals) {
			positive++
		}
		if matchesAny(lower, negativeSignals) {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		total = 1
	}
	score := float64(positive-negative) / float64(total)

	label := domain.SentimentNeutral
	switch {
	case score > 0.2:
		label = domain.SentimentPositive
	case score < -0.2:
		label = domain.SentimentNegative
	}

	return domain.Sentiment{
		Score:           score,
		Label:           label,
		PositiveSignals: positive,
		NegativeSignals: negative,
	}
}

func opportunityScore(tam, growth, sentimentScore float64) float64 {
	var score float64

	switch {
	case tam > 10_000_000_000:
		score += 0.4
	case tam > 1_000_000_000:
		score += 0.3
	}

	switch {
	case growth > 10:
		score += 0.3
	case growth > 5:
		score += 0.2
	}

	switch {
	case sentimentScore > 0.2:
		score += 0.3
	case sentimentScore > 0:
		score += 0.2
	}
	return math.Min(score, 1)
}

func marketInsights(tam, growth float64, sentiment domain.Sentiment) []string {
	var insights []string
	if tam > 0 {
		insights = append(insights, "Large addressable market identified.")
	}
	if growth > 5 {
		insights = append(insights, "Market shows strong growth trends.")
	}
	if sentiment.Label == domain.SentimentPositive {
		insights = append(insights, "Industry sentiment is favorable.")
	}
	if len(insights) == 0 {
		insights = append(insights, "Limited market signals detected.")
	}
	return insights
}

func marketSummary(score float64) string {
	switch {
	case score >= 0.7:
		return "Strong market opportunity with favorable growth and sentiment."
	case score >= 0.5:
		return "Moderate market opportunity. Further validation required."
	default:
		return "Limited market opportunity. High caution advised."
	}
}

func matchesAny(text string, signals []string) bool {
	for _, signal := range signals {
		if strings.Contains(text, signal) {
			return true
		}
	}
	return false
}
