package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

var featureSignals = []string{
	"api", "mobile", "ai", "automation", "integration", "analytics", "dashboard",
}

// CompetitiveAgent estimates market crowding from the organizations and
// feature keywords surfaced by extraction.
type CompetitiveAgent struct {
	cfg    config.AnalysisConfig
	logger *slog.Logger
}

var _ ports.CompetitiveAnalyzer = (*CompetitiveAgent)(nil)

// NewCompetitiveAgent builds the competitive analyzer.
func NewCompetitiveAgent(cfg config.AnalysisConfig, logger *slog.Logger) *CompetitiveAgent {
	return &CompetitiveAgent{cfg: cfg, logger: logger}
}

// Analyze clusters near-duplicate competitor names, classifies intensity
// from the cluster count, and derives SWOT and market gaps.
func (a *CompetitiveAgent) Analyze(_ context.Context, data domain.ExtractedData) (*domain.CompetitiveReport, error) {
	competitors := clusterEntities(data.Entities.Organizations)
	features := extractFeatures(data.Keywords)
	intensity := a.classifyIntensity(len(competitors))

	top := competitors
	if len(top) > 10 {
		top = top[:10]
	}

	report := &domain.CompetitiveReport{
		CompetitorsFound:     len(competitors),
		TopCompetitors:       top,
		CompetitiveIntensity: intensity,
		Swot:                 buildSwot(intensity, competitors, features),
		MarketGaps:           marketGaps(features, len(competitors)),
		Summary:              competitiveSummary(intensity),
	}

	if a.logger != nil {
		a.logger.Info("competitive analysis finished",
			"competitors", report.CompetitorsFound, "intensity", intensity)
	}
	return report, nil
}

// clusterEntities drops names that are near-duplicates (similarity > 0.85)
// of an already kept one.
func clusterEntities(names []string) []string {
	var clustered []string
	for _, name := range names {
		duplicate := false
		for _, kept := range clustered {
			if similarity(name, kept) > 0.85 {
				duplicate = true
				break
			}
		}
		if !duplicate {
			clustered = append(clustered, name)
		}
	}
	return clustered
}

// similarity is a normalized edit-distance ratio in [0,1].
func similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(a, b))/float64(longest)
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	previous := make([]int, len(rb)+1)
	current := make([]int, len(rb)+1)

	for j := range previous {
		previous[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		current[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			current[j] = min(previous[j]+1, min(current[j-1]+1, previous[j-1]+cost))
		}
		previous, current = current, previous
	}
	return previous[len(rb)]
}

func extractFeatures(keywords []string) map[string]int {
	features := map[string]int{}
	for _, keyword := range keywords {
		lower := strings.ToLower(keyword)
		for _, signal := range featureSignals {
			if strings.Contains(lower, signal) {
				features[lower]++
				break
			}
		}
	}
	return features
}

func (a *CompetitiveAgent) classifyIntensity(count int) domain.Intensity {
	lowMax := a.cfg.CompetitorLowMax
	if lowMax <= 0 {
		lowMax = 5
	}
	mediumMax := a.cfg.CompetitorMediumMax
	if mediumMax <= 0 {
		mediumMax = 15
	}

	switch {
	case count < lowMax:
		return domain.IntensityLow
	case count <= mediumMax:
		return domain.IntensityMedium
	default:
		return domain.IntensityHigh
	}
}

func buildSwot(intensity domain.Intensity, competitors []string, features map[string]int) domain.SwotAnalysis {
	swot := domain.SwotAnalysis{}

	if len(competitors) >= 5 {
		swot.Strengths = append(swot.Strengths, "Market validated by multiple competitors.")
	}
	if intensity == domain.IntensityHigh {
		swot.Weaknesses = append(swot.Weaknesses, "Highly saturated market.")
		swot.Threats = append(swot.Threats, "Strong established competitors with market dominance.")
	}
	if _, ok := features["ai automation"]; !ok {
		swot.Opportunities = append(swot.Opportunities, "AI features underutilized in competitors.")
	}
	if len(swot.Opportunities) == 0 {
		swot.Opportunities = append(swot.Opportunities, "Explore niche positioning strategies.")
	}
	return swot
}

func marketGaps(features map[string]int, competitorCount int) []string {
	var gaps []string
	for feature, count := range features {
		if competitorCount > 0 && float64(count)/float64(competitorCount) < 0.3 {
			gaps = append(gaps, fmt.Sprintf("%s present in few competitors.", feature))
		}
	}
	sort.Strings(gaps)
	if len(gaps) == 0 {
		gaps = append(gaps, "No obvious feature gaps identified.")
	}
	if len(gaps) > 5 {
		gaps = gaps[:5]
	}
	return gaps
}

func competitiveSummary(intensity domain.Intensity) string {
	switch intensity {
	case domain.IntensityHigh:
		return "Market is highly competitive with significant rivalry."
	case domain.IntensityMedium:
		return "Moderate competition with room for differentiation."
	default:
		return "Low competition environment. Opportunity to capture early market share."
	}
}
