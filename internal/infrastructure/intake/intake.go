package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

// industryCategories maps keywords found in free-form industry text onto
// canonical categories.
var industryCategories = []struct {
	keyword  string
	category string
}{
	{"saas", "SaaS"},
	{"software", "SaaS"},
	{"fintech", "FinTech"},
	{"bank", "FinTech"},
	{"health", "HealthTech"},
	{"medical", "HealthTech"},
	{"education", "EdTech"},
	{"ecommerce", "E-Commerce"},
	{"retail", "E-Commerce"},
}

// Agent validates raw input and enriches it with classification and
// generated search queries.
type Agent struct {
	logger *slog.Logger
}

var _ ports.Intake = (*Agent)(nil)

// NewAgent builds the intake collaborator.
func NewAgent(logger *slog.Logger) *Agent {
	return &Agent{logger: logger}
}

// Process validates required fields and produces the structured input that
// drives the rest of the pipeline. Validation failures are hard: the caller
// cannot proceed without them.
func (a *Agent) Process(_ context.Context, raw domain.RawInput) (domain.StructuredInput, error) {
	if err := validate(raw); err != nil {
		return domain.StructuredInput{}, err
	}

	structured := domain.StructuredInput{
		BusinessIdea:     strings.TrimSpace(raw.BusinessIdea),
		Industry:         strings.TrimSpace(raw.Industry),
		IndustryCategory: classifyIndustry(raw.Industry),
		AnalysisDomains:  expandAnalysisDomains(raw.AnalysisType),
		Budget:           raw.Budget,
		TimelineMonths:   raw.TimelineMonths,
		TargetMarket:     strings.TrimSpace(raw.TargetMarket),
		TeamSize:         raw.TeamSize,
	}
	structured.SearchQueries = generateSearchQueries(structured)

	if a.logger != nil {
		a.logger.Info("intake processed",
			"category", structured.IndustryCategory,
			"domains", len(structured.AnalysisDomains),
			"queries", len(structured.SearchQueries))
	}
	return structured, nil
}

func validate(raw domain.RawInput) error {
	var missing []string
	if strings.TrimSpace(raw.BusinessIdea) == "" {
		missing = append(missing, "business_idea")
	}
	if strings.TrimSpace(raw.Industry) == "" {
		missing = append(missing, "industry")
	}
	if raw.Budget <= 0 {
		missing = append(missing, "budget")
	}
	if raw.TimelineMonths <= 0 {
		missing = append(missing, "timeline_months")
	}
	if len(missing) > 0 {
		return fmt.Errorf("intake: missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func classifyIndustry(industry string) string {
	industry = strings.ToLower(industry)
	for _, entry := range industryCategories {
		if strings.Contains(industry, entry.keyword) {
			return entry.category
		}
	}
	return "Other"
}

func expandAnalysisDomains(analysisType string) []string {
	analysisType = strings.ToLower(strings.TrimSpace(analysisType))
	if analysisType == "" || analysisType == "all" {
		return []string{"financial", "market", "competitive"}
	}
	return []string{analysisType}
}

func generateSearchQueries(input domain.StructuredInput) []string {
	market := input.TargetMarket
	if market == "" {
		market = "global"
	}

	var queries []string
	for _, analysisDomain := range input.AnalysisDomains {
		switch analysisDomain {
		case "financial":
			queries = append(queries,
				fmt.Sprintf("%s startup costs %s", input.BusinessIdea, input.Industry),
				fmt.Sprintf("%s revenue profit margins %s", input.Industry, market))
		case "competitive":
			queries = append(queries,
				fmt.Sprintf("%s competitors in %s", input.BusinessIdea, input.Industry),
				fmt.Sprintf("%s top companies %s", input.Industry, market))
		case "market":
			queries = append(queries,
				fmt.Sprintf("%s market size %s", input.Industry, market),
				fmt.Sprintf("%s industry trends %d month forecast", input.Industry, input.TimelineMonths))
		}
	}
	return queries
}
