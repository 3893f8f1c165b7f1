package domain

// RawInput is the unvalidated intake payload describing a business idea.
type RawInput struct {
	BusinessIdea   string  `json:"business_idea"`
	Industry       string  `json:"industry"`
	Budget         float64 `json:"budget"`
	TimelineMonths int     `json:"timeline_months"`
	TargetMarket   string  `json:"target_market"`
	TeamSize       int     `json:"team_size"`
	AnalysisType   string  `json:"analysis_type"`
}

// StructuredInput is the intake collaborator's validated and enriched output.
type StructuredInput struct {
	BusinessIdea     string   `json:"business_idea"`
	Industry         string   `json:"industry"`
	IndustryCategory string   `json:"industry_category"`
	AnalysisDomains  []string `json:"analysis_domains"`
	Budget           float64  `json:"budget"`
	TimelineMonths   int      `json:"timeline_months"`
	TargetMarket     string   `json:"target_market"`
	TeamSize         int      `json:"team_size"`
	SearchQueries    []string `json:"search_queries"`
}

// SearchResult is one ranked hit returned by the search collaborator.
type SearchResult struct {
	Query   string  `json:"query"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// Heading is a single hN element captured from a scraped page.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Page is the structured content of one scraped URL.
type Page struct {
	URL      string     `json:"url"`
	Title    string     `json:"title"`
	Text     string     `json:"text"`
	Headings []Heading  `json:"headings"`
	Tables   [][]string `json:"tables"`
}

// Entities groups named entities recognized across scraped pages.
type Entities struct {
	Organizations []string `json:"organizations"`
	People        []string `json:"people"`
	Locations     []string `json:"locations"`
}

// FinancialMetrics holds normalized figures classified by sentence context.
type FinancialMetrics struct {
	StartupCosts   []int64   `json:"startup_costs"`
	RevenueFigures []int64   `json:"revenue_figures"`
	FundingAmounts []int64   `json:"funding_amounts"`
	MarketSizes    []int64   `json:"market_sizes"`
	GrowthRates    []float64 `json:"growth_rates"`
}

// ExtractedData is the extraction collaborator's structured output.
type ExtractedData struct {
	Entities         Entities         `json:"entities"`
	FinancialMetrics FinancialMetrics `json:"financial_metrics"`
	Keywords         []string         `json:"keywords"`
}

// EmptyExtractedData returns the minimal valid structure substituted when
// extraction degrades. All collections are initialized and empty.
func EmptyExtractedData() ExtractedData {
	return ExtractedData{
		Entities: Entities{
			Organizations: []string{},
			People:        []string{},
			Locations:     []string{},
		},
		FinancialMetrics: FinancialMetrics{
			StartupCosts:   []int64{},
			RevenueFigures: []int64{},
			FundingAmounts: []int64{},
			MarketSizes:    []int64{},
			GrowthRates:    []float64{},
		},
		Keywords: []string{},
	}
}

// Empty reports whether extraction produced no usable signal at all.
func (d ExtractedData) Empty() bool {
	return len(d.Entities.Organizations) == 0 &&
		len(d.Keywords) == 0 &&
		len(d.FinancialMetrics.StartupCosts) == 0 &&
		len(d.FinancialMetrics.RevenueFigures) == 0 &&
		len(d.FinancialMetrics.FundingAmounts) == 0 &&
		len(d.FinancialMetrics.MarketSizes) == 0 &&
		len(d.FinancialMetrics.GrowthRates) == 0
}
