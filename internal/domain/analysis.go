package domain

// Intensity is the categorical estimate of market crowding.
type Intensity string

const (
	IntensityLow    Intensity = "Low"
	IntensityMedium Intensity = "Medium"
	IntensityHigh   Intensity = "High"
)

// SentimentLabel classifies aggregate industry sentiment.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNeutral  SentimentLabel = "Neutral"
	SentimentNegative SentimentLabel = "Negative"
)

// FinancialMetricsSummary holds the derived figures behind the viability score.
type FinancialMetricsSummary struct {
	TotalEstimatedCost float64 `json:"total_estimated_cost"`
	MonthlyBurn        float64 `json:"monthly_burn"`
	EstimatedRevenue   float64 `json:"estimated_revenue"`
	GrowthRate         float64 `json:"growth_rate"`
}

// FinancialReport is the financial analysis collaborator's output.
type FinancialReport struct {
	Metrics         FinancialMetricsSummary `json:"metrics"`
	RunwayMonths    float64                 `json:"runway_months"`
	ViabilityScore  float64                 `json:"viability_score"`
	Risks           []string                `json:"risks"`
	Recommendations []string                `json:"recommendations"`
	Summary         string                  `json:"summary"`
}

// MarketSize is the addressable-market estimate in a fixed currency.
type MarketSize struct {
	Global   float64 `json:"global"`
	Currency string  `json:"currency"`
}

// TamSamSom breaks the market size down by reachability.
type TamSamSom struct {
	TAM         float64 `json:"tam"`
	SAM         float64 `json:"sam"`
	SOM         float64 `json:"som"`
	Assumptions string  `json:"assumptions"`
}

// Sentiment carries the keyword-derived sentiment signal.
type Sentiment struct {
	Score           float64        `json:"score"`
	Label           SentimentLabel `json:"label"`
	PositiveSignals int            `json:"positive_signals"`
	NegativeSignals int            `json:"negative_signals"`
}

// MarketReport is the market analysis collaborator's output.
type MarketReport struct {
	MarketSize       MarketSize `json:"market_size"`
	TamSamSom        TamSamSom  `json:"tam_sam_som"`
	GrowthRate       float64    `json:"growth_rate"`
	Sentiment        Sentiment  `json:"sentiment"`
	OpportunityScore float64    `json:"opportunity_score"`
	KeyInsights      []string   `json:"key_insights"`
	Summary          string     `json:"summary"`
}

// SwotAnalysis lists the four classic quadrants.
type SwotAnalysis struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// CompetitiveReport is the competitive analysis collaborator's output.
type CompetitiveReport struct {
	CompetitorsFound     int          `json:"competitors_found"`
	TopCompetitors       []string     `json:"top_competitors"`
	CompetitiveIntensity Intensity    `json:"competitive_intensity"`
	Swot                 SwotAnalysis `json:"swot_analysis"`
	MarketGaps           []string     `json:"market_gaps"`
	Summary              string       `json:"summary"`
}

// AnalysisResults collects the per-domain reports handed to consolidation.
// A nil report means the domain is absent: its score defaults during the
// merge and its risk triggers cannot fire.
type AnalysisResults struct {
	Financial   *FinancialReport   `json:"financial,omitempty"`
	Market      *MarketReport      `json:"market,omitempty"`
	Competitive *CompetitiveReport `json:"competitive,omitempty"`
}

// Empty reports whether every analysis domain is absent.
func (r AnalysisResults) Empty() bool {
	return r.Financial == nil && r.Market == nil && r.Competitive == nil
}
