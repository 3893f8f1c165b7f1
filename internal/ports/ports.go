package ports

import (
	"context"

	"VentureScanner/internal/domain"
)

// Intake validates raw input, classifies the industry, and generates the
// search queries. Missing required fields surface as an error (hard failure).
type Intake interface {
	Process(ctx context.Context, raw domain.RawInput) (domain.StructuredInput, error)
}

// Searcher executes the generated queries and returns ranked hits.
// Per-query failures degrade to fewer results, never to an error.
type Searcher interface {
	Search(ctx context.Context, queries []string) ([]domain.SearchResult, error)
}

// Scraper fetches and parses the given URLs, internally parallelized with a
// bounded worker pool. Partial results are allowed; all workers are joined
// before Scrape returns.
type Scraper interface {
	Scrape(ctx context.Context, urls []string) ([]domain.Page, error)
}

// Extractor distills entities, financial metrics, and keywords from pages.
type Extractor interface {
	Extract(ctx context.Context, pages []domain.Page) (domain.ExtractedData, error)
}

// FinancialAnalyzer scores financial viability from extracted data and the
// declared budget.
type FinancialAnalyzer interface {
	Analyze(ctx context.Context, data domain.ExtractedData, budget float64) (*domain.FinancialReport, error)
}

// MarketAnalyzer scores the market opportunity.
type MarketAnalyzer interface {
	Analyze(ctx context.Context, data domain.ExtractedData) (*domain.MarketReport, error)
}

// CompetitiveAnalyzer estimates competitive intensity and positioning.
type CompetitiveAnalyzer interface {
	Analyze(ctx context.Context, data domain.ExtractedData) (*domain.CompetitiveReport, error)
}

// Reporter renders the consolidated report into document artifacts.
// Either artifact existing is a usable outcome.
type Reporter interface {
	Render(ctx context.Context, report domain.ConsolidatedReport) (domain.ReportArtifacts, error)
}

// SnapshotStore persists the terminal run snapshot.
type SnapshotStore interface {
	Save(ctx context.Context, snapshot domain.RunSnapshot) error
}
