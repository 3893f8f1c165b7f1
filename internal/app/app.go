// Package app wires configuration into a runnable application.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"

	_ "github.com/lib/pq"

	"VentureScanner/internal/cache"
	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/infrastructure/analysis"
	"VentureScanner/internal/infrastructure/extract"
	"VentureScanner/internal/infrastructure/intake"
	"VentureScanner/internal/infrastructure/report"
	"VentureScanner/internal/infrastructure/scrape"
	"VentureScanner/internal/infrastructure/search"
	"VentureScanner/internal/infrastructure/storage"
	"VentureScanner/internal/logging"
	"VentureScanner/internal/ports"
	"VentureScanner/internal/usecase"
)

// Application holds the wired orchestrator and the resources it owns.
type Application struct {
	cfg          config.Config
	logger       *slog.Logger
	orchestrator *usecase.Orchestrator
	closers      []func() error
}

// New builds the full adapter graph from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	application := &Application{cfg: cfg, logger: baseLogger}

	store, err := application.openCache()
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	snapshots, err := application.openSnapshotStore()
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	application.orchestrator = usecase.NewOrchestrator(usecase.OrchestratorDeps{
		Intake:      intake.NewAgent(baseLogger.With("component", "intake")),
		Searcher:    search.NewClient(cfg.Search, baseLogger.With("component", "search")),
		Scraper:     scrape.NewScraper(cfg.Scrape, nil, store, baseLogger.With("component", "scrape")),
		Extractor:   extract.NewEngine(baseLogger.With("component", "extract")),
		Financial:   analysis.NewFinancialAgent(cfg.Analysis, baseLogger.With("component", "analysis.financial")),
		Market:      analysis.NewMarketAgent(baseLogger.With("component", "analysis.market")),
		Competitive: analysis.NewCompetitiveAgent(cfg.Analysis, baseLogger.With("component", "analysis.competitive")),
		Reporter:    report.NewRenderer(cfg.Report, baseLogger.With("component", "report")),
		Snapshots:   snapshots,
		Cache:       store,
		Logger:      baseLogger.With("component", "orchestrator"),
		MinPages:    cfg.Scrape.MinPages,
		MinAnalyses: cfg.Analysis.MinSuccessful,
	})
	return application, nil
}

func (a *Application) openCache() (cache.Store, error) {
	switch a.cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryStore(a.cfg.Cache.TTLs()), nil
	case "badger":
		store, err := cache.OpenBadgerStore(a.cfg.Cache.Dir, a.cfg.Cache.TTLs(),
			a.logger.With("component", "cache"))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return cache.NewFileStore(a.cfg.Cache.Dir, a.cfg.Cache.TTLs(),
			a.logger.With("component", "cache")), nil
	}
}

// openSnapshotStore prefers Postgres when a DSN is configured and falls back
// to one JSON file per run next to the cache directory.
func (a *Application) openSnapshotStore() (ports.SnapshotStore, error) {
	if dsn := a.cfg.Database.DSN; dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return storage.NewPostgresRepository(db), nil
	}
	return storage.NewFileStore(filepath.Join(a.cfg.Cache.Dir, "..", "snapshots")), nil
}

// Run executes one analysis run and returns its terminal snapshot.
func (a *Application) Run(ctx context.Context, raw domain.RawInput) (domain.RunSnapshot, error) {
	return a.orchestrator.Run(ctx, raw)
}

// Close releases owned resources in reverse acquisition order.
func (a *Application) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
