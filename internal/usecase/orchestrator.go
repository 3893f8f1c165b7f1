// Package usecase drives a single analysis run through the pipeline stages.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"VentureScanner/internal/cache"
	"VentureScanner/internal/consolidate"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
	"VentureScanner/internal/runstate"
)

// Data bag keys recorded on the run snapshot.
const (
	keyStructuredInput  = "structured_input"
	keySearchResults    = "search_results"
	keyScrapedContent   = "scraped_content"
	keyExtractedData    = "extracted_data"
	keyAnalysisResults  = "analysis_results"
	keyConsolidated     = "consolidated_report"
	keyReportArtifacts  = "report_artifacts"
	flagScrapingPartial = "scraping_partial"
	flagExtractPartial  = "extraction_partial"
	flagAnalysisPartial = "analysis_partial"
)

// OrchestratorDeps wires all collaborators into the run controller.
type OrchestratorDeps struct {
	Intake      ports.Intake
	Searcher    ports.Searcher
	Scraper     ports.Scraper
	Extractor   ports.Extractor
	Financial   ports.FinancialAnalyzer
	Market      ports.MarketAnalyzer
	Competitive ports.CompetitiveAnalyzer
	Reporter    ports.Reporter
	Snapshots   ports.SnapshotStore
	Cache       cache.Store
	Logger      *slog.Logger

	// MinPages is the scrape volume below which the run degrades to partial.
	MinPages int
	// MinAnalyses is the number of analysis domains that must succeed for the
	// run to continue; below it the run fails hard.
	MinAnalyses int
}

// Orchestrator owns the stage machine of one run at a time. Each stage
// either advances the run or records a hard failure that forces it into the
// error stage; soft failures degrade the data and flag the snapshot instead.
type Orchestrator struct {
	deps OrchestratorDeps
}

// NewOrchestrator constructs the run controller.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	if deps.MinPages <= 0 {
		deps.MinPages = 3
	}
	if deps.MinAnalyses <= 0 {
		deps.MinAnalyses = 1
	}
	return &Orchestrator{deps: deps}
}

// run carries the typed intermediate products between stage handlers; the
// state data bag keeps the serializable copies for the snapshot.
type run struct {
	state   *runstate.State
	input   domain.StructuredInput
	results []domain.SearchResult
	pages   []domain.Page
	data    domain.ExtractedData
	reports domain.AnalysisResults
	report  domain.ConsolidatedReport
}

// Run executes the pipeline from intake to report for one raw input and
// returns the terminal snapshot. The snapshot is persisted on both outcomes;
// a persistence failure downgrades to a warning because the run itself has
// already finished.
func (o *Orchestrator) Run(ctx context.Context, raw domain.RawInput) (domain.RunSnapshot, error) {
	state := runstate.New(o.deps.Logger)
	r := &run{state: state}

	for !state.Stage().Terminal() {
		if err := ctx.Err(); err != nil {
			state.RecordError(fmt.Sprintf("run cancelled: %v", err))
			break
		}

		var err error
		switch state.Stage() {
		case domain.StageInitialized:
			err = o.handleIntake(ctx, r, raw)
		case domain.StageInputReceived:
			err = o.handleSearch(ctx, r)
		case domain.StageSearching:
			err = o.handleScrape(ctx, r)
		case domain.StageScraping:
			err = o.handleExtraction(ctx, r)
		case domain.StageExtracting:
			err = o.handleAnalysis(ctx, r)
		case domain.StageAnalyzing:
			err = o.handleConsolidation(ctx, r)
		case domain.StageConsolidating:
			err = o.handleReport(ctx, r)
		case domain.StageGeneratingReport:
			err = o.finish(r)
		default:
			err = fmt.Errorf("unexpected stage %s", state.Stage())
		}

		if err != nil {
			state.RecordError(err.Error())
		}
	}

	snapshot := state.Snapshot()
	if o.deps.Snapshots != nil {
		if err := o.deps.Snapshots.Save(ctx, snapshot); err != nil {
			if o.deps.Logger != nil {
				o.deps.Logger.Warn("snapshot persistence failed",
					"run_id", snapshot.RunID, "error", err)
			}
		}
	}

	if snapshot.Stage == domain.StageError {
		return snapshot, fmt.Errorf("run %s failed: %s", snapshot.RunID, lastError(snapshot.Errors))
	}
	return snapshot, nil
}

func lastError(errs []string) string {
	if len(errs) == 0 {
		return "unknown error"
	}
	return errs[len(errs)-1]
}

// handleIntake validates and enriches the raw input. Validation failure is a
// hard failure before any network work happens.
func (o *Orchestrator) handleIntake(ctx context.Context, r *run, raw domain.RawInput) error {
	input, err := o.deps.Intake.Process(ctx, raw)
	if err != nil {
		return fmt.Errorf("intake: %w", err)
	}

	r.input = input
	r.state.Put(keyStructuredInput, input)
	if err := r.state.Advance(domain.StageInputReceived); err != nil {
		return err
	}
	r.state.SetProgress(20)
	return nil
}

// handleSearch runs the generated queries. Zero results across every query
// leaves nothing to scrape and fails the run.
func (o *Orchestrator) handleSearch(ctx context.Context, r *run) error {
	if err := r.state.Advance(domain.StageSearching); err != nil {
		return err
	}

	results, err := o.deps.Searcher.Search(ctx, r.input.SearchQueries)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("search: no results for any query")
	}

	r.results = results
	r.state.Put(keySearchResults, results)
	r.state.SetProgress(40)
	return nil
}

// handleScrape fetches the result URLs. Zero pages is a hard failure; fewer
// pages than MinPages degrades to a flagged partial run.
func (o *Orchestrator) handleScrape(ctx context.Context, r *run) error {
	if err := r.state.Advance(domain.StageScraping); err != nil {
		return err
	}

	urls := make([]string, 0, len(r.results))
	for _, result := range r.results {
		urls = append(urls, result.URL)
	}

	pages, err := o.deps.Scraper.Scrape(ctx, urls)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("scrape: no pages could be fetched")
	}
	if len(pages) < o.deps.MinPages {
		r.state.Put(flagScrapingPartial, true)
		r.state.RecordWarning(fmt.Sprintf(
			"scrape: only %d of %d pages fetched, below minimum %d",
			len(pages), len(urls), o.deps.MinPages))
	}

	r.pages = pages
	r.state.Put(keyScrapedContent, pages)
	r.state.SetProgress(70)
	return nil
}

// handleExtraction distills the pages, consulting the extraction cache
// first. An extractor failure or an empty result degrades to the minimal
// structure instead of stopping the run.
func (o *Orchestrator) handleExtraction(ctx context.Context, r *run) error {
	if err := r.state.Advance(domain.StageExtracting); err != nil {
		return err
	}

	if cached, ok := o.cachedExtraction(); ok {
		r.data = cached
	} else {
		data, err := o.deps.Extractor.Extract(ctx, r.pages)
		if err != nil {
			r.state.Put(flagExtractPartial, true)
			r.state.RecordWarning(fmt.Sprintf("extraction: %v", err))
			data = domain.EmptyExtractedData()
		} else if data.Empty() {
			r.state.Put(flagExtractPartial, true)
			r.state.RecordWarning("extraction: no usable signal in scraped pages")
		} else {
			o.cacheSet(cache.DomainExtraction, cache.SingletonKey, data)
		}
		r.data = data
	}

	r.state.Put(keyExtractedData, r.data)
	r.state.SetProgress(75)
	return nil
}

// handleAnalysis runs the three domain analyzers. A failed analyzer leaves
// its domain absent; the run continues as long as MinAnalyses domains
// succeeded.
func (o *Orchestrator) handleAnalysis(ctx context.Context, r *run) error {
	if err := r.state.Advance(domain.StageAnalyzing); err != nil {
		return err
	}

	var results domain.AnalysisResults
	succeeded := 0

	if financial, err := o.deps.Financial.Analyze(ctx, r.data, r.input.Budget); err != nil {
		r.state.RecordWarning(fmt.Sprintf("financial analysis: %v", err))
	} else {
		results.Financial = financial
		succeeded++
	}

	if market, err := o.deps.Market.Analyze(ctx, r.data); err != nil {
		r.state.RecordWarning(fmt.Sprintf("market analysis: %v", err))
	} else {
		results.Market = market
		succeeded++
	}

	if competitive, err := o.deps.Competitive.Analyze(ctx, r.data); err != nil {
		r.state.RecordWarning(fmt.Sprintf("competitive analysis: %v", err))
	} else {
		results.Competitive = competitive
		succeeded++
	}

	if succeeded < o.deps.MinAnalyses {
		return fmt.Errorf("analysis: %d of 3 domains succeeded, minimum is %d",
			succeeded, o.deps.MinAnalyses)
	}
	if succeeded < 3 {
		r.state.Put(flagAnalysisPartial, true)
	}

	r.reports = results
	r.state.Put(keyAnalysisResults, results)
	r.state.SetProgress(85)
	return nil
}

// handleConsolidation merges the analyses, consulting the consolidation
// cache first. The cached report is the pure merge result; advisories are
// reapplied from the current run's flags either way.
func (o *Orchestrator) handleConsolidation(ctx context.Context, r *run) error {
	if err := r.state.Advance(domain.StageConsolidating); err != nil {
		return err
	}

	report, ok := o.cachedConsolidation()
	if !ok {
		merged, err := consolidate.Consolidate(r.reports)
		if err != nil {
			return fmt.Errorf("consolidation: %w", err)
		}
		o.cacheSet(cache.DomainConsolidation, cache.SingletonKey, merged)
		report = merged
	}

	report.Metadata.Advisories = o.advisories(r.state)

	r.report = report
	r.state.Put(keyConsolidated, report)
	r.state.SetProgress(90)
	return nil
}

// advisories lists the partial-run flags set so far, in pipeline order.
func (o *Orchestrator) advisories(state *runstate.State) []string {
	var advisories []string
	for _, flag := range []string{flagScrapingPartial, flagExtractPartial, flagAnalysisPartial} {
		if state.Flag(flag) {
			advisories = append(advisories, flag)
		}
	}
	return advisories
}

// handleReport renders the artifacts. The renderer already degrades per
// artifact; only a total rendering failure stops the run.
func (o *Orchestrator) handleReport(ctx context.Context, r *run) error {
	if err := r.state.Advance(domain.StageGeneratingReport); err != nil {
		return err
	}

	artifacts, err := o.deps.Reporter.Render(ctx, r.report)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	r.state.Put(keyReportArtifacts, artifacts)
	r.state.SetProgress(95)
	return nil
}

func (o *Orchestrator) finish(r *run) error {
	if err := r.state.Advance(domain.StageCompleted); err != nil {
		return err
	}
	r.state.SetProgress(100)
	return nil
}

func (o *Orchestrator) cachedExtraction() (domain.ExtractedData, bool) {
	var data domain.ExtractedData
	if !o.cacheGet(cache.DomainExtraction, cache.SingletonKey, &data) {
		return domain.ExtractedData{}, false
	}
	return data, true
}

func (o *Orchestrator) cachedConsolidation() (domain.ConsolidatedReport, bool) {
	var report domain.ConsolidatedReport
	if !o.cacheGet(cache.DomainConsolidation, cache.SingletonKey, &report) {
		return domain.ConsolidatedReport{}, false
	}
	return report, true
}

// cacheGet decodes a cached payload; undecodable entries count as misses.
func (o *Orchestrator) cacheGet(cacheDomain cache.Domain, key string, out any) bool {
	if o.deps.Cache == nil {
		return false
	}
	payload, ok := o.deps.Cache.Get(cacheDomain, key)
	if !ok {
		return false
	}
	return json.Unmarshal(payload, out) == nil
}

// cacheSet encodes and stores fire-and-forget; encode failures are dropped.
func (o *Orchestrator) cacheSet(cacheDomain cache.Domain, key string, value any) {
	if o.deps.Cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	o.deps.Cache.Set(cacheDomain, key, payload)
}
