// Package report renders the consolidated report into document artifacts.
// No library in this stack renders PDF or PPT natively, so the renderer
// emits a report document and a slide-outline deck as Markdown; the artifact
// contract (pdf slot, ppt slot) is unchanged and either one succeeding is a
// usable outcome.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

// Renderer writes report artifacts into the configured output directory.
type Renderer struct {
	outputDir    string
	generateDoc  bool
	generateDeck bool
	logger       *slog.Logger
	now          func() time.Time
}

var _ ports.Reporter = (*Renderer)(nil)

// NewRenderer builds the renderer from configuration.
func NewRenderer(cfg config.ReportConfig, logger *slog.Logger) *Renderer {
	return &Renderer{
		outputDir:    cfg.OutputDir,
		generateDoc:  cfg.GenerateDoc,
		generateDeck: cfg.GenerateDeck,
		logger:       logger,
		now:          time.Now,
	}
}

// Render writes the enabled artifacts independently. It errors only when
// every enabled artifact fails; a single surviving artifact is returned
// with the other slot empty.
func (r *Renderer) Render(_ context.Context, report domain.ConsolidatedReport) (domain.ReportArtifacts, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return domain.ReportArtifacts{}, fmt.Errorf("create output dir: %w", err)
	}

	stamp := r.now().UTC().Format("20060102-150405")
	var artifacts domain.ReportArtifacts
	var failures []string

	if r.generateDoc {
		path := filepath.Join(r.outputDir, "report-"+stamp+".md")
		if err := os.WriteFile(path, []byte(renderDocument(report)), 0o644); err != nil {
			failures = append(failures, fmt.Sprintf("report document: %v", err))
			if r.logger != nil {
				r.logger.Warn("report document failed", "path", path, "error", err)
			}
		} else {
			artifacts.PDF = path
		}
	}

	if r.generateDeck {
		path := filepath.Join(r.outputDir, "deck-"+stamp+".md")
		if err := os.WriteFile(path, []byte(renderDeck(report)), 0o644); err != nil {
			failures = append(failures, fmt.Sprintf("deck outline: %v", err))
			if r.logger != nil {
				r.logger.Warn("deck outline failed", "path", path, "error", err)
			}
		} else {
			artifacts.PPT = path
		}
	}

	if artifacts.Empty() {
		if len(failures) > 0 {
			return artifacts, fmt.Errorf("all artifacts failed: %s", strings.Join(failures, "; "))
		}
		return artifacts, fmt.Errorf("no artifact formats enabled")
	}
	return artifacts, nil
}

// renderDocument lays out the full report in the fixed section order:
// summary, score overview, domain scores, risks, recommendations, decision.
func renderDocument(report domain.ConsolidatedReport) string {
	var b strings.Builder

	b.WriteString("# Business Opportunity Analysis\n\n")
	b.WriteString("## Executive Summary\n\n")
	b.WriteString(report.Summary + "\n\n")

	b.WriteString("## Score Overview\n\n")
	fmt.Fprintf(&b, "- Overall (risk-adjusted): **%.2f** (%s)\n", report.OverallScore, report.Rating)
	fmt.Fprintf(&b, "- Risk penalty applied: %.3f\n\n", report.Metadata.RiskPenaltyApplied)

	b.WriteString("## Domain Scores\n\n")
	fmt.Fprintf(&b, "| Domain | Score | Weight |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| Financial | %.2f | %.1f |\n", report.FinancialScore, report.Metadata.Weights["financial"])
	fmt.Fprintf(&b, "| Market | %.2f | %.1f |\n", report.MarketScore, report.Metadata.Weights["market"])
	fmt.Fprintf(&b, "| Competitive | %.2f | %.1f |\n\n", report.CompetitiveScore, report.Metadata.Weights["competitive"])

	b.WriteString("## Risk Analysis\n\n")
	if len(report.Risks) == 0 {
		b.WriteString("No risk flags raised.\n\n")
	} else {
		for _, risk := range report.Risks {
			fmt.Fprintf(&b, "- **%s/%s**: %s\n", risk.Category, risk.Severity, risk.Message)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recommendations\n\n")
	for _, rec := range report.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Decision\n\n**%s**\n", report.Decision)

	if len(report.Metadata.Advisories) > 0 {
		b.WriteString("\n> Best-effort result. Advisories: " +
			strings.Join(report.Metadata.Advisories, ", ") + "\n")
	}
	return b.String()
}

// renderDeck lays out a slide-per-section outline.
func renderDeck(report domain.ConsolidatedReport) string {
	var b strings.Builder

	b.WriteString("# Slide 1: Title\n\nBusiness Opportunity Analysis\n\n")
	fmt.Fprintf(&b, "# Slide 2: Verdict\n\n%s, rated %s (%.2f)\n\n", report.Decision, report.Rating, report.OverallScore)
	fmt.Fprintf(&b, "# Slide 3: Scores\n\nFinancial %.2f / Market %.2f / Competitive %.2f\n\n",
		report.FinancialScore, report.MarketScore, report.CompetitiveScore)

	b.WriteString("# Slide 4: Risks\n\n")
	for _, risk := range report.Risks {
		fmt.Fprintf(&b, "- %s: %s\n", risk.Severity, risk.Message)
	}
	b.WriteString("\n# Slide 5: Next Steps\n\n")
	for _, rec := range report.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	return b.String()
}
