// Package extract distills entities, financial metrics, and keywords from
// scraped pages using regex and sentence-context heuristics.
package extract

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

var (
	moneyPattern   = regexp.MustCompile(`\$\s?\d+(?:[.,]\d+)?\s?[kmbKMB]?`)
	percentPattern = regexp.MustCompile(`\d+(?:\.\d+)?\s?%`)
	numberPattern  = regexp.MustCompile(`[\d.]+`)
	wordPattern    = regexp.MustCompile(`\b[a-zA-Z]{4,}\b`)
	// Sentence punctuation only counts when followed by whitespace or end of
	// text, so decimal figures like $2.5M stay in one sentence.
	sentenceSplit = regexp.MustCompile(`[.!?](?:\s|$)`)
	orgPattern     = regexp.MustCompile(`\b([A-Z][A-Za-z0-9&-]*(?:\s+[A-Z][A-Za-z0-9&-]*){0,3})\s+(?:Inc\.?|Ltd\.?|Corp\.?|LLC|PLC|Co\.)`)
	personPattern  = regexp.MustCompile(`(?:CEO|CTO|CFO|[Ff]ounder|[Cc]o-founder|[Pp]resident)\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`)
	placePattern   = regexp.MustCompile(`(?:[Bb]ased in|[Hh]eadquartered in|[Ll]ocated in)\s+([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)?)`)
)

var corporateSuffixes = map[string]struct{}{
	"inc": {}, "inc.": {}, "ltd": {}, "ltd.": {}, "corp": {}, "corp.": {},
	"llc": {}, "plc": {}, "company": {}, "co": {}, "co.": {},
}

var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "been": {},
	"will": {}, "they": {}, "their": {}, "there": {}, "which": {}, "about": {},
	"more": {}, "when": {}, "also": {}, "into": {}, "than": {}, "other": {},
	"some": {}, "such": {}, "only": {}, "over": {}, "most": {}, "these": {},
	"were": {}, "while": {}, "would": {}, "could": {}, "should": {}, "after": {},
	"before": {}, "between": {}, "because": {}, "being": {}, "both": {},
	"each": {}, "make": {}, "many": {}, "much": {}, "very": {}, "what": {},
	"where": {}, "year": {}, "years": {}, "said": {}, "says": {}, "like": {},
}

const (
	maxOrganizations = 20
	maxKeywords      = 20
)

// Engine implements ports.Extractor.
type Engine struct {
	logger *slog.Logger
}

var _ ports.Extractor = (*Engine)(nil)

// NewEngine builds the extraction collaborator.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Extract aggregates entity, financial, and keyword signals across pages.
// Pages without text are skipped; an empty result is not an error, the
// caller decides how to degrade.
func (e *Engine) Extract(_ context.Context, pages []domain.Page) (domain.ExtractedData, error) {
	data := domain.EmptyExtractedData()

	orgCounts := map[string]int{}
	peopleSet := map[string]struct{}{}
	locationSet := map[string]struct{}{}
	keywordCounts := map[string]int{}

	for _, page := range pages {
		if page.Text == "" {
			continue
		}

		for _, org := range extractOrganizations(page.Text) {
			if normalized := normalizeOrgName(org); normalized != "" {
				orgCounts[normalized]++
			}
		}
		for _, person := range extractMatches(personPattern, page.Text) {
			peopleSet[person] = struct{}{}
		}
		for _, place := range extractMatches(placePattern, page.Text) {
			locationSet[place] = struct{}{}
		}

		mergeFinancials(&data.FinancialMetrics, extractContextualFinancials(page.Text))

		for word, count := range extractKeywords(page.Text) {
			keywordCounts[word] += count
		}
	}

	data.Entities.Organizations = topByCount(orgCounts, maxOrganizations, 1)
	data.Entities.People = sortedKeys(peopleSet)
	data.Entities.Locations = sortedKeys(locationSet)
	data.Keywords = topByCount(keywordCounts, maxKeywords, keywordThreshold(len(pages)))

	dedupeFinancials(&data.FinancialMetrics)

	if e.logger != nil {
		e.logger.Info("extraction finished",
			"pages", len(pages),
			"organizations", len(data.Entities.Organizations),
			"keywords", len(data.Keywords))
	}
	return data, nil
}

// keywordThreshold adapts the minimum keyword frequency to the scrape size
// so small batches do not lose every signal.
func keywordThreshold(pages int) int {
	switch {
	case pages >= 30:
		return 3
	case pages >= 10:
		return 2
	default:
		return 1
	}
}

func extractOrganizations(text string) []string {
	var orgs []string
	for _, match := range orgPattern.FindAllStringSubmatch(text, -1) {
		orgs = append(orgs, match[0])
	}
	return orgs
}

func extractMatches(pattern *regexp.Regexp, text string) []string {
	var out []string
	for _, match := range pattern.FindAllStringSubmatch(text, -1) {
		out = append(out, match[1])
	}
	return out
}

// normalizeOrgName lowercases and strips corporate suffixes:
// "Apple Inc." becomes "apple".
func normalizeOrgName(name string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	for len(words) > 0 {
		if _, ok := corporateSuffixes[words[len(words)-1]]; !ok {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// normalizeCurrency converts "$2.5M", "$50k", "$1B" into integer values.
func normalizeCurrency(value string) (int64, bool) {
	value = strings.ToLower(strings.ReplaceAll(value, ",", ""))
	match := numberPattern.FindString(value)
	if match == "" {
		return 0, false
	}

	number, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}

	switch {
	case strings.Contains(value, "b"):
		number *= 1_000_000_000
	case strings.Contains(value, "m"):
		number *= 1_000_000
	case strings.Contains(value, "k"):
		number *= 1_000
	}
	return int64(number), true
}

// extractContextualFinancials classifies money and percent figures by the
// keywords of the sentence they appear in.
func extractContextualFinancials(text string) domain.FinancialMetrics {
	var metrics domain.FinancialMetrics

	for _, sentence := range sentenceSplit.Split(text, -1) {
		lower := strings.ToLower(sentence)

		var money []int64
		for _, match := range moneyPattern.FindAllString(sentence, -1) {
			if value, ok := normalizeCurrency(match); ok && value > 0 {
				money = append(money, value)
			}
		}

		var percents []float64
		for _, match := range percentPattern.FindAllString(sentence, -1) {
			trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(match), "%"))
			if value, err := strconv.ParseFloat(trimmed, 64); err == nil {
				percents = append(percents, value)
			}
		}

		if containsAny(lower, "cost", "expense", "investment", "budget") {
			metrics.StartupCosts = append(metrics.StartupCosts, money...)
		}
		if containsAny(lower, "revenue", "income", "earnings") {
			metrics.RevenueFigures = append(metrics.RevenueFigures, money...)
		}
		if containsAny(lower, "funding", "raised", "seed", "series") {
			metrics.FundingAmounts = append(metrics.FundingAmounts, money...)
		}
		if containsAny(lower, "market size", "valuation", "worth") {
			metrics.MarketSizes = append(metrics.MarketSizes, money...)
		}
		if containsAny(lower, "growth", "cagr", "increase", "expansion") {
			metrics.GrowthRates = append(metrics.GrowthRates, percents...)
		}
	}
	return metrics
}

func extractKeywords(text string) map[string]int {
	counts := map[string]int{}
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, ok := stopwords[word]; ok {
			continue
		}
		counts[word]++
	}
	return counts
}

func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func mergeFinancials(dst *domain.FinancialMetrics, src domain.FinancialMetrics) {
	dst.StartupCosts = append(dst.StartupCosts, src.StartupCosts...)
	dst.RevenueFigures = append(dst.RevenueFigures, src.RevenueFigures...)
	dst.FundingAmounts = append(dst.FundingAmounts, src.FundingAmounts...)
	dst.MarketSizes = append(dst.MarketSizes, src.MarketSizes...)
	dst.GrowthRates = append(dst.GrowthRates, src.GrowthRates...)
}

func dedupeFinancials(metrics *domain.FinancialMetrics) {
	metrics.StartupCosts = dedupeInts(metrics.StartupCosts)
	metrics.RevenueFigures = dedupeInts(metrics.RevenueFigures)
	metrics.FundingAmounts = dedupeInts(metrics.FundingAmounts)
	metrics.MarketSizes = dedupeInts(metrics.MarketSizes)
	metrics.GrowthRates = dedupeFloats(metrics.GrowthRates)
}

func dedupeInts(values []int64) []int64 {
	seen := map[int64]struct{}{}
	out := values[:0]
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func dedupeFloats(values []float64) []float64 {
	seen := map[float64]struct{}{}
	out := values[:0]
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// topByCount returns up to limit keys with count >= minCount, most frequent
// first, ties broken alphabetically for determinism.
func topByCount(counts map[string]int, limit, minCount int) []string {
	type entry struct {
		key   string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for key, count := range counts {
		if count >= minCount {
			entries = append(entries, entry{key, count})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.key)
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
