// Package scrape fetches and parses result pages with a bounded worker
// pool. Each worker retries its URL independently and consults the per-URL
// page cache; a failed URL never aborts its siblings.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"VentureScanner/internal/cache"
	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

// maxTextLength caps the extracted body text of huge pages.
const maxTextLength = 100_000

// Scraper implements ports.Scraper with a goquery-based page parser.
type Scraper struct {
	client      *http.Client
	cache       cache.Store
	logger      *slog.Logger
	maxParallel int
	retries     int
	retryDelay  time.Duration
	userAgent   string
}

var _ ports.Scraper = (*Scraper)(nil)

// NewScraper wires an HTTP client and the page cache from configuration.
// A nil client gets a default with the configured timeout.
func NewScraper(cfg config.ScrapeConfig, client *http.Client, store cache.Store, logger *slog.Logger) *Scraper {
	if client == nil {
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	maxParallel := cfg.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 5
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = 3
	}

	return &Scraper{
		client:      client,
		cache:       store,
		logger:      logger,
		maxParallel: maxParallel,
		retries:     retries,
		retryDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
		userAgent:   cfg.UserAgent,
	}
}

// Scrape fetches every distinct URL through the worker pool and returns the
// pages that parsed successfully. All workers are joined before the partial
// batch is returned; per-URL failures are logged, not propagated.
func (s *Scraper) Scrape(ctx context.Context, urls []string) ([]domain.Page, error) {
	urls = dedupe(urls)
	if len(urls) == 0 {
		return nil, nil
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.maxParallel)

	var (
		mu    sync.Mutex
		pages []domain.Page
	)
	for _, url := range urls {
		url := url
		group.Go(func() error {
			page, err := s.scrapeOne(ctx, url)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("scrape failed", "url", url, "error", err)
				}
				return nil
			}
			mu.Lock()
			pages = append(pages, page)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return pages, err
	}

	if s.logger != nil {
		s.logger.Info("scrape finished", "requested", len(urls), "fetched", len(pages))
	}
	return pages, nil
}

func (s *Scraper) scrapeOne(ctx context.Context, url string) (domain.Page, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(cache.DomainPages, url); ok {
			var page domain.Page
			if err := json.Unmarshal(raw, &page); err == nil {
				return page, nil
			}
		}
	}

	html, err := s.fetchWithRetry(ctx, url)
	if err != nil {
		return domain.Page{}, err
	}

	page, err := parseContent(html, url)
	if err != nil {
		return domain.Page{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(page); err == nil {
			s.cache.Set(cache.DomainPages, url, raw)
		}
	}
	return page, nil
}

// fetchWithRetry performs a fixed-count retry sequence with a delay between
// attempts. There is no cross-worker cancellation beyond ctx itself.
func (s *Scraper) fetchWithRetry(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < s.retries; attempt++ {
		if attempt > 0 && s.retryDelay > 0 {
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		html, err := s.fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("all %d attempts failed: %w", s.retries, lastErr)
}

func (s *Scraper) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// parseContent extracts title, paragraph text, headings, and table grids
// from the cleaned document.
func parseContent(html, url string) (domain.Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.Page{}, fmt.Errorf("parse document: %w", err)
	}

	doc.Find("script, style, nav, footer, header").Remove()

	page := domain.Page{
		URL:   url,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	page.Text = truncateText(strings.Join(paragraphs, "\n"), maxTextLength)

	for level := 1; level <= 6; level++ {
		doc.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, h *goquery.Selection) {
			if text := strings.TrimSpace(h.Text()); text != "" {
				page.Headings = append(page.Headings, domain.Heading{Level: level, Text: text})
			}
		})
	}

	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) > 0 {
			page.Tables = append(page.Tables, cells)
		}
	})

	return page, nil
}

// truncateText caps the text at limit bytes, backing off to a rune boundary
// so the result stays valid UTF-8.
func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}

func dedupe(urls []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}
	return out
}
