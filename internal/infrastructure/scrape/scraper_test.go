package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"VentureScanner/internal/cache"
	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
)

const samplePage = `
<html>
<head><title>Coffee Market Report</title><style>p {color:red}</style></head>
<body>
<nav>skip me</nav>
<h1>Overview</h1>
<p>The market is worth $2.5B.</p>
<h2>Players</h2>
<p>BlueBrew Inc. leads the segment.</p>
<table>
  <tr><th>Company</th><th>Share</th></tr>
  <tr><td>BlueBrew</td><td>40%</td></tr>
</table>
<script>alert("noise")</script>
<footer>footer noise</footer>
</body>
</html>`

func TestParseContent(t *testing.T) {
	t.Parallel()

	page, err := parseContent(samplePage, "https://example.org/report")
	if err != nil {
		t.Fatalf("parseContent: %v", err)
	}

	if page.Title != "Coffee Market Report" {
		t.Fatalf("unexpected title: %q", page.Title)
	}
	if page.URL != "https://example.org/report" {
		t.Fatalf("unexpected url: %q", page.URL)
	}
	if page.Text != "The market is worth $2.5B.\nBlueBrew Inc. leads the segment." {
		t.Fatalf("unexpected text: %q", page.Text)
	}

	if len(page.Headings) != 2 {
		t.Fatalf("expected 2 headings, got %v", page.Headings)
	}
	if page.Headings[0].Level != 1 || page.Headings[0].Text != "Overview" {
		t.Fatalf("unexpected first heading: %+v", page.Headings[0])
	}

	if len(page.Tables) != 2 {
		t.Fatalf("expected 2 table rows, got %v", page.Tables)
	}
	if page.Tables[1][0] != "BlueBrew" || page.Tables[1][1] != "40%" {
		t.Fatalf("unexpected table row: %v", page.Tables[1])
	}
}

func TestTruncateTextKeepsRuneBoundary(t *testing.T) {
	t.Parallel()

	// 3-byte runes so the byte cap lands mid-sequence.
	long := strings.Repeat("€", maxTextLength/3+10)
	got := truncateText(long, maxTextLength)

	if len(got) > maxTextLength {
		t.Fatalf("text exceeds cap: %d bytes", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation produced invalid UTF-8")
	}

	short := "small page"
	if truncateText(short, maxTextLength) != short {
		t.Fatal("text under the cap must pass through unchanged")
	}
}

func TestScrapeCollectsPartialBatch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	scraper := NewScraper(config.ScrapeConfig{MaxParallel: 2, Retries: 1}, server.Client(), nil, nil)

	urls := []string{server.URL + "/a", server.URL + "/broken", server.URL + "/b", server.URL + "/a"}
	pages, err := scraper.Scrape(context.Background(), urls)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}

	// Duplicate URL is fetched once, the broken one is dropped.
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	for _, page := range pages {
		if page.Title != "Coffee Market Report" {
			t.Fatalf("unexpected page: %+v", page)
		}
	}
}

func TestScrapeRetriesBeforeGivingUp(t *testing.T) {
	t.Parallel()

	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	scraper := NewScraper(config.ScrapeConfig{MaxParallel: 1, Retries: 3}, server.Client(), nil, nil)

	pages, err := scraper.Scrape(context.Background(), []string{server.URL})
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected the third attempt to succeed, got %d pages", len(pages))
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestScrapeUsesPageCache(t *testing.T) {
	t.Parallel()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	store := cache.NewMemoryStore(nil)
	scraper := NewScraper(config.ScrapeConfig{MaxParallel: 1, Retries: 1}, server.Client(), store, nil)

	url := server.URL + "/cached"
	if _, err := scraper.Scrape(context.Background(), []string{url}); err != nil {
		t.Fatalf("first scrape: %v", err)
	}
	if _, err := scraper.Scrape(context.Background(), []string{url}); err != nil {
		t.Fatalf("second scrape: %v", err)
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("second scrape should be served from cache, server saw %d requests", got)
	}

	raw, ok := store.Get(cache.DomainPages, url)
	if !ok {
		t.Fatal("page missing from cache")
	}
	var page domain.Page
	if err := json.Unmarshal(raw, &page); err != nil {
		t.Fatalf("cached page not decodable: %v", err)
	}
	if page.Title != "Coffee Market Report" {
		t.Fatalf("unexpected cached page: %+v", page)
	}
}

func TestScrapeEmptyInput(t *testing.T) {
	t.Parallel()

	scraper := NewScraper(config.ScrapeConfig{}, nil, nil, nil)
	pages, err := scraper.Scrape(context.Background(), nil)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("expected no pages, got %d", len(pages))
	}
}
