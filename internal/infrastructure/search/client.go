// Package search implements the search collaborator against an
// OpenSearch-style HTTP JSON API, with keyword-overlap ranking applied per
// query before results are merged.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

// Client talks to an external search service.
type Client struct {
	endpoint   string
	apiKey     string
	maxResults int
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.Searcher = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.SearchConfig, logger *slog.Logger) *Client {
	maxResults := cfg.MaxResultsPerQuery
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Search runs every query, ranks each result set by keyword overlap with its
// query, and returns the union. A failed query degrades to zero results for
// that query; deciding whether the empty union is fatal belongs to the
// caller.
func (c *Client) Search(ctx context.Context, queries []string) ([]domain.SearchResult, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("search client misconfigured: empty endpoint")
	}

	var all []domain.SearchResult
	for _, query := range queries {
		results, err := c.searchQuery(ctx, query)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn("search query failed", "query", query, "error", err)
			}
			continue
		}
		all = append(all, rankResults(results, query)...)
	}
	return all, nil
}

func (c *Client) searchQuery(ctx context.Context, query string) ([]domain.SearchResult, error) {
	body, err := json.Marshal(map[string]any{
		"query":       query,
		"max_results": c.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var payload struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(payload.Results))
	for _, item := range payload.Results {
		results = append(results, domain.SearchResult{
			Query:   query,
			Title:   item.Title,
			URL:     item.URL,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

// rankResults scores each hit by term overlap with the query and sorts the
// set descending. Score = |query terms ∩ text terms| / (|query terms| + 1),
// rounded to 3 decimals.
func rankResults(results []domain.SearchResult, query string) []domain.SearchResult {
	queryTerms := termSet(query)

	for i := range results {
		text := results[i].Title + " " + results[i].Snippet
		textTerms := termSet(text)

		overlap := 0
		for term := range queryTerms {
			if _, ok := textTerms[term]; ok {
				overlap++
			}
		}
		score := float64(overlap) / float64(len(queryTerms)+1)
		results[i].Score = math.Round(score*1000) / 1000
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func termSet(text string) map[string]struct{} {
	terms := map[string]struct{}{}
	for _, field := range strings.Fields(strings.ToLower(text)) {
		terms[field] = struct{}{}
	}
	return terms
}
