package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
)

func TestSearchMergesQueriesAndDegradesPerQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Query      string `json:"query"`
			MaxResults int    `json:"max_results"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload.MaxResults != 2 {
			t.Errorf("max_results: got %d, want 2", payload.MaxResults)
		}

		if payload.Query == "broken query" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"results":[
			{"title":"Coffee market size report","url":"https://a","snippet":"coffee market size data"},
			{"title":"Unrelated","url":"https://b","snippet":"nothing here"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(config.SearchConfig{Endpoint: server.URL, MaxResultsPerQuery: 2}, nil)

	results, err := client.Search(context.Background(), []string{"coffee market size", "broken query"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// The broken query contributes nothing; the good one contributes both hits.
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].URL != "https://a" {
		t.Fatalf("results must be sorted by score, got %s first", results[0].URL)
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("scores not descending: %v then %v", results[0].Score, results[1].Score)
	}
	if results[0].Query != "coffee market size" {
		t.Fatalf("result must keep its originating query, got %q", results[0].Query)
	}
}

func TestSearchRejectsEmptyEndpoint(t *testing.T) {
	t.Parallel()

	client := NewClient(config.SearchConfig{}, nil)
	if _, err := client.Search(context.Background(), []string{"anything"}); err == nil {
		t.Fatal("empty endpoint must be an error")
	}
}

func TestSearchSendsAPIKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization header: got %q", got)
		}
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := NewClient(config.SearchConfig{Endpoint: server.URL, APIKey: "secret"}, nil)
	if _, err := client.Search(context.Background(), []string{"q"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestRankResultsOverlapFormula(t *testing.T) {
	t.Parallel()

	results := []domain.SearchResult{
		{Title: "coffee subscription economics", Snippet: "pricing models"},
		{Title: "something else", Snippet: "entirely"},
	}

	ranked := rankResults(results, "coffee subscription")

	// overlap 2 of 2 query terms => 2 / (2+1) = 0.667
	if ranked[0].Score != 0.667 {
		t.Fatalf("score: got %v, want 0.667", ranked[0].Score)
	}
	if ranked[1].Score != 0 {
		t.Fatalf("score: got %v, want 0", ranked[1].Score)
	}
}
