package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearchShortQuerySkipsUpstream(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)

	// Runes count, not bytes: a single multibyte character is still one
	// character and must be rejected the same as "a".
	for _, query := range []string{"a", "東"} {
		results, err := c.Search(context.Background(), query, 5)
		if err != nil {
			t.Fatalf("query %q: unexpected error: %v", query, err)
		}
		if len(results) != 0 {
			t.Fatalf("query %q: expected no results, got %d", query, len(results))
		}
		if called {
			t.Fatalf("query %q: upstream should not have been called", query)
		}
	}

	// Two runes pass the guard.
	if _, err := c.Search(context.Background(), "東京", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("two-rune query should reach upstream")
	}
}

func TestSearchBuildsQueryAndParsesResults(t *testing.T) {
	var gotQuery, gotCount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("name")
		gotCount = r.URL.Query().Get("count")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [
			{"id": 2988507, "name": "Paris", "latitude": 48.85341, "longitude": 2.3488,
			 "country": "France", "country_code": "FR", "admin1": "Ile-de-France",
			 "timezone": "Europe/Paris"},
			{"id": 4717560, "name": "Paris", "latitude": 33.66094, "longitude": -95.55551,
			 "country": "United States", "country_code": "US", "admin1": "Texas",
			 "timezone": "America/Chicago"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	results, err := c.Search(context.Background(), "Paris", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "Paris" {
		t.Fatalf("name param = %q", gotQuery)
	}
	if gotCount != "5" {
		t.Fatalf("count param = %q", gotCount)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.ID != 2988507 || first.Name != "Paris" || first.CountryCode != "FR" {
		t.Fatalf("unexpected first result: %+v", first)
	}
	if first.Latitude == nil || *first.Latitude != 48.85341 {
		t.Fatalf("unexpected latitude: %v", first.Latitude)
	}
	if first.Admin1 != "Ile-de-France" || first.Timezone != "Europe/Paris" {
		t.Fatalf("unexpected region fields: %+v", first)
	}
}

func TestSearchLimitBounds(t *testing.T) {
	var gotCount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCount = r.URL.Query().Get("count")
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)

	if _, err := c.Search(context.Background(), "Lima", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCount != "5" {
		t.Fatalf("expected default count 5, got %q", gotCount)
	}

	if _, err := c.Search(context.Background(), "Lima", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCount != "10" {
		t.Fatalf("expected capped count 10, got %q", gotCount)
	}
}

func TestSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(&http.Client{Timeout: time.Second}, srv.URL)
	if _, err := c.Search(context.Background(), "Paris", 5); err == nil {
		t.Fatalf("expected an error on upstream failure")
	}
}
