package geocoding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/sony/gobreaker"
)

const maxResults = 10

// Result is one geocoding match from the upstream search API.
type Result struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Country     string   `json:"country,omitempty"`
	CountryCode string   `json:"countryCode,omitempty"`
	Admin1      string   `json:"admin1,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
}

// Client searches the Open-Meteo geocoding API for place names. Search
// quality is whatever the upstream offers; this is a pass-through.
type Client struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a geocoding client against baseURL.
func NewClient(client *http.Client, baseURL string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo-geocoding",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL: baseURL,
		client:  client,
		circuit: cb,
	}
}

// Search returns up to limit matches for query. Queries shorter than two
// characters after trimming yield an empty result without an upstream call.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if utf8.RuneCountInString(query) < 2 {
		return []Result{}, nil
	}
	if limit <= 0 {
		limit = 5
	}
	if limit > maxResults {
		limit = maxResults
	}

	values := url.Values{}
	values.Set("name", query)
	values.Set("count", strconv.Itoa(limit))
	values.Set("language", "en")
	values.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, &url.Error{Op: "Get", URL: c.baseURL, Err: &statusError{resp.StatusCode}}
		}

		var payload struct {
			Results []struct {
				ID          int64    `json:"id"`
				Name        string   `json:"name"`
				Latitude    *float64 `json:"latitude"`
				Longitude   *float64 `json:"longitude"`
				Country     string   `json:"country"`
				CountryCode string   `json:"country_code"`
				Admin1      string   `json:"admin1"`
				Timezone    string   `json:"timezone"`
			} `json:"results"`
		}
		if decErr := json.NewDecoder(resp.Body).Decode(&payload); decErr != nil {
			return nil, decErr
		}

		out := make([]Result, 0, len(payload.Results))
		for _, r := range payload.Results {
			out = append(out, Result{
				ID:          r.ID,
				Name:        r.Name,
				Latitude:    r.Latitude,
				Longitude:   r.Longitude,
				Country:     r.Country,
				CountryCode: r.CountryCode,
				Admin1:      r.Admin1,
				Timezone:    r.Timezone,
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]Result), nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "unexpected status code " + strconv.Itoa(e.code)
}
