package store

import (
	"sort"
	"sync"
	"time"

	"github.com/mavrick-topgun/weather-aqi-app/internal/suitability"
)

// MemoryStore is a concurrency-safe in-memory implementation of the
// location and metrics stores. It backs tests and can serve as an ephemeral
// store when no database path is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	locations map[string]suitability.Location

	// key: location id -> date -> metric
	metrics map[string]map[string]suitability.DailyMetric
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		locations: make(map[string]suitability.Location),
		metrics:   make(map[string]map[string]suitability.DailyMetric),
	}
}

// CreateLocation stores a location.
func (s *MemoryStore) CreateLocation(loc suitability.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loc.CreatedAt == "" {
		loc.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	s.locations[loc.ID] = loc
	return nil
}

// GetLocation returns the location or suitability.ErrLocationNotFound.
func (s *MemoryStore) GetLocation(id string) (suitability.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.locations[id]
	if !ok {
		return suitability.Location{}, suitability.ErrLocationNotFound
	}
	return loc, nil
}

// ListLocations returns all locations in a stable order.
func (s *MemoryStore) ListLocations() ([]suitability.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]suitability.Location, 0, len(s.locations))
	for _, loc := range s.locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteLocation removes a location and its metrics.
func (s *MemoryStore) DeleteLocation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locations[id]; !ok {
		return suitability.ErrLocationNotFound
	}
	delete(s.locations, id)
	delete(s.metrics, id)
	return nil
}

// GetMetricsRange returns metrics in the inclusive window, ascending by date.
func (s *MemoryStore) GetMetricsRange(locationID, startDate, endDate string) ([]suitability.DailyMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]suitability.DailyMetric, 0)
	for date, m := range s.metrics[locationID] {
		if date >= startDate && date <= endDate {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// MetricExists reports whether a metric is stored for the key.
func (s *MemoryStore) MetricExists(locationID, date string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.metrics[locationID][date]
	return ok, nil
}

// SaveMetric stores a metric; saving an existing (location, date) key is a
// no-op, matching the persistent store's idempotent insert.
func (s *MemoryStore) SaveMetric(m suitability.DailyMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDate, ok := s.metrics[m.LocationID]
	if !ok {
		byDate = make(map[string]suitability.DailyMetric)
		s.metrics[m.LocationID] = byDate
	}
	if _, exists := byDate[m.Date]; exists {
		return nil
	}
	if m.CreatedAt == "" {
		m.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	byDate[m.Date] = m
	return nil
}

// DeleteMetricsBefore removes metrics dated strictly before date.
func (s *MemoryStore) DeleteMetricsBefore(date string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, byDate := range s.metrics {
		for d := range byDate {
			if d < date {
				delete(byDate, d)
				n++
			}
		}
	}
	return n, nil
}
