package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/mavrick-topgun/weather-aqi-app/internal/suitability"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testLocation() suitability.Location {
	return suitability.Location{
		ID:        "loc-1",
		Name:      "Denver, Colorado",
		Latitude:  39.7392,
		Longitude: -104.9903,
		Timezone:  "America/Denver",
	}
}

func TestLocationCRUD(t *testing.T) {
	s := newTestStore(t)
	loc := testLocation()

	if err := s.CreateLocation(loc); err != nil {
		t.Fatalf("CreateLocation failed: %v", err)
	}

	got, err := s.GetLocation("loc-1")
	if err != nil {
		t.Fatalf("GetLocation failed: %v", err)
	}
	if got.Name != loc.Name || got.Latitude != loc.Latitude || got.Timezone != loc.Timezone {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if got.CreatedAt == "" {
		t.Fatalf("expected created_at to be set")
	}

	list, err := s.ListLocations()
	if err != nil {
		t.Fatalf("ListLocations failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 location, got %d", len(list))
	}

	if err := s.DeleteLocation("loc-1"); err != nil {
		t.Fatalf("DeleteLocation failed: %v", err)
	}
	if _, err := s.GetLocation("loc-1"); !errors.Is(err, suitability.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound after delete, got %v", err)
	}
	if err := s.DeleteLocation("loc-1"); !errors.Is(err, suitability.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound for double delete, got %v", err)
	}
}

func TestGetLocationUnknown(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetLocation("missing")
	if !errors.Is(err, suitability.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func metricFor(date string) suitability.DailyMetric {
	aqi := 42
	pm25 := 12.34
	tmax := 21.5
	return suitability.DailyMetric{
		LocationID:     "loc-1",
		Date:           date,
		Score:          85,
		Recommendation: "Great",
		AqiValue:       &aqi,
		PM25:           &pm25,
		TemperatureMax: &tmax,
	}
}

func TestMetricsSaveAndRange(t *testing.T) {
	s := newTestStore(t)

	// Insert out of order; the range read must come back ascending.
	for _, d := range []string{"2026-05-03", "2026-05-01", "2026-05-02"} {
		if err := s.SaveMetric(metricFor(d)); err != nil {
			t.Fatalf("SaveMetric(%s) failed: %v", d, err)
		}
	}

	got, err := s.GetMetricsRange("loc-1", "2026-05-01", "2026-05-03")
	if err != nil {
		t.Fatalf("GetMetricsRange failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	for i, want := range []string{"2026-05-01", "2026-05-02", "2026-05-03"} {
		if got[i].Date != want {
			t.Fatalf("row %d date = %s, want %s", i, got[i].Date, want)
		}
	}

	if got[0].AqiValue == nil || *got[0].AqiValue != 42 {
		t.Fatalf("aqi value did not roundtrip: %v", got[0].AqiValue)
	}
	if got[0].PM25 == nil || *got[0].PM25 != 12.34 {
		t.Fatalf("pm25 did not roundtrip: %v", got[0].PM25)
	}
	// Fields that were absent must stay absent, not become zero.
	if got[0].Ozone != nil || got[0].WindSpeed != nil || got[0].UVIndex != nil {
		t.Fatalf("absent fields came back populated: %+v", got[0])
	}

	// The window is inclusive on both ends.
	partial, err := s.GetMetricsRange("loc-1", "2026-05-02", "2026-05-02")
	if err != nil {
		t.Fatalf("GetMetricsRange failed: %v", err)
	}
	if len(partial) != 1 || partial[0].Date != "2026-05-02" {
		t.Fatalf("inclusive single-day window returned %+v", partial)
	}
}

func TestSaveMetricIdempotent(t *testing.T) {
	s := newTestStore(t)

	m := metricFor("2026-05-01")
	if err := s.SaveMetric(m); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// A second save of the same key must be a silent no-op, not an error.
	m.Score = 10
	if err := s.SaveMetric(m); err != nil {
		t.Fatalf("duplicate save must not error, got %v", err)
	}

	got, err := s.GetMetricsRange("loc-1", "2026-05-01", "2026-05-01")
	if err != nil {
		t.Fatalf("GetMetricsRange failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 row, got %d", len(got))
	}
	if got[0].Score != 85 {
		t.Fatalf("duplicate save overwrote the original row: score %d", got[0].Score)
	}
}

func TestMetricExists(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.MetricExists("loc-1", "2026-05-01")
	if err != nil {
		t.Fatalf("MetricExists failed: %v", err)
	}
	if ok {
		t.Fatalf("expected no metric before save")
	}

	if err := s.SaveMetric(metricFor("2026-05-01")); err != nil {
		t.Fatalf("SaveMetric failed: %v", err)
	}

	ok, err = s.MetricExists("loc-1", "2026-05-01")
	if err != nil {
		t.Fatalf("MetricExists failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected metric to exist after save")
	}
}

func TestDeleteMetricsBefore(t *testing.T) {
	s := newTestStore(t)

	for _, d := range []string{"2026-04-28", "2026-04-29", "2026-05-01"} {
		if err := s.SaveMetric(metricFor(d)); err != nil {
			t.Fatalf("SaveMetric failed: %v", err)
		}
	}

	n, err := s.DeleteMetricsBefore("2026-05-01")
	if err != nil {
		t.Fatalf("DeleteMetricsBefore failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted rows, got %d", n)
	}

	remaining, err := s.GetMetricsRange("loc-1", "2026-01-01", "2026-12-31")
	if err != nil {
		t.Fatalf("GetMetricsRange failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Date != "2026-05-01" {
		t.Fatalf("unexpected remaining rows: %+v", remaining)
	}
}

func TestDeleteLocationRemovesMetrics(t *testing.T) {
	s := newTestStore(t)

	if err := s.CreateLocation(testLocation()); err != nil {
		t.Fatalf("CreateLocation failed: %v", err)
	}
	if err := s.SaveMetric(metricFor("2026-05-01")); err != nil {
		t.Fatalf("SaveMetric failed: %v", err)
	}

	if err := s.DeleteLocation("loc-1"); err != nil {
		t.Fatalf("DeleteLocation failed: %v", err)
	}

	got, err := s.GetMetricsRange("loc-1", "2026-01-01", "2026-12-31")
	if err != nil {
		t.Fatalf("GetMetricsRange failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected metrics to be removed with the location, got %d", len(got))
	}
}
