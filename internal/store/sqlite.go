package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/mavrick-topgun/weather-aqi-app/internal/suitability"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists locations and the daily-metrics cache in a single
// SQLite database (pure Go driver, no cgo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL gives better concurrency for the small writes this service does.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Printf("WARN: could not set WAL mode: %v", err)
	}

	schema := `
CREATE TABLE IF NOT EXISTS locations (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    timezone TEXT NOT NULL DEFAULT 'auto',
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS daily_metrics (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    location_id TEXT NOT NULL,
    date TEXT NOT NULL,
    score INTEGER NOT NULL,
    recommendation TEXT NOT NULL,
    aqi_value INTEGER,
    pm25 REAL,
    ozone REAL,
    temperature_max REAL,
    temperature_min REAL,
    precipitation REAL,
    wind_speed REAL,
    uv_index REAL,
    created_at TEXT NOT NULL,
    UNIQUE(location_id, date)
);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// CreateLocation inserts a new location row.
func (s *SQLiteStore) CreateLocation(loc suitability.Location) error {
	_, err := s.db.Exec(
		`INSERT INTO locations(id, name, latitude, longitude, timezone, created_at) VALUES(?,?,?,?,?,?)`,
		loc.ID, loc.Name, loc.Latitude, loc.Longitude, loc.Timezone, now(),
	)
	return err
}

// GetLocation returns the location with the given id, or
// suitability.ErrLocationNotFound.
func (s *SQLiteStore) GetLocation(id string) (suitability.Location, error) {
	var loc suitability.Location
	err := s.db.QueryRow(
		`SELECT id, name, latitude, longitude, timezone, created_at FROM locations WHERE id = ?`, id,
	).Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.Timezone, &loc.CreatedAt)
	if err == sql.ErrNoRows {
		return suitability.Location{}, suitability.ErrLocationNotFound
	}
	if err != nil {
		return suitability.Location{}, err
	}
	return loc, nil
}

// ListLocations returns all locations ordered by creation time.
func (s *SQLiteStore) ListLocations() ([]suitability.Location, error) {
	rows, err := s.db.Query(
		`SELECT id, name, latitude, longitude, timezone, created_at FROM locations ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]suitability.Location, 0)
	for rows.Next() {
		var loc suitability.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.Timezone, &loc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// DeleteLocation removes a location and its cached metrics. Deleting an
// unknown id returns suitability.ErrLocationNotFound.
func (s *SQLiteStore) DeleteLocation(id string) error {
	res, err := s.db.Exec(`DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return suitability.ErrLocationNotFound
	}

	_, err = s.db.Exec(`DELETE FROM daily_metrics WHERE location_id = ?`, id)
	return err
}

// GetMetricsRange returns cached metrics in the inclusive date window,
// ascending. ISO dates compare lexically, so BETWEEN on TEXT is correct.
func (s *SQLiteStore) GetMetricsRange(locationID, startDate, endDate string) ([]suitability.DailyMetric, error) {
	rows, err := s.db.Query(
		`SELECT location_id, date, score, recommendation, aqi_value, pm25, ozone,
                temperature_max, temperature_min, precipitation, wind_speed, uv_index, created_at
         FROM daily_metrics
         WHERE location_id = ? AND date BETWEEN ? AND ?
         ORDER BY date ASC`,
		locationID, startDate, endDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]suitability.DailyMetric, 0)
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MetricExists reports whether a metric row exists for the key.
func (s *SQLiteStore) MetricExists(locationID, date string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM daily_metrics WHERE location_id = ? AND date = ?`, locationID, date,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveMetric inserts a metric row. INSERT OR IGNORE absorbs the race where
// two requests pass the existence pre-check for the same key: the loser's
// insert becomes a no-op instead of a constraint error.
func (s *SQLiteStore) SaveMetric(m suitability.DailyMetric) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO daily_metrics
            (location_id, date, score, recommendation, aqi_value, pm25, ozone,
             temperature_max, temperature_min, precipitation, wind_speed, uv_index, created_at)
         VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		m.LocationID, m.Date, m.Score, m.Recommendation,
		nullableInt(m.AqiValue), nullableFloat(m.PM25), nullableFloat(m.Ozone),
		nullableFloat(m.TemperatureMax), nullableFloat(m.TemperatureMin),
		nullableFloat(m.Precipitation), nullableFloat(m.WindSpeed), nullableFloat(m.UVIndex),
		now(),
	)
	return err
}

// DeleteMetricsBefore removes metric rows dated strictly before date and
// returns how many were deleted. Trend windows always start at today, so
// past rows are unreachable and safe to prune.
func (s *SQLiteStore) DeleteMetricsBefore(date string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM daily_metrics WHERE date < ?`, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanMetric(rows *sql.Rows) (suitability.DailyMetric, error) {
	var (
		m        suitability.DailyMetric
		aqiValue sql.NullInt64
		pm25, ozone, tempMax, tempMin,
		precipitation, windSpeed, uvIndex sql.NullFloat64
	)
	err := rows.Scan(
		&m.LocationID, &m.Date, &m.Score, &m.Recommendation,
		&aqiValue, &pm25, &ozone, &tempMax, &tempMin,
		&precipitation, &windSpeed, &uvIndex, &m.CreatedAt,
	)
	if err != nil {
		return suitability.DailyMetric{}, err
	}

	if aqiValue.Valid {
		v := int(aqiValue.Int64)
		m.AqiValue = &v
	}
	m.PM25 = floatPtr(pm25)
	m.Ozone = floatPtr(ozone)
	m.TemperatureMax = floatPtr(tempMax)
	m.TemperatureMin = floatPtr(tempMin)
	m.Precipitation = floatPtr(precipitation)
	m.WindSpeed = floatPtr(windSpeed)
	m.UVIndex = floatPtr(uvIndex)
	return m, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
