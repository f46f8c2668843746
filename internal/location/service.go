package location

import (
	"github.com/google/uuid"

	"github.com/mavrick-topgun/weather-aqi-app/internal/suitability"
)

// Store is the persistence contract the location service needs.
type Store interface {
	CreateLocation(loc suitability.Location) error
	GetLocation(id string) (suitability.Location, error)
	ListLocations() ([]suitability.Location, error)
	DeleteLocation(id string) error
}

// Service owns the tracked-location set. Locations are read-only inputs to
// the forecast and trends paths; this service is the only writer.
type Service struct {
	store Store
}

// NewService creates a new Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create stores a new location under a fresh id. An empty timezone becomes
// the "auto" placeholder, resolved against the configured default at trend
// time.
func (s *Service) Create(name string, latitude, longitude float64, timezone string) (suitability.Location, error) {
	if timezone == "" {
		timezone = "auto"
	}

	loc := suitability.Location{
		ID:        uuid.NewString(),
		Name:      name,
		Latitude:  latitude,
		Longitude: longitude,
		Timezone:  timezone,
	}
	if err := s.store.CreateLocation(loc); err != nil {
		return suitability.Location{}, err
	}
	return s.store.GetLocation(loc.ID)
}

// Get returns a location or suitability.ErrLocationNotFound.
func (s *Service) Get(id string) (suitability.Location, error) {
	return s.store.GetLocation(id)
}

// List returns all tracked locations.
func (s *Service) List() ([]suitability.Location, error) {
	return s.store.ListLocations()
}

// Delete removes a location and its cached metrics.
func (s *Service) Delete(id string) error {
	return s.store.DeleteLocation(id)
}
