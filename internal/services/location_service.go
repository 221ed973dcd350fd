package services

import (
	"errors"
	"fmt"

	"github.com/guardline/workforce-api/internal/constants"
	"github.com/guardline/workforce-api/internal/geo"
	"github.com/guardline/workforce-api/internal/models"
	"github.com/guardline/workforce-api/internal/repository"
)

var (
	ErrInvalidCoordinates = errors.New("latitude/longitude outside the valid range")
	ErrInvalidRadius      = errors.New("radius must be between 10 and 1000 meters")
	ErrDuplicateLocation  = errors.New("a location already exists within 10 meters of this point")
	ErrLocationNotFound   = errors.New("location not found")
)

// LocationService covers the administrative location surface: explicit
// creation, listing and assignment. Auto-creation from check-ins lives
// in GeofenceService.
type LocationService struct {
	locationRepo repository.LocationRepository
}

// NewLocationService creates a new LocationService
func NewLocationService(locationRepo repository.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

// CreateLocationInput represents input for creating a location
type CreateLocationInput struct {
	Name         *string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	Address      *string
	CreatedBy    uint64
}

// CreateLocation validates and creates an administrator-defined
// location. Creation is rejected when an existing location sits within
// 10 m of the requested point.
func (s *LocationService) CreateLocation(input CreateLocationInput) (*models.Location, error) {
	if !geo.ValidCoordinate(input.Latitude, input.Longitude) {
		return nil, ErrInvalidCoordinates
	}
	if input.RadiusMeters == 0 {
		input.RadiusMeters = constants.DefaultLocationRadiusMeters
	}
	if input.RadiusMeters < constants.MinLocationRadiusMeters || input.RadiusMeters > constants.MaxLocationRadiusMeters {
		return nil, ErrInvalidRadius
	}

	existing, err := s.locationRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to check existing locations: %w", err)
	}
	for i := range existing {
		d := geo.Distance(input.Latitude, input.Longitude, existing[i].Latitude, existing[i].Longitude)
		if d < constants.DuplicateLocationThresholdMeters {
			return nil, ErrDuplicateLocation
		}
	}

	location := &models.Location{
		Name:         input.Name,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		RadiusMeters: input.RadiusMeters,
		Address:      input.Address,
		CreatedBy:    input.CreatedBy,
	}

	if err := s.locationRepo.Create(location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	return location, nil
}

// ListAll returns every location
func (s *LocationService) ListAll() ([]models.Location, error) {
	locations, err := s.locationRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// ListForUser returns a user's assigned locations
func (s *LocationService) ListForUser(userID uint64) ([]models.Location, error) {
	locations, err := s.locationRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations for user: %w", err)
	}
	return locations, nil
}

// AssignToUser links a user to a location, idempotently
func (s *LocationService) AssignToUser(userID, locationID uint64) error {
	if _, err := s.locationRepo.FindByID(locationID); err != nil {
		return ErrLocationNotFound
	}
	if err := s.locationRepo.Assign(userID, locationID); err != nil {
		return fmt.Errorf("failed to assign location: %w", err)
	}
	return nil
}
