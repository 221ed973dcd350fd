package services

import (
	"context"
	"log"

	"github.com/guardline/workforce-api/internal/constants"
	"github.com/guardline/workforce-api/internal/geo"
	"github.com/guardline/workforce-api/internal/models"
	"github.com/guardline/workforce-api/internal/repository"
)

// LocationMatch is the result of classifying a position against the
// user's geofences. Created is true when no existing location contained
// the point and one was made on the fly.
type LocationMatch struct {
	Location models.Location
	Created  bool
}

// GeofenceService classifies raw positions against saved locations,
// self-healing the location set when nothing matches. Every repository
// failure degrades to the next resolution step; a check-in never fails
// because geofencing infrastructure is unavailable.
type GeofenceService struct {
	locationRepo repository.LocationRepository
	geocoder     geo.ReverseGeocoder
}

// NewGeofenceService creates a new GeofenceService
func NewGeofenceService(locationRepo repository.LocationRepository, geocoder geo.ReverseGeocoder) *GeofenceService {
	if geocoder == nil {
		geocoder = geo.NoopGeocoder{}
	}
	return &GeofenceService{
		locationRepo: locationRepo,
		geocoder:     geocoder,
	}
}

// Resolve returns the location a position belongs to, or nil when the
// fix is too inaccurate to classify and no location can be created.
//
// Resolution order: the user's own locations first, then all locations
// (adopting a matching global one), then auto-creation. Matching is
// first-fit in repository order, not closest-wins; with overlapping
// geofences the earliest row wins.
func (s *GeofenceService) Resolve(ctx context.Context, userID uint64, pos geo.Position) *LocationMatch {
	// A fix with more than 1 km of uncertainty cannot confirm or deny
	// membership. The raw coordinate is still recorded by the caller.
	if pos.AccuracyMeters != nil && *pos.AccuracyMeters > constants.MaxTrustedAccuracyMeters {
		return nil
	}

	if match := s.matchAssigned(userID, pos); match != nil {
		return match
	}

	if match := s.matchGlobal(userID, pos); match != nil {
		return match
	}

	return s.autoCreate(ctx, userID, pos)
}

func (s *GeofenceService) matchAssigned(userID uint64, pos geo.Position) *LocationMatch {
	locations, err := s.locationRepo.ListForUser(userID)
	if err != nil {
		log.Printf("geofence: failed to list locations for user %d: %v", userID, err)
		return nil
	}

	if loc := firstContaining(locations, pos); loc != nil {
		return &LocationMatch{Location: *loc}
	}
	return nil
}

func (s *GeofenceService) matchGlobal(userID uint64, pos geo.Position) *LocationMatch {
	locations, err := s.locationRepo.ListAll()
	if err != nil {
		log.Printf("geofence: failed to list all locations: %v", err)
		return nil
	}

	loc := firstContaining(locations, pos)
	if loc == nil {
		return nil
	}

	// Adopt the global location for this user. Duplicate pairs are
	// suppressed by the repository, so a race with another check-in is
	// harmless.
	if err := s.locationRepo.Assign(userID, loc.ID); err != nil {
		log.Printf("geofence: failed to assign location %d to user %d: %v", loc.ID, userID, err)
	}

	return &LocationMatch{Location: *loc}
}

func (s *GeofenceService) autoCreate(ctx context.Context, userID uint64, pos geo.Position) *LocationMatch {
	location := models.Location{
		Latitude:     pos.Latitude,
		Longitude:    pos.Longitude,
		RadiusMeters: constants.DefaultLocationRadiusMeters,
		CreatedBy:    userID,
	}

	if label, err := s.geocoder.Lookup(ctx, pos.Latitude, pos.Longitude); err != nil {
		log.Printf("geofence: reverse geocode failed for (%f, %f): %v", pos.Latitude, pos.Longitude, err)
	} else if label != "" {
		location.Name = &label
		location.Address = &label
	}

	if err := s.locationRepo.Create(&location); err != nil {
		log.Printf("geofence: failed to auto-create location for user %d: %v", userID, err)
		return nil
	}

	if err := s.locationRepo.Assign(userID, location.ID); err != nil {
		log.Printf("geofence: failed to assign new location %d to user %d: %v", location.ID, userID, err)
	}

	return &LocationMatch{Location: location, Created: true}
}

// firstContaining returns the first location whose radius contains the
// position, preserving the slice order.
func firstContaining(locations []models.Location, pos geo.Position) *models.Location {
	for i := range locations {
		loc := &locations[i]
		if geo.Distance(pos.Latitude, pos.Longitude, loc.Latitude, loc.Longitude) <= loc.RadiusMeters {
			return loc
		}
	}
	return nil
}
