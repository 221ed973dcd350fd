package repository

import (
	"github.com/guardline/workforce-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLocationRepository is a GORM implementation of LocationRepository
type GormLocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new LocationRepository
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &GormLocationRepository{db: db}
}

// Create creates a new location
func (r *GormLocationRepository) Create(location *models.Location) error {
	return r.db.Create(location).Error
}

// FindByID finds a location by ID
func (r *GormLocationRepository) FindByID(id uint64) (*models.Location, error) {
	var location models.Location
	if err := r.db.First(&location, id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// ListForUser returns the locations assigned to a user in insertion order.
// The resolver matches first-fit against this order, so it must be stable.
func (r *GormLocationRepository) ListForUser(userID uint64) ([]models.Location, error) {
	var locations []models.Location
	err := r.db.
		Joins("JOIN user_location_assignments ON user_location_assignments.location_id = locations.id").
		Where("user_location_assignments.user_id = ?", userID).
		Order("locations.id ASC").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

// ListAll returns every location in the system in insertion order
func (r *GormLocationRepository) ListAll() ([]models.Location, error) {
	var locations []models.Location
	if err := r.db.Order("locations.id ASC").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// Assign links a user to a location. A duplicate pair is a no-op, so
// racing check-ins cannot surface a uniqueness error.
func (r *GormLocationRepository) Assign(userID, locationID uint64) error {
	assignment := models.UserLocationAssignment{
		UserID:     userID,
		LocationID: locationID,
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "location_id"}},
			DoNothing: true,
		}).
		Create(&assignment).Error
}
