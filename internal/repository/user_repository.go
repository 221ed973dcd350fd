package repository

import (
	"github.com/guardline/workforce-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListManagersAtLocation returns organization managers and owners who are
// assigned to the given location
func (r *GormUserRepository) ListManagersAtLocation(organizationID, locationID uint64) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN organization_members ON organization_members.user_id = users.id").
		Joins("JOIN user_location_assignments ON user_location_assignments.user_id = users.id").
		Where("organization_members.organization_id = ?", organizationID).
		Where("organization_members.role IN ?", []models.OrganizationRole{models.RoleManager, models.RoleOwner}).
		Where("user_location_assignments.location_id = ?", locationID).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
