package repository

import (
	"time"

	"github.com/guardline/workforce-api/internal/models"
	"gorm.io/gorm"
)

// GormAttendanceRepository is a GORM implementation of AttendanceRepository
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Append stores a new attendance event
func (r *GormAttendanceRepository) Append(event *models.AttendanceEvent) error {
	return r.db.Create(event).Error
}

// ListForUserOnDate returns a user's events for the UTC calendar day
// containing date, ordered by timestamp ascending.
func (r *GormAttendanceRepository) ListForUserOnDate(userID uint64, date time.Time) ([]models.AttendanceEvent, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	endOfDay := startOfDay.Add(24 * time.Hour)

	var events []models.AttendanceEvent
	err := r.db.
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, startOfDay, endOfDay).
		Order("timestamp ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
