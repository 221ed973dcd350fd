package models

import (
	"time"

	"gorm.io/gorm"
)

// Location is a named geofence: a WGS84 point plus a radius in meters.
// Locations are created by administrators or auto-created from an
// unmatched check-in. The engine never deletes them.
type Location struct {
	ID           uint64  `gorm:"primarykey" json:"id"`
	Name         *string `gorm:"type:varchar(255)" json:"name"`
	Latitude     float64 `gorm:"not null" json:"latitude"`
	Longitude    float64 `gorm:"not null" json:"longitude"`
	RadiusMeters float64 `gorm:"not null" json:"radius_meters"`
	Address      *string `gorm:"type:text" json:"address"`
	CreatedBy    uint64  `gorm:"not null" json:"created_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator     User                     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Assignments []UserLocationAssignment `gorm:"foreignKey:LocationID" json:"assignments,omitempty"`
}

// UserLocationAssignment links a user to a location they check in at.
// The pair is unique; assignment is idempotent.
type UserLocationAssignment struct {
	UserID     uint64    `gorm:"primarykey" json:"user_id"`
	LocationID uint64    `gorm:"primarykey" json:"location_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Location Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}
