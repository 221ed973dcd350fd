package models

import "time"

type AttendanceType string

const (
	AttendanceCheckIn  AttendanceType = "CHECK_IN"
	AttendanceCheckOut AttendanceType = "CHECK_OUT"
)

// AttendanceEvent is one check-in or check-out. Events are immutable;
// whether a user is currently checked in is inferred from the
// chronologically last event of the day.
type AttendanceEvent struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	UserID         uint64         `gorm:"not null;index:idx_attendance_user_time" json:"user_id"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	Type           AttendanceType `gorm:"type:varchar(20);not null" json:"type"`
	Timestamp      time.Time      `gorm:"not null;index:idx_attendance_user_time" json:"timestamp"`

	// Raw position, recorded even when geofence classification failed.
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty"`

	// LocationID is set when the position resolved to a geofence.
	LocationID *uint64 `gorm:"index" json:"location_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}
