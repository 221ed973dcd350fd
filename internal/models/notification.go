package models

import "time"

type NotificationType string

const (
	NotificationAttendance NotificationType = "ATTENDANCE"
	NotificationEscalation NotificationType = "ESCALATION"
	NotificationTask       NotificationType = "TASK"
)

// Notification is an in-app message. Delivery is fire-and-forget; a
// failed insert is logged, never surfaced to the triggering action.
type Notification struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	UserID    *uint64          `gorm:"index" json:"user_id,omitempty"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Type      NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	LinkTo    *string          `gorm:"type:varchar(255)" json:"link_to,omitempty"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time        `json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
