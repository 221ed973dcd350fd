package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName string         `gorm:"type:varchar(255)" json:"display_name"`
	// ManagerID is the direct reporting manager, if any.
	ManagerID *uint64        `gorm:"index" json:"manager_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Manager             *User                    `gorm:"foreignKey:ManagerID" json:"-"`
	CreatedTasks        []Task                   `gorm:"foreignKey:CreatorID" json:"-"`
	Assignments         []TaskAssignment         `gorm:"foreignKey:UserID" json:"-"`
	Organizations       []OrganizationMember     `gorm:"foreignKey:UserID" json:"-"`
	LocationAssignments []UserLocationAssignment `gorm:"foreignKey:UserID" json:"-"`
}
