package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskAssignment links a task to one of its assignees. The pair is the
// primary key; re-assigning a previously removed pair clears the soft
// delete instead of inserting a duplicate row.
type TaskAssignment struct {
	TaskID    uint64         `gorm:"primarykey" json:"task_id"`
	UserID    uint64         `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
