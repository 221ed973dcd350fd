package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

type EscalationStatus string

// Escalation advances one level at a time and never rolls back.
const (
	EscalationNone      EscalationStatus = "NONE"
	EscalationLevel1    EscalationStatus = "LEVEL_1"
	EscalationLevel2    EscalationStatus = "LEVEL_2"
	EscalationEmailSent EscalationStatus = "EMAIL_SENT"
)

type Task struct {
	ID               uint64           `gorm:"primarykey" json:"id"`
	Title            string           `gorm:"not null" json:"title"`
	Description      string           `gorm:"type:text" json:"description"`
	Status           TaskStatus       `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	Priority         TaskPriority     `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`
	DueDate          *time.Time       `json:"due_date"`
	CreatorID        uint64           `gorm:"not null" json:"creator_id"`
	AssigneeID       *uint64          `gorm:"index" json:"assignee_id,omitempty"`
	OrganizationID   uint64           `gorm:"not null" json:"organization_id"`
	EscalationStatus EscalationStatus `gorm:"type:varchar(20);not null;default:'NONE'" json:"escalation_status"`

	// Escalation ladder. A step with either field missing is disabled.
	// Durations are cumulative day offsets from the due date.
	Level1UserID        *uint64 `json:"level1_user_id,omitempty"`
	Level1Days          *int    `json:"level1_days,omitempty"`
	Level2UserID        *uint64 `json:"level2_user_id,omitempty"`
	Level2Days          *int    `json:"level2_days,omitempty"`
	EscalationEmail     *string `gorm:"type:varchar(255)" json:"escalation_email,omitempty"`
	EscalationEmailDays *int    `json:"escalation_email_days,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator      User             `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Assignee     *User            `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Organization Organization     `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Assignments  []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}
