package dto

import (
	"time"

	"github.com/guardline/workforce-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64 `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID                      uint64 `json:"id"`
	Name                    string `json:"name"`
	InviteCode              string `json:"invite_code,omitempty"`
	AttendanceNotifications bool   `json:"attendance_notifications"`
}

// EscalationLadderDTO represents a task's escalation ladder
type EscalationLadderDTO struct {
	Level1UserID        *uint64 `json:"level1_user_id"`
	Level1Days          *int    `json:"level1_days"`
	Level2UserID        *uint64 `json:"level2_user_id"`
	Level2Days          *int    `json:"level2_days"`
	EscalationEmail     *string `json:"escalation_email"`
	EscalationEmailDays *int    `json:"escalation_email_days"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID               uint64                  `json:"id"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	Status           models.TaskStatus       `json:"status"`
	Priority         models.TaskPriority     `json:"priority"`
	DueDate          *time.Time              `json:"due_date"`
	CreatorID        uint64                  `json:"creator_id"`
	AssigneeID       *uint64                 `json:"assignee_id"`
	OrganizationID   uint64                  `json:"organization_id"`
	EscalationStatus models.EscalationStatus `json:"escalation_status"`
	Ladder           EscalationLadderDTO     `json:"escalation_ladder"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
	Creator          *UserDTO                `json:"creator,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization, includeInviteCode bool) OrganizationDTO {
	dto := OrganizationDTO{
		ID:                      org.ID,
		Name:                    org.Name,
		AttendanceNotifications: org.AttendanceNotifications,
	}
	if includeInviteCode {
		dto.InviteCode = org.InviteCode
	}
	return dto
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		Status:           task.Status,
		Priority:         task.Priority,
		DueDate:          task.DueDate,
		CreatorID:        task.CreatorID,
		AssigneeID:       task.AssigneeID,
		OrganizationID:   task.OrganizationID,
		EscalationStatus: task.EscalationStatus,
		Ladder: EscalationLadderDTO{
			Level1UserID:        task.Level1UserID,
			Level1Days:          task.Level1Days,
			Level2UserID:        task.Level2UserID,
			Level2Days:          task.Level2Days,
			EscalationEmail:     task.EscalationEmail,
			EscalationEmailDays: task.EscalationEmailDays,
		},
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}
	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
