package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guardline/workforce-api/internal/dto"
	"github.com/guardline/workforce-api/internal/middleware"
	"github.com/guardline/workforce-api/internal/models"
	"github.com/guardline/workforce-api/internal/services"
	"github.com/guardline/workforce-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// EscalationLadderRequest is the wire form of a task's escalation ladder
type EscalationLadderRequest struct {
	Level1UserID        *uint64 `json:"level1_user_id"`
	Level1Days          *int    `json:"level1_days"`
	Level2UserID        *uint64 `json:"level2_user_id"`
	Level2Days          *int    `json:"level2_days"`
	EscalationEmail     *string `json:"escalation_email"`
	EscalationEmailDays *int    `json:"escalation_email_days"`
}

func (r *EscalationLadderRequest) toInput() services.EscalationLadderInput {
	return services.EscalationLadderInput{
		Level1UserID:        r.Level1UserID,
		Level1Days:          r.Level1Days,
		Level2UserID:        r.Level2UserID,
		Level2Days:          r.Level2Days,
		EscalationEmail:     r.EscalationEmail,
		EscalationEmailDays: r.EscalationEmailDays,
	}
}

// ListTasks returns all tasks accessible by the current user.
// Can filter by organization_id, status, priority, assigned_to_me, due_today.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	input := services.ListTasksInput{
		UserID:        userID,
		AssignedToMe:  c.Query("assigned_to_me") == "true",
		DueToday:      c.Query("due_today") == "true",
		SortByDueDate: c.Query("sort") == "due_date",
	}

	if organizationIDStr := c.Query("organization_id"); organizationIDStr != "" {
		orgID, err := strconv.ParseUint(organizationIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization_id"})
			return
		}
		input.OrganizationID = &orgID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		input.Status = &status
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		priority := models.TaskPriority(priorityStr)
		input.Priority = &priority
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		if errors.Is(err, services.ErrNotOrganizationMember) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this organization"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns a specific task by ID
// Task is already loaded with relations by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskInterface, exists := c.Get("task")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Task not found in context"})
		return
	}

	task, ok := taskInterface.(models.Task)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid task data"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type CreateTaskRequest struct {
		Title          string                   `json:"title" binding:"required"`
		Description    string                   `json:"description"`
		Priority       models.TaskPriority      `json:"priority"`
		DueDate        *time.Time               `json:"due_date"`
		AssigneeID     *uint64                  `json:"assignee_id"`
		OrganizationID uint64                   `json:"organization_id" binding:"required"`
		Ladder         *EscalationLadderRequest `json:"escalation_ladder"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input := services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		AssigneeID:     req.AssigneeID,
		OrganizationID: req.OrganizationID,
		CreatorID:      userID,
	}
	if req.Ladder != nil {
		input.Ladder = req.Ladder.toInput()
	}

	task, err := h.taskService.CreateTask(input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotOrganizationMember):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this organization"})
		case errors.Is(err, services.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskInterface, exists := c.Get("task")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Task not found in context"})
		return
	}

	task, ok := taskInterface.(models.Task)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid task data"})
		return
	}

	type UpdateTaskRequest struct {
		Title        *string                  `json:"title"`
		Description  *string                  `json:"description"`
		Status       *models.TaskStatus       `json:"status"`
		Priority     *models.TaskPriority     `json:"priority"`
		DueDate      *time.Time               `json:"due_date"`
		ClearDueDate bool                     `json:"clear_due_date"`
		AssigneeID   *uint64                  `json:"assignee_id"`
		Ladder       *EscalationLadderRequest `json:"escalation_ladder"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input := services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		AssigneeID:   req.AssigneeID,
	}
	if req.Ladder != nil {
		ladder := req.Ladder.toInput()
		input.Ladder = &ladder
	}

	updated, err := h.taskService.UpdateTask(task.ID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrTitleEmpty):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title cannot be empty"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrNotTaskCreator):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the task creator can delete it"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// SetStatus moves a task through TODO / IN_PROGRESS / DONE
func (h *TaskHandler) SetStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	type StatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	switch req.Status {
	case models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusDone:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	task, err := h.taskService.SetTaskStatus(taskID, userID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrTaskPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "You cannot modify this task"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set status"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// AssignTask assigns users to a task
func (h *TaskHandler) AssignTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	type AssignRequest struct {
		UserIDs []uint64 `json:"user_ids" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err = h.taskService.AssignUsers(services.AssignUsersInput{
		TaskID:  taskID,
		ActorID: userID,
		UserIDs: req.UserIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrNotTaskCreator):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the task creator can assign users"})
		case errors.Is(err, services.ErrNoUserIDsProvided), errors.Is(err, services.ErrInvalidTaskAssignee):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign users"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Users assigned"})
}

// UnassignTask removes user assignments from a task
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	type UnassignRequest struct {
		UserIDs []uint64 `json:"user_ids" binding:"required"`
	}

	var req UnassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.taskService.UnassignUsers(taskID, userID, req.UserIDs); err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrNotTaskCreator):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the task creator can unassign users"})
		case errors.Is(err, services.ErrNoUserIDsProvided):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unassign users"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Users unassigned"})
}

// GenerateTasks extracts tasks from free text using the AI service
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type GenerateRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		Text: req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAIServiceNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI service is not configured"})
		case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tasks"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
