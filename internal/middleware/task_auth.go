package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/guardline/workforce-api/internal/database"
	apierrors "github.com/guardline/workforce-api/internal/errors"
	"github.com/guardline/workforce-api/internal/models"
	"github.com/guardline/workforce-api/internal/utils"
)

// RequireTaskAccess loads the task behind the :id parameter and checks
// that the current user belongs to its organization. The loaded task is
// stored in the context under "task".
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := utils.ParseIDParam(c, "id")
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Preload("Creator").
			Preload("Organization").
			Preload("Assignments").
			Preload("Assignments.User").
			First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		// Membership check. 404 rather than 403 so non-members cannot
		// probe for task existence.
		var member models.OrganizationMember
		err = database.GetDB().
			Where("organization_id = ? AND user_id = ?", task.OrganizationID, userID).
			First(&member).Error
		if err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set("task", task)
		c.Next()
	}
}
