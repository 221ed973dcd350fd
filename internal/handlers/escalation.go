package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guardline/workforce-api/internal/services"
)

type EscalationHandler struct {
	escalationService *services.EscalationService
}

func NewEscalationHandler(escalationService *services.EscalationService) *EscalationHandler {
	return &EscalationHandler{escalationService: escalationService}
}

// Run triggers an on-demand escalation sweep over all open tasks and
// reports what it did. The same sweep runs periodically in the
// background; this endpoint exists for schedulers and operators.
func (h *EscalationHandler) Run(c *gin.Context) {
	summary, err := h.escalationService.Sweep(time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Escalation sweep failed"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
