package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guardline/workforce-api/internal/dto"
	"github.com/guardline/workforce-api/internal/middleware"
	"github.com/guardline/workforce-api/internal/models"
	"github.com/guardline/workforce-api/internal/services"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// CreateOrganization creates a new organization
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type CreateOrgRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	org, err := h.orgService.CreateOrganization(services.CreateOrganizationInput{
		Name:    req.Name,
		OwnerID: userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrganizationName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Organization name cannot be empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization"})
		return
	}

	c.JSON(http.StatusCreated, org)
}

// ListOrganizations returns all organizations the user is a member of
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	memberships, err := h.orgService.ListOrganizationsForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organizations"})
		return
	}

	orgs := make([]dto.OrganizationWithRoleDTO, len(memberships))
	for i, m := range memberships {
		orgs[i] = dto.ToOrganizationWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

// JoinOrganization adds the user to an organization by invite code
func (h *OrganizationHandler) JoinOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	org, err := h.orgService.JoinByInviteCode(userID, req.InviteCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInviteCode):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid invite code"})
		case errors.Is(err, services.ErrAlreadyOrganizationMember):
			c.JSON(http.StatusConflict, gin.H{"error": "Already a member of this organization"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join organization"})
		}
		return
	}

	c.JSON(http.StatusOK, org)
}

// GetOrganization returns an organization with its members
// Organization is already loaded by RequireOrganizationAccess middleware
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	orgInterface, exists := c.Get("organization")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Organization not found in context"})
		return
	}
	org, ok := orgInterface.(models.Organization)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid organization data"})
		return
	}

	memberInterface, _ := c.Get("organization_member")
	member, _ := memberInterface.(models.OrganizationMember)

	_, members, err := h.orgService.GetOrganizationWithMembers(org.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organization"})
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDetailDTO(org, members, member.Role))
}

// UpdateOrganization updates an organization's name and settings
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	orgInterface, exists := c.Get("organization")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Organization not found in context"})
		return
	}
	org, ok := orgInterface.(models.Organization)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid organization data"})
		return
	}

	type UpdateOrgRequest struct {
		Name                    *string `json:"name"`
		AttendanceNotifications *bool   `json:"attendance_notifications"`
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := h.orgService.UpdateSettings(org.ID, services.UpdateSettingsInput{
		Name:                    req.Name,
		AttendanceNotifications: req.AttendanceNotifications,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrganizationName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Organization name cannot be empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update organization"})
		return
	}

	c.JSON(http.StatusOK, updated)
}
