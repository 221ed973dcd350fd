package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guardline/workforce-api/internal/middleware"
	"github.com/guardline/workforce-api/internal/services"
	"github.com/guardline/workforce-api/internal/utils"
)

type LocationHandler struct {
	locationService *services.LocationService
}

func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// ListLocations returns every location, or only the current user's
// assigned ones when ?mine=true.
func (h *LocationHandler) ListLocations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if c.Query("mine") == "true" {
		locations, err := h.locationService.ListForUser(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch locations"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"locations": locations})
		return
	}

	locations, err := h.locationService.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch locations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// CreateLocation creates an administrator-defined location
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type CreateLocationRequest struct {
		Name         *string  `json:"name"`
		Latitude     *float64 `json:"latitude" binding:"required"`
		Longitude    *float64 `json:"longitude" binding:"required"`
		RadiusMeters float64  `json:"radius_meters"`
		Address      *string  `json:"address"`
	}

	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	location, err := h.locationService.CreateLocation(services.CreateLocationInput{
		Name:         req.Name,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		RadiusMeters: req.RadiusMeters,
		Address:      req.Address,
		CreatedBy:    userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCoordinates), errors.Is(err, services.ErrInvalidRadius):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDuplicateLocation):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create location"})
		}
		return
	}

	c.JSON(http.StatusCreated, location)
}

// AssignLocation links a user to a location. Re-assigning an existing
// pair succeeds silently.
func (h *LocationHandler) AssignLocation(c *gin.Context) {
	locationID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	type AssignRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.locationService.AssignToUser(req.UserID, locationID); err != nil {
		if errors.Is(err, services.ErrLocationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location assigned"})
}
