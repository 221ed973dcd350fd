package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guardline/workforce-api/internal/geo"
	"github.com/guardline/workforce-api/internal/middleware"
	"github.com/guardline/workforce-api/internal/models"
	"github.com/guardline/workforce-api/internal/repository"
	"github.com/guardline/workforce-api/internal/services"
)

type AttendanceHandler struct {
	attendanceService *services.AttendanceService
	attendanceRepo    repository.AttendanceRepository
}

func NewAttendanceHandler(attendanceService *services.AttendanceService, attendanceRepo repository.AttendanceRepository) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
		attendanceRepo:    attendanceRepo,
	}
}

// Toggle records a check-in or check-out for the current user. The
// position is optional: a toggle without one is still recorded, just
// without geofence classification.
func (h *AttendanceHandler) Toggle(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type ToggleRequest struct {
		OrganizationID uint64   `json:"organization_id" binding:"required"`
		Latitude       *float64 `json:"latitude"`
		Longitude      *float64 `json:"longitude"`
		AccuracyMeters *float64 `json:"accuracy_meters"`
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var source geo.PositionSource
	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude == nil || req.Longitude == nil || !geo.ValidCoordinate(*req.Latitude, *req.Longitude) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
			return
		}
		if req.AccuracyMeters != nil && *req.AccuracyMeters < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid accuracy"})
			return
		}
		source = geo.StaticSource{Position: &geo.Position{
			Latitude:       *req.Latitude,
			Longitude:      *req.Longitude,
			AccuracyMeters: req.AccuracyMeters,
		}}
	}

	result, err := h.attendanceService.Toggle(c.Request.Context(), userID, req.OrganizationID, source)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attendance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checked_in": result.CheckedIn,
		"message":    result.Message,
		"event":      result.Event,
	})
}

// ListToday returns the current user's attendance events for a day
// (query param date=YYYY-MM-DD, default today).
func (h *AttendanceHandler) ListToday(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	date := time.Now().UTC()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	events, err := h.attendanceRepo.ListForUserOnDate(userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance events"})
		return
	}

	checkedIn := len(events) > 0 && events[len(events)-1].Type == models.AttendanceCheckIn

	c.JSON(http.StatusOK, gin.H{
		"events":     events,
		"checked_in": checkedIn,
	})
}
