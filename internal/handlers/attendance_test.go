package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/guardline/workforce-api/internal/database"
	"github.com/guardline/workforce-api/internal/geo"
	"github.com/guardline/workforce-api/internal/models"
	"github.com/guardline/workforce-api/internal/repository"
	"github.com/guardline/workforce-api/internal/services"
)

// AttendanceHandlerTestSuite defines the test suite for AttendanceHandler
type AttendanceHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *AttendanceHandler
}

// SetupTest runs before each test
func (suite *AttendanceHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Location{},
		&models.UserLocationAssignment{},
		&models.AttendanceEvent{},
		&models.Notification{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	attendanceRepo := repository.NewAttendanceRepository(suite.db)
	locationRepo := repository.NewLocationRepository(suite.db)
	orgRepo := repository.NewOrganizationRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	notificationRepo := repository.NewNotificationRepository(suite.db)

	notifier := services.NewNotificationService(notificationRepo)
	geofence := services.NewGeofenceService(locationRepo, geo.NoopGeocoder{})
	attendanceService := services.NewAttendanceService(attendanceRepo, orgRepo, userRepo, geofence, notifier)

	suite.handler = NewAttendanceHandler(attendanceService, attendanceRepo)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *AttendanceHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AttendanceHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:       email,
		DisplayName: "Test Guard",
	}
	suite.db.Create(user)
	return user
}

func (suite *AttendanceHandlerTestSuite) createTestOrganization(name string) *models.Organization {
	org := &models.Organization{
		Name:                    name,
		InviteCode:              name + "_CODE",
		AttendanceNotifications: true,
	}
	suite.db.Create(org)
	return org
}

func (suite *AttendanceHandlerTestSuite) createTestLocation(name string, lat, lon, radius float64, createdBy uint64) *models.Location {
	location := &models.Location{
		Name:         &name,
		Latitude:     lat,
		Longitude:    lon,
		RadiusMeters: radius,
		CreatedBy:    createdBy,
	}
	suite.db.Create(location)
	return location
}

func (suite *AttendanceHandlerTestSuite) assignLocation(userID, locationID uint64) {
	suite.db.Create(&models.UserLocationAssignment{UserID: userID, LocationID: locationID})
}

// Helper function to create authenticated context
func (suite *AttendanceHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)

	return c, w
}

func (suite *AttendanceHandlerTestSuite) toggleBody(orgID uint64, lat, lon, accuracy float64) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"organization_id": orgID,
		"latitude":        lat,
		"longitude":       lon,
		"accuracy_meters": accuracy,
	})
	return body
}

func (suite *AttendanceHandlerTestSuite) TestToggle_ChecksInAtAssignedLocation() {
	user := suite.createTestUser("guard@example.com")
	org := suite.createTestOrganization("Guardline")
	location := suite.createTestLocation("HQ Gate", 12.9716, 77.5946, 100, user.ID)
	suite.assignLocation(user.ID, location.ID)

	body := suite.toggleBody(org.ID, 12.9716, 77.5946, 50)
	c, w := suite.createAuthContext("POST", "/api/attendance/toggle", body, user.ID)
	suite.handler.Toggle(c)

	suite.Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(true, response["checked_in"])
	suite.Contains(response["message"], "HQ Gate")

	var event models.AttendanceEvent
	suite.Require().NoError(suite.db.First(&event).Error)
	suite.Equal(models.AttendanceCheckIn, event.Type)
	suite.Require().NotNil(event.LocationID)
	suite.Equal(location.ID, *event.LocationID)

	// Self-notification lands; the user has no manager, so nothing else.
	var notifications []models.Notification
	suite.db.Find(&notifications)
	suite.Len(notifications, 1)
	suite.Equal(user.ID, *notifications[0].UserID)
}

func (suite *AttendanceHandlerTestSuite) TestToggle_AlternatesDirection() {
	user := suite.createTestUser("guard@example.com")
	org := suite.createTestOrganization("Guardline")

	body, _ := json.Marshal(map[string]interface{}{"organization_id": org.ID})

	for i, want := range []models.AttendanceType{models.AttendanceCheckIn, models.AttendanceCheckOut, models.AttendanceCheckIn} {
		c, w := suite.createAuthContext("POST", "/api/attendance/toggle", body, user.ID)
		suite.handler.Toggle(c)
		suite.Equal(http.StatusOK, w.Code, fmt.Sprintf("toggle %d", i))

		var events []models.AttendanceEvent
		suite.db.Order("id").Find(&events)
		suite.Equal(want, events[len(events)-1].Type)
	}
}

func (suite *AttendanceHandlerTestSuite) TestToggle_InaccurateFixSkipsGeofencing() {
	user := suite.createTestUser("guard@example.com")
	org := suite.createTestOrganization("Guardline")
	location := suite.createTestLocation("HQ Gate", 12.9716, 77.5946, 100, user.ID)
	suite.assignLocation(user.ID, location.ID)

	body := suite.toggleBody(org.ID, 12.9716, 77.5946, 1500)
	c, w := suite.createAuthContext("POST", "/api/attendance/toggle", body, user.ID)
	suite.handler.Toggle(c)

	suite.Equal(http.StatusOK, w.Code)

	var event models.AttendanceEvent
	suite.Require().NoError(suite.db.First(&event).Error)
	suite.Nil(event.LocationID)
	suite.Require().NotNil(event.AccuracyMeters)
	suite.Equal(1500.0, *event.AccuracyMeters)

	// No phantom location either.
	var count int64
	suite.db.Model(&models.Location{}).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *AttendanceHandlerTestSuite) TestToggle_AutoCreatesLocation() {
	user := suite.createTestUser("guard@example.com")
	org := suite.createTestOrganization("Guardline")

	body := suite.toggleBody(org.ID, 12.9716, 77.5946, 30)
	c, w := suite.createAuthContext("POST", "/api/attendance/toggle", body, user.ID)
	suite.handler.Toggle(c)

	suite.Equal(http.StatusOK, w.Code)

	var location models.Location
	suite.Require().NoError(suite.db.First(&location).Error)
	suite.Equal(100.0, location.RadiusMeters)
	suite.Equal(user.ID, location.CreatedBy)

	var assignment models.UserLocationAssignment
	suite.Require().NoError(suite.db.First(&assignment).Error)
	suite.Equal(user.ID, assignment.UserID)
	suite.Equal(location.ID, assignment.LocationID)

	var event models.AttendanceEvent
	suite.Require().NoError(suite.db.First(&event).Error)
	suite.Require().NotNil(event.LocationID)
	suite.Equal(location.ID, *event.LocationID)
}

func (suite *AttendanceHandlerTestSuite) TestToggle_NotifiesDirectManager() {
	manager := suite.createTestUser("manager@example.com")
	user := suite.createTestUser("guard@example.com")
	suite.db.Model(user).Update("manager_id", manager.ID)
	org := suite.createTestOrganization("Guardline")

	body, _ := json.Marshal(map[string]interface{}{"organization_id": org.ID})
	c, w := suite.createAuthContext("POST", "/api/attendance/toggle", body, user.ID)
	suite.handler.Toggle(c)

	suite.Equal(http.StatusOK, w.Code)

	var notifications []models.Notification
	suite.db.Order("id").Find(&notifications)
	suite.Require().Len(notifications, 2)

	recipients := map[uint64]bool{}
	for _, n := range notifications {
		recipients[*n.UserID] = true
		suite.Equal(models.NotificationAttendance, n.Type)
	}
	suite.True(recipients[user.ID])
	suite.True(recipients[manager.ID])
}

func (suite *AttendanceHandlerTestSuite) TestToggle_RespectsOrganizationSetting() {
	user := suite.createTestUser("guard@example.com")
	org := suite.createTestOrganization("Guardline")
	suite.db.Model(org).Update("attendance_notifications", false)

	body, _ := json.Marshal(map[string]interface{}{"organization_id": org.ID})
	c, w := suite.createAuthContext("POST", "/api/attendance/toggle", body, user.ID)
	suite.handler.Toggle(c)

	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Notification{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *AttendanceHandlerTestSuite) TestToggle_MissingOrganizationID() {
	user := suite.createTestUser("guard@example.com")

	c, w := suite.createAuthContext("POST", "/api/attendance/toggle", []byte(`{}`), user.ID)
	suite.handler.Toggle(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AttendanceHandlerTestSuite) TestToggle_RejectsHalfCoordinate() {
	user := suite.createTestUser("guard@example.com")
	org := suite.createTestOrganization("Guardline")

	body, _ := json.Marshal(map[string]interface{}{
		"organization_id": org.ID,
		"latitude":        12.9716,
	})
	c, w := suite.createAuthContext("POST", "/api/attendance/toggle", body, user.ID)
	suite.handler.Toggle(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AttendanceHandlerTestSuite) TestListToday_ReportsCheckedInState() {
	user := suite.createTestUser("guard@example.com")
	org := suite.createTestOrganization("Guardline")

	body, _ := json.Marshal(map[string]interface{}{"organization_id": org.ID})
	c, _ := suite.createAuthContext("POST", "/api/attendance/toggle", body, user.ID)
	suite.handler.Toggle(c)

	c, w := suite.createAuthContext("GET", "/api/attendance", nil, user.ID)
	suite.handler.ListToday(c)

	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Events    []models.AttendanceEvent `json:"events"`
		CheckedIn bool                     `json:"checked_in"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response.Events, 1)
	suite.True(response.CheckedIn)
}

func TestAttendanceHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AttendanceHandlerTestSuite))
}
