package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/guardline/workforce-api/internal/geo"
	"github.com/guardline/workforce-api/internal/models"
	"github.com/guardline/workforce-api/internal/repository"
)

// AttendanceService toggles a user between checked-in and checked-out.
// The only hard failure is the event insert itself: geolocation,
// geofencing and notification delivery are all best-effort.
type AttendanceService struct {
	attendanceRepo repository.AttendanceRepository
	orgRepo        repository.OrganizationRepository
	userRepo       repository.UserRepository
	geofence       *GeofenceService
	notifier       Notifier
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	geofence *GeofenceService,
	notifier Notifier,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		orgRepo:        orgRepo,
		userRepo:       userRepo,
		geofence:       geofence,
		notifier:       notifier,
	}
}

// ToggleResult describes the recorded event.
type ToggleResult struct {
	Event     *models.AttendanceEvent
	CheckedIn bool
	Message   string
}

// Toggle records the opposite of the user's last attendance event for
// today. A position, when the source yields one, is classified against
// the user's geofences; the event is persisted either way.
func (s *AttendanceService) Toggle(ctx context.Context, userID, organizationID uint64, source geo.PositionSource) (*ToggleResult, error) {
	now := time.Now().UTC()

	eventType := models.AttendanceCheckIn
	events, err := s.attendanceRepo.ListForUserOnDate(userID, now)
	if err != nil {
		// Degrade to a check-in rather than refusing the toggle.
		log.Printf("attendance: failed to read today's events for user %d: %v", userID, err)
	} else if len(events) > 0 && events[len(events)-1].Type == models.AttendanceCheckIn {
		eventType = models.AttendanceCheckOut
	}

	var pos *geo.Position
	if source != nil {
		pos = source.Current(ctx)
	}
	if pos != nil && !geo.ValidCoordinate(pos.Latitude, pos.Longitude) {
		log.Printf("attendance: ignoring malformed position (%f, %f) for user %d", pos.Latitude, pos.Longitude, userID)
		pos = nil
	}

	var match *LocationMatch
	if pos != nil {
		match = s.geofence.Resolve(ctx, userID, *pos)
	}

	event := &models.AttendanceEvent{
		UserID:         userID,
		OrganizationID: organizationID,
		Type:           eventType,
		Timestamp:      now,
	}
	if pos != nil {
		event.Latitude = &pos.Latitude
		event.Longitude = &pos.Longitude
		event.AccuracyMeters = pos.AccuracyMeters
	}
	if match != nil {
		event.LocationID = &match.Location.ID
	}

	if err := s.attendanceRepo.Append(event); err != nil {
		return nil, fmt.Errorf("failed to record attendance event: %w", err)
	}

	s.notify(userID, organizationID, event, match)

	checkedIn := eventType == models.AttendanceCheckIn
	message := "Checked out"
	if checkedIn {
		message = "Checked in"
	}
	if match != nil && match.Location.Name != nil {
		message = fmt.Sprintf("%s at %s", message, *match.Location.Name)
	}

	return &ToggleResult{
		Event:     event,
		CheckedIn: checkedIn,
		Message:   message,
	}, nil
}

// notify fans out the event to the user and their managers when the
// organization has attendance notifications enabled. All of it is
// best-effort.
func (s *AttendanceService) notify(userID, organizationID uint64, event *models.AttendanceEvent, match *LocationMatch) {
	org, err := s.orgRepo.FindByID(organizationID)
	if err != nil {
		log.Printf("attendance: failed to load organization %d: %v", organizationID, err)
		return
	}
	if !org.AttendanceNotifications {
		return
	}

	verb := "checked out"
	if event.Type == models.AttendanceCheckIn {
		verb = "checked in"
	}
	at := event.Timestamp.Format("15:04")
	place := ""
	if match != nil && match.Location.Name != nil {
		place = fmt.Sprintf(" at %s", *match.Location.Name)
	}
	link := "/attendance"

	s.notifier.Send(NotificationInput{
		UserID:  &userID,
		Message: fmt.Sprintf("You %s%s at %s", verb, place, at),
		Type:    models.NotificationAttendance,
		LinkTo:  &link,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		log.Printf("attendance: failed to load user %d: %v", userID, err)
		return
	}

	name := user.DisplayName
	if name == "" {
		name = user.Email
	}

	// Recipients: the direct manager plus managers assigned to the
	// resolved location, deduplicated, never the user themselves.
	recipients := make(map[uint64]struct{})
	if user.ManagerID != nil {
		recipients[*user.ManagerID] = struct{}{}
	}
	if match != nil {
		managers, err := s.userRepo.ListManagersAtLocation(organizationID, match.Location.ID)
		if err != nil {
			log.Printf("attendance: failed to list nearby managers: %v", err)
		} else {
			for _, m := range managers {
				recipients[m.ID] = struct{}{}
			}
		}
	}
	delete(recipients, userID)

	for managerID := range recipients {
		id := managerID
		s.notifier.Send(NotificationInput{
			UserID:  &id,
			Message: fmt.Sprintf("%s %s%s at %s", name, verb, place, at),
			Type:    models.NotificationAttendance,
			LinkTo:  &link,
		})
	}
}
