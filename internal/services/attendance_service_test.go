package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/guardline/workforce-api/internal/geo"
	"github.com/guardline/workforce-api/internal/models"
)

type fakeAttendanceRepo struct {
	events    []models.AttendanceEvent
	listErr   error
	appendErr error
}

func (f *fakeAttendanceRepo) Append(event *models.AttendanceEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	event.ID = uint64(len(f.events) + 1)
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeAttendanceRepo) ListForUserOnDate(userID uint64, date time.Time) ([]models.AttendanceEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.AttendanceEvent
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeOrgRepo struct {
	org     *models.Organization
	findErr error
}

func (f *fakeOrgRepo) Create(*models.Organization) error { return errors.New("not implemented") }
func (f *fakeOrgRepo) FindByID(id uint64) (*models.Organization, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.org, nil
}
func (f *fakeOrgRepo) FindByInviteCode(string) (*models.Organization, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeOrgRepo) Update(*models.Organization) error { return errors.New("not implemented") }
func (f *fakeOrgRepo) AddMember(*models.OrganizationMember) error {
	return errors.New("not implemented")
}
func (f *fakeOrgRepo) RemoveMember(uint64, uint64) error { return errors.New("not implemented") }
func (f *fakeOrgRepo) FindMember(uint64, uint64) (*models.OrganizationMember, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeOrgRepo) ListMembersByUserID(uint64) ([]models.OrganizationMember, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeOrgRepo) ListMembers(uint64) ([]models.OrganizationMember, error) {
	return nil, errors.New("not implemented")
}

type fakeUserRepo struct {
	users    map[uint64]*models.User
	managers map[uint64][]models.User // location_id -> managers
}

func (f *fakeUserRepo) FindByID(id uint64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeUserRepo) FindByEmail(string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserRepo) ListManagersAtLocation(organizationID, locationID uint64) ([]models.User, error) {
	return f.managers[locationID], nil
}

func attendanceFixture() (*AttendanceService, *fakeAttendanceRepo, *fakeLocationRepo, *recordingNotifier) {
	attRepo := &fakeAttendanceRepo{}
	locRepo := newFakeLocationRepo()
	orgRepo := &fakeOrgRepo{org: &models.Organization{Name: "Guardline", AttendanceNotifications: true}}
	userRepo := &fakeUserRepo{
		users: map[uint64]*models.User{
			1: {Email: "guard@example.com", DisplayName: "Asha"},
		},
		managers: map[uint64][]models.User{},
	}
	userRepo.users[1].ID = 1
	notifier := &recordingNotifier{}

	svc := NewAttendanceService(attRepo, orgRepo, userRepo, NewGeofenceService(locRepo, geo.NoopGeocoder{}), notifier)
	return svc, attRepo, locRepo, notifier
}

func TestToggle_AlternatesDirection(t *testing.T) {
	svc, attRepo, _, _ := attendanceFixture()

	first, err := svc.Toggle(context.Background(), 1, 1, nil)
	assert.NoError(t, err)
	assert.True(t, first.CheckedIn)
	assert.Equal(t, models.AttendanceCheckIn, first.Event.Type)

	second, err := svc.Toggle(context.Background(), 1, 1, nil)
	assert.NoError(t, err)
	assert.False(t, second.CheckedIn)
	assert.Equal(t, models.AttendanceCheckOut, second.Event.Type)

	third, err := svc.Toggle(context.Background(), 1, 1, nil)
	assert.NoError(t, err)
	assert.True(t, third.CheckedIn)

	assert.Len(t, attRepo.events, 3)
}

func TestToggle_PersistsWhenGeofencingFails(t *testing.T) {
	svc, attRepo, locRepo, _ := attendanceFixture()
	locRepo.listForUserErr = errors.New("db down")
	locRepo.listAllErr = errors.New("db down")
	locRepo.createErr = errors.New("db down")

	source := geo.StaticSource{Position: &geo.Position{
		Latitude: 12.9716, Longitude: 77.5946, AccuracyMeters: floatPtr(30),
	}}

	result, err := svc.Toggle(context.Background(), 1, 1, source)

	assert.NoError(t, err)
	assert.Nil(t, result.Event.LocationID)
	if assert.Len(t, attRepo.events, 1) {
		// The raw coordinate still lands on the event.
		assert.Equal(t, 12.9716, *attRepo.events[0].Latitude)
	}
}

func TestToggle_ReadFailureDefaultsToCheckIn(t *testing.T) {
	svc, _, _, _ := attendanceFixture()
	svc.attendanceRepo.(*fakeAttendanceRepo).listErr = errors.New("db down")

	result, err := svc.Toggle(context.Background(), 1, 1, nil)

	assert.NoError(t, err)
	assert.True(t, result.CheckedIn)
}

func TestToggle_AppendFailureIsHard(t *testing.T) {
	svc, attRepo, _, notifier := attendanceFixture()
	attRepo.appendErr = errors.New("db down")

	result, err := svc.Toggle(context.Background(), 1, 1, nil)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, notifier.sent)
}

func TestToggle_MalformedPositionIsDropped(t *testing.T) {
	svc, _, locRepo, _ := attendanceFixture()

	source := geo.StaticSource{Position: &geo.Position{Latitude: 91.0, Longitude: 200.0}}

	result, err := svc.Toggle(context.Background(), 1, 1, source)

	assert.NoError(t, err)
	assert.Nil(t, result.Event.Latitude)
	assert.Nil(t, result.Event.LocationID)
	assert.Empty(t, locRepo.created)
}

func TestToggle_NotifiesManagers(t *testing.T) {
	svc, _, locRepo, notifier := attendanceFixture()

	locRepo.assigned[1] = []models.Location{
		{ID: 10, Name: strPtr("HQ Gate"), Latitude: 12.9716, Longitude: 77.5946, RadiusMeters: 100},
	}

	userRepo := svc.userRepo.(*fakeUserRepo)
	userRepo.users[1].ManagerID = uintPtr(5)
	siteManager := models.User{Email: "site@example.com"}
	siteManager.ID = 6
	userRepo.managers[10] = []models.User{siteManager}

	source := geo.StaticSource{Position: &geo.Position{
		Latitude: 12.9716, Longitude: 77.5946, AccuracyMeters: floatPtr(30),
	}}

	result, err := svc.Toggle(context.Background(), 1, 1, source)

	assert.NoError(t, err)
	assert.Equal(t, uint64(10), *result.Event.LocationID)
	assert.Contains(t, result.Message, "HQ Gate")

	// One self-notification plus one per distinct manager.
	recipients := map[uint64]int{}
	for _, n := range notifier.sent {
		recipients[*n.UserID]++
	}
	assert.Equal(t, map[uint64]int{1: 1, 5: 1, 6: 1}, recipients)
	for _, n := range notifier.sent {
		if *n.UserID != 1 {
			assert.Contains(t, n.Message, "Asha")
		}
	}
}

func TestToggle_ManagerIsNotNotifiedAboutThemselves(t *testing.T) {
	svc, _, locRepo, notifier := attendanceFixture()

	locRepo.assigned[1] = []models.Location{
		{ID: 10, Latitude: 12.9716, Longitude: 77.5946, RadiusMeters: 100},
	}

	userRepo := svc.userRepo.(*fakeUserRepo)
	self := models.User{Email: "guard@example.com"}
	self.ID = 1
	userRepo.managers[10] = []models.User{self}

	source := geo.StaticSource{Position: &geo.Position{
		Latitude: 12.9716, Longitude: 77.5946, AccuracyMeters: floatPtr(30),
	}}

	_, err := svc.Toggle(context.Background(), 1, 1, source)

	assert.NoError(t, err)
	for _, n := range notifier.sent {
		assert.Equal(t, uint64(1), *n.UserID)
	}
	assert.Len(t, notifier.sent, 1)
}

func TestToggle_NotificationsDisabledStaysQuiet(t *testing.T) {
	svc, _, _, notifier := attendanceFixture()
	svc.orgRepo.(*fakeOrgRepo).org.AttendanceNotifications = false

	_, err := svc.Toggle(context.Background(), 1, 1, nil)

	assert.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestToggle_MessageMentionsState(t *testing.T) {
	svc, _, _, _ := attendanceFixture()

	first, _ := svc.Toggle(context.Background(), 1, 1, nil)
	second, _ := svc.Toggle(context.Background(), 1, 1, nil)

	assert.True(t, strings.HasPrefix(first.Message, "Checked in"))
	assert.True(t, strings.HasPrefix(second.Message, "Checked out"))
}
