package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/guardline/workforce-api/internal/models"
	"github.com/guardline/workforce-api/internal/repository"
)

func intPtr(v int) *int          { return &v }
func uintPtr(v uint64) *uint64   { return &v }
func strPtr(v string) *string    { return &v }
func datePtr(v time.Time) *time.Time { return &v }

func ladderTask(due time.Time, status models.EscalationStatus) *models.Task {
	return &models.Task{
		Title:               "Patrol report",
		Status:              models.TaskStatusTodo,
		DueDate:             datePtr(due),
		EscalationStatus:    status,
		Level1UserID:        uintPtr(11),
		Level1Days:          intPtr(5),
		Level2UserID:        uintPtr(12),
		Level2Days:          intPtr(10),
		EscalationEmail:     strPtr("ops@example.com"),
		EscalationEmailDays: intPtr(7),
	}
}

func TestEvaluateEscalation_OneStepPerRun(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	today := due.AddDate(0, 0, 40)

	task := ladderTask(due, models.EscalationNone)
	outcome := EvaluateEscalation(task, today)

	// 40 days overdue clears every threshold, but a single run only
	// advances one level.
	assert.Equal(t, models.EscalationLevel1, outcome.Status)
	assert.Len(t, outcome.Notifications, 1)
	assert.Equal(t, uint64(11), *outcome.Notifications[0].UserID)
}

func TestEvaluateEscalation_LadderScenario(t *testing.T) {
	// Due 2024-01-01, evaluated 19 days later with thresholds 5/10/7.
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC)

	task := ladderTask(due, models.EscalationNone)

	// First run: 19 >= 5, Level 1 fires.
	outcome := EvaluateEscalation(task, today)
	assert.Equal(t, models.EscalationLevel1, outcome.Status)
	task.EscalationStatus = outcome.Status

	// Second run: 19 >= 5+10, Level 2 fires.
	outcome = EvaluateEscalation(task, today)
	assert.Equal(t, models.EscalationLevel2, outcome.Status)
	assert.Equal(t, uint64(12), *outcome.Notifications[0].UserID)
	task.EscalationStatus = outcome.Status

	// Third run: 19 < 5+10+7, the email step does not fire yet.
	outcome = EvaluateEscalation(task, today)
	assert.Equal(t, models.EscalationLevel2, outcome.Status)
	assert.Empty(t, outcome.Notifications)

	// Three days later the cumulative threshold is met. The email step
	// emits no in-app notification.
	outcome = EvaluateEscalation(task, today.AddDate(0, 0, 3))
	assert.Equal(t, models.EscalationEmailSent, outcome.Status)
	assert.Empty(t, outcome.Notifications)
}

func TestEvaluateEscalation_EmailSentIsTerminal(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	task := ladderTask(due, models.EscalationEmailSent)
	outcome := EvaluateEscalation(task, due.AddDate(0, 0, 365))

	assert.Equal(t, models.EscalationEmailSent, outcome.Status)
	assert.Empty(t, outcome.Notifications)
}

func TestEvaluateEscalation_MissingDurationDisablesStep(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	task := ladderTask(due, models.EscalationNone)
	task.Level1Days = nil

	outcome := EvaluateEscalation(task, due.AddDate(0, 0, 40))

	assert.Equal(t, models.EscalationNone, outcome.Status)
	assert.Empty(t, outcome.Notifications)
}

func TestEvaluateEscalation_MissingRecipientDisablesStep(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	task := ladderTask(due, models.EscalationLevel1)
	task.Level2UserID = nil

	outcome := EvaluateEscalation(task, due.AddDate(0, 0, 40))

	assert.Equal(t, models.EscalationLevel1, outcome.Status)
}

func TestEvaluateEscalation_NotYetOverdue(t *testing.T) {
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	task := ladderTask(due, models.EscalationNone)
	outcome := EvaluateEscalation(task, due.AddDate(0, 0, -1))

	assert.Equal(t, models.EscalationNone, outcome.Status)
}

func TestEvaluateEscalation_DoneTaskNeverEscalates(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	task := ladderTask(due, models.EscalationNone)
	task.Status = models.TaskStatusDone

	outcome := EvaluateEscalation(task, due.AddDate(0, 0, 40))

	assert.Equal(t, models.EscalationNone, outcome.Status)
}

func TestCalendarDaysBetween_TruncatesToMidnight(t *testing.T) {
	due := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	now := time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC)

	// Two minutes apart on the clock, one calendar day apart.
	assert.Equal(t, 1, calendarDaysBetween(due, now))
	assert.Equal(t, -1, calendarDaysBetween(now, due))
	assert.Equal(t, 0, calendarDaysBetween(now, now))
}

func TestCalendarDaysBetween_NormalizesZones(t *testing.T) {
	// 2024-01-01 20:00 in UTC-8 is 2024-01-02 04:00 UTC; the UTC date
	// is what counts, not the wall-clock date of the original zone.
	due := time.Date(2024, 1, 1, 20, 0, 0, 0, time.FixedZone("PST", -8*60*60))
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, calendarDaysBetween(due, now))
	assert.Equal(t, 1, calendarDaysBetween(due, now.AddDate(0, 0, 1)))
}

// sweepTaskRepo backs the sweep tests; only the escalation paths are
// implemented.
type sweepTaskRepo struct {
	tasks     []models.Task
	listErr   error
	updateErr map[uint64]error
	updates   map[uint64]models.EscalationStatus
}

func (f *sweepTaskRepo) Create(*models.Task) error                      { return errors.New("not implemented") }
func (f *sweepTaskRepo) FindByID(uint64, ...string) (*models.Task, error) {
	return nil, errors.New("not implemented")
}
func (f *sweepTaskRepo) List(repository.TaskFilter) ([]models.Task, int64, error) {
	return nil, 0, errors.New("not implemented")
}
func (f *sweepTaskRepo) Update(*models.Task) error { return errors.New("not implemented") }
func (f *sweepTaskRepo) Delete(uint64) error       { return errors.New("not implemented") }

func (f *sweepTaskRepo) ListOpenWithDueDate() ([]models.Task, error) {
	return f.tasks, f.listErr
}

func (f *sweepTaskRepo) UpdateEscalationStatus(taskID uint64, status models.EscalationStatus) error {
	if err := f.updateErr[taskID]; err != nil {
		return err
	}
	if f.updates == nil {
		f.updates = map[uint64]models.EscalationStatus{}
	}
	f.updates[taskID] = status
	return nil
}

func (f *sweepTaskRepo) AssignUsers(uint64, []uint64) error   { return errors.New("not implemented") }
func (f *sweepTaskRepo) UnassignUsers(uint64, []uint64) error { return errors.New("not implemented") }
func (f *sweepTaskRepo) CountUsersByIDs([]uint64, uint64) (int64, error) {
	return 0, errors.New("not implemented")
}

type recordingNotifier struct {
	sent []NotificationInput
}

func (r *recordingNotifier) Send(input NotificationInput) {
	r.sent = append(r.sent, input)
}

func TestSweep_IsolatesFailures(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 0, 10)

	broken := *ladderTask(due, models.EscalationNone)
	broken.ID = 1
	advancing := *ladderTask(due, models.EscalationNone)
	advancing.ID = 2
	quiet := *ladderTask(due.AddDate(0, 1, 0), models.EscalationNone)
	quiet.ID = 3

	repo := &sweepTaskRepo{
		tasks:     []models.Task{broken, advancing, quiet},
		updateErr: map[uint64]error{1: errors.New("db down")},
	}
	notifier := &recordingNotifier{}

	svc := NewEscalationService(repo, notifier)
	summary, err := svc.Sweep(now)

	assert.NoError(t, err)
	assert.Equal(t, SweepSummary{Evaluated: 3, Escalated: 1, Failed: 1}, summary)
	assert.Equal(t, models.EscalationLevel1, repo.updates[2])

	// The failed update must not notify.
	assert.Len(t, notifier.sent, 1)
	assert.Equal(t, uint64(11), *notifier.sent[0].UserID)
}

func TestSweep_ListFailureAborts(t *testing.T) {
	repo := &sweepTaskRepo{listErr: errors.New("db down")}
	svc := NewEscalationService(repo, &recordingNotifier{})

	summary, err := svc.Sweep(time.Now().UTC())

	assert.Error(t, err)
	assert.Zero(t, summary.Evaluated)
}
