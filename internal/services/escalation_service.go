package services

import (
	"fmt"
	"log"
	"time"

	"github.com/guardline/workforce-api/internal/models"
	"github.com/guardline/workforce-api/internal/repository"
)

// EscalationOutcome is the result of evaluating one task: the status it
// should move to (equal to the current one when nothing fires) and the
// notifications to emit.
type EscalationOutcome struct {
	Status        models.EscalationStatus
	Notifications []NotificationInput
}

// EvaluateEscalation decides whether a task's escalation status should
// advance. It is pure: the caller persists the returned status before
// the next sweep, which is what keeps repeated runs from re-notifying.
//
// At most one transition fires per call, however overdue the task is;
// later levels are reached on subsequent sweeps. Day thresholds are
// cumulative offsets from the due date, not from the previous level.
// A ladder step missing its recipient or its duration is disabled.
func EvaluateEscalation(task *models.Task, today time.Time) EscalationOutcome {
	outcome := EscalationOutcome{Status: task.EscalationStatus}

	if task.Status == models.TaskStatusDone || task.DueDate == nil {
		return outcome
	}

	daysOverdue := calendarDaysBetween(*task.DueDate, today)
	if daysOverdue < 0 {
		return outcome
	}

	switch task.EscalationStatus {
	case models.EscalationNone:
		if task.Level1UserID != nil && task.Level1Days != nil && daysOverdue >= *task.Level1Days {
			outcome.Status = models.EscalationLevel1
			outcome.Notifications = append(outcome.Notifications, escalationNotice(task, *task.Level1UserID, daysOverdue))
		}

	case models.EscalationLevel1:
		if task.Level2UserID != nil && task.Level2Days != nil &&
			daysOverdue >= daysOrZero(task.Level1Days)+*task.Level2Days {
			outcome.Status = models.EscalationLevel2
			outcome.Notifications = append(outcome.Notifications, escalationNotice(task, *task.Level2UserID, daysOverdue))
		}

	case models.EscalationLevel2:
		if task.EscalationEmail != nil && task.EscalationEmailDays != nil &&
			daysOverdue >= daysOrZero(task.Level1Days)+daysOrZero(task.Level2Days)+*task.EscalationEmailDays {
			// The mail itself is sent by an external collaborator; the
			// engine only marks the transition.
			outcome.Status = models.EscalationEmailSent
		}

	case models.EscalationEmailSent:
		// Terminal.
	}

	return outcome
}

// calendarDaysBetween returns whole calendar days from a to b, both
// truncated to midnight UTC.
func calendarDaysBetween(a, b time.Time) int {
	a, b = a.UTC(), b.UTC()
	aMidnight := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bMidnight := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bMidnight.Sub(aMidnight).Hours() / 24)
}

func daysOrZero(d *int) int {
	if d == nil {
		return 0
	}
	return *d
}

func escalationNotice(task *models.Task, recipientID uint64, daysOverdue int) NotificationInput {
	link := fmt.Sprintf("/tasks/%d", task.ID)
	return NotificationInput{
		UserID:  &recipientID,
		Message: fmt.Sprintf("Task %q is %d day(s) overdue and has been escalated to you", task.Title, daysOverdue),
		Type:    models.NotificationEscalation,
		LinkTo:  &link,
	}
}

// SweepSummary reports what one escalation sweep did.
type SweepSummary struct {
	Evaluated int `json:"evaluated"`
	Escalated int `json:"escalated"`
	Failed    int `json:"failed"`
}

// EscalationService runs the periodic sweep over open tasks.
type EscalationService struct {
	taskRepo repository.TaskRepository
	notifier Notifier
}

// NewEscalationService creates a new EscalationService
func NewEscalationService(taskRepo repository.TaskRepository, notifier Notifier) *EscalationService {
	return &EscalationService{
		taskRepo: taskRepo,
		notifier: notifier,
	}
}

// Sweep evaluates every open task with a due date. Each task is an
// independent unit: one failed update is counted and logged, and the
// sweep moves on.
func (s *EscalationService) Sweep(now time.Time) (SweepSummary, error) {
	var summary SweepSummary

	tasks, err := s.taskRepo.ListOpenWithDueDate()
	if err != nil {
		return summary, fmt.Errorf("failed to list open tasks: %w", err)
	}

	for i := range tasks {
		task := &tasks[i]
		summary.Evaluated++

		outcome := EvaluateEscalation(task, now)
		if outcome.Status == task.EscalationStatus {
			continue
		}

		if err := s.taskRepo.UpdateEscalationStatus(task.ID, outcome.Status); err != nil {
			log.Printf("escalation: failed to update task %d to %s: %v", task.ID, outcome.Status, err)
			summary.Failed++
			continue
		}

		for _, n := range outcome.Notifications {
			s.notifier.Send(n)
		}
		summary.Escalated++
	}

	return summary, nil
}

// RunEvery sweeps on a fixed interval until stop is closed. Wired up in
// main when ESCALATION_INTERVAL is non-zero.
func (s *EscalationService) RunEvery(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if summary, err := s.Sweep(time.Now().UTC()); err != nil {
				log.Printf("escalation sweep failed: %v", err)
			} else if summary.Escalated > 0 || summary.Failed > 0 {
				log.Printf("escalation sweep: evaluated=%d escalated=%d failed=%d",
					summary.Evaluated, summary.Escalated, summary.Failed)
			}
		case <-stop:
			return
		}
	}
}
