package services

import (
	"fmt"
	"log"

	"github.com/guardline/workforce-api/internal/models"
	"github.com/guardline/workforce-api/internal/repository"
)

// NotificationInput describes a notification request emitted by the
// attendance and escalation engines. Email is carried for the external
// mailer when no in-app recipient exists.
type NotificationInput struct {
	UserID  *uint64
	Email   *string
	Message string
	Type    models.NotificationType
	LinkTo  *string
}

// Notifier delivers notifications fire-and-forget: a failed send is
// logged and never propagated to the triggering action.
type Notifier interface {
	Send(input NotificationInput)
}

// NotificationService stores in-app notifications and serves the
// notification endpoints.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Send stores an in-app notification. Requests without a recipient user
// (email-only escalations) have nothing to store here.
func (s *NotificationService) Send(input NotificationInput) {
	if input.UserID == nil {
		return
	}

	notification := &models.Notification{
		UserID:  input.UserID,
		Message: input.Message,
		Type:    input.Type,
		LinkTo:  input.LinkTo,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		log.Printf("failed to store notification for user %d: %v", *input.UserID, err)
	}
}

// ListForUser returns a user's notifications, newest first
func (s *NotificationService) ListForUser(userID uint64, limit int) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListForUser(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags one of the user's notifications as read
func (s *NotificationService) MarkRead(notificationID, userID uint64) error {
	if err := s.notificationRepo.MarkRead(notificationID, userID); err != nil {
		return err
	}
	return nil
}
