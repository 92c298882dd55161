package service

import (
	"context"
	"strings"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}

// rentalNotification builds the in-app notification sent to a renter when a rental changes.
func rentalNotification(rental *domain.RentalRequest, title, message string) *domain.Notification {
	return &domain.Notification{
		UserID:  rental.UserID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type":         "RENTAL_" + strings.ToUpper(string(rental.Status)),
			"rental_id":    rental.ID,
			"appliance_id": rental.ApplianceID,
		},
	}
}
