package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

// NotificationService stores admin notifications and pushes new ones to live dashboards
type NotificationService struct {
	notificationRepo repositories.INotificationRepository
	publisher        NotificationPublisher
	logger           zerolog.Logger
	now              func() time.Time
}

var _ Notifier = (*NotificationService)(nil)

// NewNotificationService creates a new NotificationService. publisher may be nil.
func NewNotificationService(
	notificationRepo repositories.INotificationRepository,
	publisher NotificationPublisher,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
		logger:           logger,
		now:              time.Now,
	}
}

// Notify creates an unread notification and broadcasts it
func (s *NotificationService) Notify(ctx context.Context, userID int64, title, message string) {
	n := &models.Notification{
		Title:   title,
		Message: message,
		Status:  models.NotificationUnread,
		UserID:  userID,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Str("title", title).Msg("Failed to create notification")
		return
	}
	if s.publisher != nil {
		s.publisher.Broadcast(n)
	}
}

// GetAll returns every notification, newest first
func (s *NotificationService) GetAll(ctx context.Context) ([]*models.Notification, error) {
	return s.notificationRepo.ListAll(ctx)
}

// MarkRead sets a notification to read and returns the refreshed list
func (s *NotificationService) MarkRead(ctx context.Context, id int64) ([]*models.Notification, error) {
	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		return nil, notFound(err, apperrors.ErrNotificationNotFound, apperrors.NewNotFoundError("Notification not found"))
	}
	return s.notificationRepo.ListAll(ctx)
}

// DeleteRead removes every read notification
func (s *NotificationService) DeleteRead(ctx context.Context) error {
	n, err := s.notificationRepo.DeleteRead(ctx)
	if err != nil {
		return err
	}
	s.logger.Info().Int64("deleted", n).Msg("Read notifications deleted")
	return nil
}

// PurgeRead removes read notifications older than retention
func (s *NotificationService) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	n, err := s.notificationRepo.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("Old read notifications purged")
	return n, nil
}
