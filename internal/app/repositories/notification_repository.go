package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/db"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

// INotificationRepository defines the interface for notification database operations
type INotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListAll(ctx context.Context) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	DeleteRead(ctx context.Context) (int64, error)
	DeleteReadOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db db.Querier
}

var _ INotificationRepository = (*NotificationRepository)(nil)

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(q db.Querier) *NotificationRepository {
	return &NotificationRepository{db: q}
}

// Create inserts an unread notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.Status == "" {
		n.Status = models.NotificationUnread
	}

	query, args, err := psql.Insert("notifications").
		Columns("title", "message", "status", "user_id").
		Values(n.Title, n.Message, string(n.Status), n.UserID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create notification query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// ListAll returns every notification, newest first
func (r *NotificationRepository) ListAll(ctx context.Context) ([]*models.Notification, error) {
	query, args, err := psql.Select("id", "title", "message", "status", "user_id", "created_at", "updated_at").
		From("notifications").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		var status string
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &status, &n.UserID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Status = models.NotificationStatus(status)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead sets status to read. Marking an already read notification is a no-op.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	query, args, err := psql.Update("notifications").
		Set("status", string(models.NotificationRead)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark read query: %w", err)
	}

	var updated int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotificationNotFound
		}
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

// DeleteRead removes every read notification
func (r *NotificationRepository) DeleteRead(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE status = $1`, string(models.NotificationRead))
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteReadOlderThan removes read notifications created before the cutoff
func (r *NotificationRepository) DeleteReadOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := psql.Delete("notifications").
		Where(squirrel.Eq{"status": string(models.NotificationRead)}).
		Where(squirrel.Lt{"created_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build purge query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}
