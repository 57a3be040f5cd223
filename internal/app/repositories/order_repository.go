package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/db"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/logger"
)

// IOrderRepository defines the interface for order database operations
type IOrderRepository interface {
	CreateWithEnrollment(ctx context.Context, order *models.Order) error
	ListAll(ctx context.Context) ([]*models.Order, error)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}

// OrderRepository handles order database operations
type OrderRepository struct {
	db db.Querier
}

var _ IOrderRepository = (*OrderRepository)(nil)

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(q db.Querier) *OrderRepository {
	return &OrderRepository{db: q}
}

// CreateWithEnrollment inserts the order, adds the course to the buyer's list and
// increments the course purchase counter in one transaction.
// It fails with ErrAlreadyEnrolled when the enrollment already exists.
func (r *OrderRepository) CreateWithEnrollment(ctx context.Context, order *models.Order) error {
	paymentInfo, err := jsonNullable(order.PaymentInfo)
	if err != nil {
		return err
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query, args, err := psql.Insert("orders").
			Columns("course_id", "user_id", "payment_info").
			Values(order.CourseID, order.UserID, paymentInfo).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create order query: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
			logger.Error().Err(err).Int64("userID", order.UserID).Msg("Error creating order")
			return fmt.Errorf("error creating order: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`INSERT INTO user_courses (user_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			order.UserID, order.CourseID)
		if err != nil {
			return fmt.Errorf("failed to enroll user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrAlreadyEnrolled
		}

		tag, err = tx.Exec(ctx,
			`UPDATE courses SET purchased = purchased + 1, updated_at = NOW() WHERE id = $1`, order.CourseID)
		if err != nil {
			return fmt.Errorf("failed to update purchase counter: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrCourseNotFound
		}
		return nil
	})
}

// ListAll returns every order, newest first
func (r *OrderRepository) ListAll(ctx context.Context) ([]*models.Order, error) {
	query, args, err := psql.Select("id", "course_id", "user_id", "payment_info", "created_at", "updated_at").
		From("orders").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list orders query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		o := &models.Order{}
		var paymentInfo []byte
		if err := rows.Scan(&o.ID, &o.CourseID, &o.UserID, &paymentInfo, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if len(paymentInfo) > 0 {
			if err := json.Unmarshal(paymentInfo, &o.PaymentInfo); err != nil {
				return nil, fmt.Errorf("failed to decode payment info: %w", err)
			}
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// CountCreatedBetween counts orders placed in [start, end)
func (r *OrderRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	return countCreatedBetween(ctx, r.db, "orders", start, end)
}
