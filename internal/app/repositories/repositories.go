package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/learnhub/internal/db"
)

// psql builds Postgres placeholders ($1, $2, ...)
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// rowScanner is implemented by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	CourseRepository       *CourseRepository
	OrderRepository        *OrderRepository
	NotificationRepository *NotificationRepository
	LayoutRepository       *LayoutRepository
}

// NewRepositories initializes all repositories
func NewRepositories(q db.Querier) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(q),
		CourseRepository:       NewCourseRepository(q),
		OrderRepository:        NewOrderRepository(q),
		NotificationRepository: NewNotificationRepository(q),
		LayoutRepository:       NewLayoutRepository(q),
	}
}

// jsonArray encodes v for a NOT NULL jsonb array column; nil slices become []
func jsonArray(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	if string(b) == "null" {
		return []byte("[]"), nil
	}
	return b, nil
}

// jsonNullable encodes v for a nullable jsonb column; nil values become SQL NULL
func jsonNullable(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	if string(b) == "null" {
		return nil, nil
	}
	return b, nil
}

// countCreatedBetween counts rows of table with created_at in [start, end)
func countCreatedBetween(ctx context.Context, q db.Querier, table string, start, end time.Time) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").
		From(table).
		Where(squirrel.GtOrEq{"created_at": start}).
		Where(squirrel.Lt{"created_at": end}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
