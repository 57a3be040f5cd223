package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

// Services defined in this package:
// - AuthService: registration, activation, login, refresh and social sign-in
// - UserService: profile, password, avatar and admin user management
// - CourseService: course CRUD, questions, answers, reviews and the read-through cache
// - OrderService: enrollment and its side effects
// - NotificationService: admin notifications and the realtime push
// - LayoutService: banner, FAQ and category blocks
// - AnalyticsService: last 12 months of users, courses and orders

// SessionStore caches the authenticated user payload by user id
type SessionStore interface {
	Save(ctx context.Context, user *models.User) error
	Get(ctx context.Context, userID int64) (*models.User, error)
	Delete(ctx context.Context, userID int64) error
}

// CourseCache is the read-through cache of course previews
type CourseCache interface {
	GetCourse(ctx context.Context, id int64) (*models.CoursePreview, bool, error)
	SetCourse(ctx context.Context, course *models.CoursePreview) error
	GetCourses(ctx context.Context) ([]models.CoursePreview, bool, error)
	SetCourses(ctx context.Context, courses []models.CoursePreview) error
	Invalidate(ctx context.Context, ids ...int64) error
}

// Notifier records an admin notification. Failures are logged, never returned.
type Notifier interface {
	Notify(ctx context.Context, userID int64, title, message string)
}

// NotificationPublisher pushes a stored notification to live clients
type NotificationPublisher interface {
	Broadcast(notification *models.Notification)
}

var (
	errAllFieldsRequired = apperrors.NewBadRequestError("All fields are required")
	errLoginRequired     = apperrors.NewUnauthorizedError("Please login to access this resource")
	errUserNotFound      = apperrors.NewNotFoundError("User not found")
	errCourseNotFound    = apperrors.NewNotFoundError("Course not found")
)

// notFound swaps a repository sentinel for the client-facing 404
func notFound(err, sentinel error, appErr *apperrors.AppError) error {
	if errors.Is(err, sentinel) {
		return appErr
	}
	return err
}

// ParseID parses a positive numeric path or body id
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.New(http.StatusBadRequest, "Resource not found. Invalid: id")
	}
	return id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
