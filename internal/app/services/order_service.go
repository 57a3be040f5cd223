package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/email"
)

var errAlreadyEnrolled = apperrors.NewBadRequestError("You are already enrolled in this course")

// OrderService enrolls users into courses
type OrderService struct {
	orderRepo  repositories.IOrderRepository
	userRepo   repositories.IUserRepository
	courseRepo repositories.ICourseRepository
	sessions   SessionStore
	cache      CourseCache
	mailer     email.EmailService
	notifier   Notifier
	clientURL  string
	logger     zerolog.Logger
	now        func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo repositories.IOrderRepository,
	userRepo repositories.IUserRepository,
	courseRepo repositories.ICourseRepository,
	sessions SessionStore,
	cache CourseCache,
	mailer email.EmailService,
	notifier Notifier,
	clientURL string,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		courseRepo: courseRepo,
		sessions:   sessions,
		cache:      cache,
		mailer:     mailer,
		notifier:   notifier,
		clientURL:  strings.TrimRight(clientURL, "/"),
		logger:     logger,
		now:        time.Now,
	}
}

// CreateOrder enrolls userID into the requested course. The order row, the enrollment and the
// purchase counter are written together; mail, notification and cache updates are best-effort.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, req *dto.CreateOrderRequest) (*models.Order, error) {
	if strings.TrimSpace(req.CourseID) == "" {
		return nil, apperrors.NewBadRequestError("CourseId is required")
	}
	courseID, err := parseCourseID(req.CourseID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound, errUserNotFound)
	}
	if user.IsEnrolled(courseID) {
		return nil, errAlreadyEnrolled
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCourseNotFound, errCourseNotFound)
	}

	order := &models.Order{
		CourseID:    course.ID,
		UserID:      user.ID,
		PaymentInfo: req.PaymentInfo,
	}
	if err := s.orderRepo.CreateWithEnrollment(ctx, order); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyEnrolled):
			return nil, errAlreadyEnrolled
		case errors.Is(err, apperrors.ErrCourseNotFound):
			return nil, errCourseNotFound
		}
		return nil, err
	}
	s.logger.Info().Int64("orderID", order.ID).Int64("userID", user.ID).Int64("courseID", course.ID).Msg("Order created")

	if err := s.mailer.SendOrderConfirmation(ctx, user.Email, s.confirmation(user, course, order)); err != nil {
		s.logger.Error().Err(err).Int64("orderID", order.ID).Msg("Order email failed")
	}

	user.Courses = append(user.Courses, models.EnrolledCourse{CourseID: course.ID})
	if err := s.sessions.Save(ctx, user); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to refresh session cache")
	}
	if err := s.cache.Invalidate(ctx, course.ID); err != nil {
		s.logger.Warn().Err(err).Int64("courseID", course.ID).Msg("Failed to invalidate course cache")
	}

	s.notifier.Notify(ctx, user.ID, "New Course Enrolled", fmt.Sprintf("You have successfully enrolled in %s", course.Name))
	return order, nil
}

func (s *OrderService) confirmation(user *models.User, course *models.Course, order *models.Order) email.OrderMailData {
	orderRef := fmt.Sprintf("%06d", order.ID)
	return email.OrderMailData{
		User: email.MailUser{Name: user.Name},
		Order: email.OrderSummary{
			ID:          orderRef[len(orderRef)-6:],
			Date:        s.now().Format("January 2, 2006"),
			Items:       []email.OrderItem{{Title: course.Name, Quantity: 1, Price: course.Price}},
			TotalAmount: course.Price,
		},
		DashboardURL: s.clientURL + "/dashboard",
	}
}

// GetAllOrders returns every order, newest first
func (s *OrderService) GetAllOrders(ctx context.Context) ([]*models.Order, error) {
	return s.orderRepo.ListAll(ctx)
}
