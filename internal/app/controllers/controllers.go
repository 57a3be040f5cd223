// Package controllers handles HTTP request handling
package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/middleware"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

// AuthService is the part of services.AuthService the controllers use
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Activate(ctx context.Context, req *dto.ActivationRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*models.User, *dto.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.User, *dto.TokenPair, error)
	Logout(ctx context.Context, accessToken string)
	SocialAuth(ctx context.Context, req *dto.SocialAuthRequest) (*models.User, *dto.TokenPair, bool, error)
}

// UserService is the part of services.UserService the controllers use
type UserService interface {
	GetUserInfo(ctx context.Context, userID int64) (*models.User, error)
	UpdateUserInfo(ctx context.Context, userID int64, req *dto.UpdateUserInfoRequest) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, req *dto.UpdatePasswordRequest) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID int64, avatar string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUserRole(ctx context.Context, req *dto.UpdateUserRoleRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// CourseService is the part of services.CourseService the controllers use
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CourseRequest) (*models.Course, error)
	EditCourse(ctx context.Context, id int64, req *dto.EditCourseRequest) (*models.Course, error)
	GetSingleCourse(ctx context.Context, id int64) (*models.CoursePreview, error)
	GetAllCourses(ctx context.Context) ([]models.CoursePreview, error)
	GetAdminAllCourses(ctx context.Context) ([]*models.Course, error)
	GetCourseContent(ctx context.Context, user *models.User, id int64) ([]models.CourseContent, error)
	AddQuestion(ctx context.Context, user *models.User, req *dto.AddQuestionRequest) (*models.Course, error)
	AddAnswer(ctx context.Context, user *models.User, req *dto.AddAnswerRequest) (*models.Course, error)
	AddReview(ctx context.Context, user *models.User, courseID int64, req *dto.AddReviewRequest) (*models.Course, error)
	AddReplyToReview(ctx context.Context, user *models.User, req *dto.AddReviewReplyRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// OrderService is the part of services.OrderService the controllers use
type OrderService interface {
	CreateOrder(ctx context.Context, userID int64, req *dto.CreateOrderRequest) (*models.Order, error)
	GetAllOrders(ctx context.Context) ([]*models.Order, error)
}

// NotificationService is the part of services.NotificationService the controllers use
type NotificationService interface {
	GetAll(ctx context.Context) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int64) ([]*models.Notification, error)
	DeleteRead(ctx context.Context) error
}

// LayoutService is the part of services.LayoutService the controllers use
type LayoutService interface {
	CreateLayout(ctx context.Context, req *dto.LayoutRequest) (*models.Layout, string, error)
	EditLayout(ctx context.Context, req *dto.LayoutRequest) (*models.Layout, string, error)
	GetLayoutByType(ctx context.Context, layoutType models.LayoutType) (*models.Layout, error)
}

// AnalyticsService is the part of services.AnalyticsService the controllers use
type AnalyticsService interface {
	UsersAnalytics(ctx context.Context) (*dto.AnalyticsSeries, error)
	CoursesAnalytics(ctx context.Context) (*dto.AnalyticsSeries, error)
	OrdersAnalytics(ctx context.Context) (*dto.AnalyticsSeries, error)
}

var errLoginRequired = apperrors.NewUnauthorizedError("Please login to access this resource")

// currentUser returns the session user or answers 401
func currentUser(ctx *gin.Context) (*models.User, bool) {
	user, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, errLoginRequired)
	}
	return user, ok
}

// bindJSON decodes the body into req or answers 400
func bindJSON(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return false
	}
	return true
}
