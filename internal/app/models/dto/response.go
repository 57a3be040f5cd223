package dto

import "github.com/yigit/learnhub/internal/app/models"

// MessageResponse is a success envelope without payload
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message"`
}

// NewMessageResponse builds a successful MessageResponse
func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}

// UserResponse wraps a single user
type UserResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user"`
}

// UsersResponse wraps the admin user list
type UsersResponse struct {
	Success bool           `json:"success"`
	Users   []*models.User `json:"users"`
}

// CourseResponse wraps a full course document
type CourseResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Course  *models.Course `json:"course"`
}

// CoursePreviewResponse wraps the public projection of a course
type CoursePreviewResponse struct {
	Success bool                  `json:"success"`
	Course  *models.CoursePreview `json:"course"`
}

// CoursePreviewsResponse wraps the public course catalogue
type CoursePreviewsResponse struct {
	Success bool                   `json:"success"`
	Courses []models.CoursePreview `json:"courses"`
}

// CoursesResponse wraps the admin course list
type CoursesResponse struct {
	Success bool             `json:"success"`
	Courses []*models.Course `json:"courses"`
}

// CourseContentResponse wraps the buyer-only content list
type CourseContentResponse struct {
	Success bool                   `json:"success"`
	Content []models.CourseContent `json:"content"`
}

// OrderResponse wraps a created order
type OrderResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Order   *models.Order `json:"order"`
}

// OrdersResponse wraps the admin order list
type OrdersResponse struct {
	Success bool            `json:"success"`
	Orders  []*models.Order `json:"orders"`
}

// NotificationsResponse wraps the notification list
type NotificationsResponse struct {
	Success       bool                   `json:"success"`
	Notifications []*models.Notification `json:"notifications"`
}

// LayoutResponse wraps a layout block
type LayoutResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Layout  *models.Layout `json:"layout"`
}

// AnalyticsResponse carries one of the three monthly series
type AnalyticsResponse struct {
	Success bool             `json:"success"`
	Users   *AnalyticsSeries `json:"users,omitempty"`
	Courses *AnalyticsSeries `json:"courses,omitempty"`
	Orders  *AnalyticsSeries `json:"orders,omitempty"`
}
