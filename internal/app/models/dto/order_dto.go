package dto

// CreateOrderRequest enrolls the current user into a course
type CreateOrderRequest struct {
	CourseID    string         `json:"courseId"`
	PaymentInfo map[string]any `json:"payment_info"`
}
