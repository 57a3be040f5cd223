package models

import "time"

// Order is an enrollment record; rows are never updated after insert
type Order struct {
	ID          int64          `json:"_id" db:"id"`
	CourseID    int64          `json:"courseId" db:"course_id"`
	UserID      int64          `json:"userId" db:"user_id"`
	PaymentInfo map[string]any `json:"payment_info,omitempty" db:"payment_info"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}
