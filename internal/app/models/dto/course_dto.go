package dto

import (
	"encoding/json"

	"github.com/yigit/learnhub/internal/app/models"
)

// CourseRequest is the create payload of a course.
// Thumbnail is either an {public_id,url} object or a base64 image string.
type CourseRequest struct {
	Name           string                 `json:"name" binding:"required"`
	Description    string                 `json:"description" binding:"required"`
	Categories     string                 `json:"categories"`
	Price          float64                `json:"price" binding:"gte=0"`
	EstimatedPrice *float64               `json:"estimatedPrice"`
	Thumbnail      json.RawMessage        `json:"thumbnail"`
	Tags           string                 `json:"tags" binding:"required"`
	Level          string                 `json:"level" binding:"required"`
	DemoURL        string                 `json:"demoUrl" binding:"required"`
	Benefits       []models.TitledItem    `json:"benefits"`
	Prerequisites  []models.TitledItem    `json:"prerequisites"`
	CourseData     []models.CourseContent `json:"courseData"`
}

// EditCourseRequest is a partial course update. Omitted fields keep their stored value;
// an empty list clears benefits, prerequisites or content.
type EditCourseRequest struct {
	Name           *string                `json:"name"`
	Description    *string                `json:"description"`
	Categories     *string                `json:"categories"`
	Price          *float64               `json:"price" binding:"omitempty,gte=0"`
	EstimatedPrice *float64               `json:"estimatedPrice"`
	Thumbnail      json.RawMessage        `json:"thumbnail"`
	Tags           *string                `json:"tags"`
	Level          *string                `json:"level"`
	DemoURL        *string                `json:"demoUrl"`
	Benefits       []models.TitledItem    `json:"benefits"`
	Prerequisites  []models.TitledItem    `json:"prerequisites"`
	CourseData     []models.CourseContent `json:"courseData"`
}

// AddQuestionRequest asks a question on a content item
type AddQuestionRequest struct {
	Question  string `json:"question"`
	CourseID  string `json:"courseId"`
	ContentID string `json:"contentId"`
}

// AddAnswerRequest answers a question on a content item
type AddAnswerRequest struct {
	Answer     string `json:"answer"`
	CourseID   string `json:"courseId"`
	ContentID  string `json:"contentId"`
	QuestionID string `json:"questionId"`
}

// AddReviewRequest rates a course
type AddReviewRequest struct {
	Review string  `json:"review"`
	Rating float64 `json:"rating"`
}

// AddReviewReplyRequest is an admin reply to a review
type AddReviewReplyRequest struct {
	Comment  string `json:"comment"`
	CourseID string `json:"courseId"`
	ReviewID string `json:"reviewId"`
}
