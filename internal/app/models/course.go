package models

import (
	"math"
	"time"
)

// Comment is the node shape shared by questions, answers and review replies
type Comment struct {
	ID             string      `json:"_id"`
	User           UserSummary `json:"user"`
	Comment        string      `json:"comment"`
	CommentReplies []Comment   `json:"commentReplies"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// Review is a rated comment on a course
type Review struct {
	ID             string      `json:"_id"`
	User           UserSummary `json:"user"`
	Rating         float64     `json:"rating"`
	Comment        string      `json:"comment"`
	CommentReplies []Comment   `json:"commentReplies"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// Link is an external resource attached to a content item
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// TitledItem is a benefit or prerequisite entry
type TitledItem struct {
	Title string `json:"title"`
}

// CourseContent is a single video unit of a course
type CourseContent struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	VideoURL       string    `json:"videoUrl"`
	VideoThumbnail *Image    `json:"videoThumbnail,omitempty"`
	VideoSection   string    `json:"videoSection"`
	VideoLength    float64   `json:"videoLength"`
	VideoPlayer    string    `json:"videoPlayer"`
	Links          []Link    `json:"links"`
	Suggestion     string    `json:"suggestion"`
	Questions      []Comment `json:"questions"`
}

// Course is stored as one row; nested collections live in JSONB columns
type Course struct {
	ID             int64           `json:"_id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Description    string          `json:"description" db:"description"`
	Categories     string          `json:"categories" db:"categories"`
	Price          float64         `json:"price" db:"price"`
	EstimatedPrice *float64        `json:"estimatedPrice,omitempty" db:"estimated_price"`
	Thumbnail      *Image          `json:"thumbnail,omitempty" db:"thumbnail"`
	Tags           string          `json:"tags" db:"tags"`
	Level          string          `json:"level" db:"level"`
	DemoURL        string          `json:"demoUrl" db:"demo_url"`
	Benefits       []TitledItem    `json:"benefits" db:"benefits"`
	Prerequisites  []TitledItem    `json:"prerequisites" db:"prerequisites"`
	Reviews        []Review        `json:"reviews" db:"reviews"`
	CourseData     []CourseContent `json:"courseData" db:"course_data"`
	Ratings        float64         `json:"ratings" db:"ratings"`
	Purchased      int             `json:"purchased" db:"purchased"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// FindContent returns the content item with the given id, or nil
func (c *Course) FindContent(id string) *CourseContent {
	for i := range c.CourseData {
		if c.CourseData[i].ID == id {
			return &c.CourseData[i]
		}
	}
	return nil
}

// FindReview returns the review with the given id, or nil
func (c *Course) FindReview(id string) *Review {
	for i := range c.Reviews {
		if c.Reviews[i].ID == id {
			return &c.Reviews[i]
		}
	}
	return nil
}

// HasReviewFrom reports whether userID already reviewed the course
func (c *Course) HasReviewFrom(userID int64) bool {
	for _, r := range c.Reviews {
		if r.User.ID == userID {
			return true
		}
	}
	return false
}

// AddReview appends r and recomputes the aggregate rating
func (c *Course) AddReview(r Review) {
	c.Reviews = append(c.Reviews, r)
	c.RecomputeRating()
}

// RecomputeRating sets Ratings to the mean review rating rounded to one decimal
func (c *Course) RecomputeRating() {
	if len(c.Reviews) == 0 {
		c.Ratings = 0
		return
	}
	var sum float64
	for _, r := range c.Reviews {
		sum += r.Rating
	}
	c.Ratings = math.Round(sum/float64(len(c.Reviews))*10) / 10
}

// FindQuestion returns the question with the given id, or nil
func (cc *CourseContent) FindQuestion(id string) *Comment {
	for i := range cc.Questions {
		if cc.Questions[i].ID == id {
			return &cc.Questions[i]
		}
	}
	return nil
}

// ContentPreview is a content item without the material reserved for buyers
type ContentPreview struct {
	ID             string  `json:"_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	VideoThumbnail *Image  `json:"videoThumbnail,omitempty"`
	VideoSection   string  `json:"videoSection"`
	VideoLength    float64 `json:"videoLength"`
	VideoPlayer    string  `json:"videoPlayer"`
}

// CoursePreview is the public projection served by the course catalogue
type CoursePreview struct {
	ID             int64            `json:"_id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Categories     string           `json:"categories"`
	Price          float64          `json:"price"`
	EstimatedPrice *float64         `json:"estimatedPrice,omitempty"`
	Thumbnail      *Image           `json:"thumbnail,omitempty"`
	Tags           string           `json:"tags"`
	Level          string           `json:"level"`
	DemoURL        string           `json:"demoUrl"`
	Benefits       []TitledItem     `json:"benefits"`
	Prerequisites  []TitledItem     `json:"prerequisites"`
	Reviews        []Review         `json:"reviews"`
	CourseData     []ContentPreview `json:"courseData"`
	Ratings        float64          `json:"ratings"`
	Purchased      int              `json:"purchased"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Preview strips video urls, links, suggestions and questions from every content item
func (c *Course) Preview() CoursePreview {
	content := make([]ContentPreview, 0, len(c.CourseData))
	for _, cc := range c.CourseData {
		content = append(content, ContentPreview{
			ID:             cc.ID,
			Title:          cc.Title,
			Description:    cc.Description,
			VideoThumbnail: cc.VideoThumbnail,
			VideoSection:   cc.VideoSection,
			VideoLength:    cc.VideoLength,
			VideoPlayer:    cc.VideoPlayer,
		})
	}
	return CoursePreview{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Categories:     c.Categories,
		Price:          c.Price,
		EstimatedPrice: c.EstimatedPrice,
		Thumbnail:      c.Thumbnail,
		Tags:           c.Tags,
		Level:          c.Level,
		DemoURL:        c.DemoURL,
		Benefits:       c.Benefits,
		Prerequisites:  c.Prerequisites,
		Reviews:        c.Reviews,
		CourseData:     content,
		Ratings:        c.Ratings,
		Purchased:      c.Purchased,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
