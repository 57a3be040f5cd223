package models

import "time"

// LayoutType identifies a singleton content block
type LayoutType string

const (
	LayoutBanner   LayoutType = "Banner"
	LayoutFaq      LayoutType = "Faq"
	LayoutCategory LayoutType = "Category"
	LayoutAll      LayoutType = "Layout"
)

// Valid reports whether t is one of the known layout types
func (t LayoutType) Valid() bool {
	switch t {
	case LayoutBanner, LayoutFaq, LayoutCategory, LayoutAll:
		return true
	}
	return false
}

// FaqItem is a question/answer pair
type FaqItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Category is a course category title
type Category struct {
	Title string `json:"title"`
}

// Banner is the hero block of the landing page
type Banner struct {
	Image    Image  `json:"image"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Layout is one content block per type
type Layout struct {
	ID         int64      `json:"_id" db:"id"`
	Type       LayoutType `json:"type" db:"type"`
	Faq        []FaqItem  `json:"faq" db:"faq"`
	Categories []Category `json:"categories" db:"categories"`
	Banner     *Banner    `json:"banner,omitempty" db:"banner"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}
