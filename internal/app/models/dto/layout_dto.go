package dto

import "github.com/yigit/learnhub/internal/app/models"

// LayoutRequest is the create/edit payload of a layout block.
// Image is a base64 image or data URL used by the Banner type.
type LayoutRequest struct {
	Type       models.LayoutType `json:"type"`
	Image      string            `json:"image"`
	Title      string            `json:"title"`
	Subtitle   string            `json:"subtitle"`
	Faq        []models.FaqItem  `json:"faq"`
	Categories []models.Category `json:"categories"`
	Banner     *models.Banner    `json:"banner"`
}
