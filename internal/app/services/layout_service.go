package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/filestorage"
)

const layoutImageFolder = "layout"

var (
	errLayoutTypeRequired = apperrors.NewBadRequestError("Layout type is required")
	errLayoutTypeExists   = apperrors.NewBadRequestError("Layout type already exists")
	errLayoutTypeUnknown  = apperrors.NewNotFoundError("Layout type not found")
	errLayoutNotFound     = apperrors.NewNotFoundError("Layout not found")
	errBannerFields       = apperrors.NewBadRequestError("Image, title, and subtitle are required for Banner")
	errFaqRequired        = apperrors.NewBadRequestError("FAQ array is required")
	errCategoriesRequired = apperrors.NewBadRequestError("Categories array is required")
)

// LayoutService manages the singleton content blocks of the landing page
type LayoutService struct {
	layoutRepo repositories.ILayoutRepository
	images     filestorage.ImageStore
	logger     zerolog.Logger
}

// NewLayoutService creates a new LayoutService
func NewLayoutService(layoutRepo repositories.ILayoutRepository, images filestorage.ImageStore, logger zerolog.Logger) *LayoutService {
	return &LayoutService{
		layoutRepo: layoutRepo,
		images:     images,
		logger:     logger,
	}
}

// bannerInput merges the flat banner fields with the nested banner object
func bannerInput(req *dto.LayoutRequest) (image, title, subtitle string) {
	image, title, subtitle = req.Image, req.Title, req.Subtitle
	if req.Banner != nil {
		if title == "" {
			title = req.Banner.Title
		}
		if subtitle == "" {
			subtitle = req.Banner.Subtitle
		}
		if image == "" {
			image = req.Banner.Image.URL
		}
	}
	return strings.TrimSpace(image), strings.TrimSpace(title), strings.TrimSpace(subtitle)
}

func (s *LayoutService) uploadBanner(ctx context.Context, image, title, subtitle string) (*models.Banner, error) {
	img, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}
	return &models.Banner{Image: *img, Title: title, Subtitle: subtitle}, nil
}

// storeImage uploads inline images; plain URLs are kept as references
func (s *LayoutService) storeImage(ctx context.Context, image string) (*models.Image, error) {
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return &models.Image{URL: image}, nil
	}
	img, err := s.images.Upload(ctx, image, layoutImageFolder)
	if err != nil {
		if errors.Is(err, filestorage.ErrInvalidImage) {
			return nil, apperrors.NewBadRequestError("Invalid image data")
		}
		return nil, err
	}
	return img, nil
}

// CreateLayout stores the first block of a type. It returns the creation message.
func (s *LayoutService) CreateLayout(ctx context.Context, req *dto.LayoutRequest) (*models.Layout, string, error) {
	if req.Type == "" {
		return nil, "", errLayoutTypeRequired
	}
	if !req.Type.Valid() {
		return nil, "", errLayoutTypeUnknown
	}

	if _, err := s.layoutRepo.GetByType(ctx, req.Type); err == nil {
		return nil, "", errLayoutTypeExists
	} else if !errors.Is(err, apperrors.ErrLayoutNotFound) {
		return nil, "", err
	}

	layout := &models.Layout{
		Type:       req.Type,
		Faq:        []models.FaqItem{},
		Categories: []models.Category{},
	}

	switch req.Type {
	case models.LayoutBanner:
		image, title, subtitle := bannerInput(req)
		if image == "" || title == "" || subtitle == "" {
			return nil, "", errBannerFields
		}
		banner, err := s.uploadBanner(ctx, image, title, subtitle)
		if err != nil {
			return nil, "", err
		}
		layout.Banner = banner
	case models.LayoutFaq:
		if len(req.Faq) == 0 {
			return nil, "", errFaqRequired
		}
		layout.Faq = req.Faq
	case models.LayoutCategory:
		if len(req.Categories) == 0 {
			return nil, "", errCategoriesRequired
		}
		layout.Categories = req.Categories
	case models.LayoutAll:
		if err := s.applyCombined(ctx, layout, req); err != nil {
			return nil, "", err
		}
	}

	if err := s.layoutRepo.Create(ctx, layout); err != nil {
		if layout.Banner != nil && layout.Banner.Image.PublicID != "" {
			s.destroy(ctx, layout.Banner.Image.PublicID)
		}
		if errors.Is(err, apperrors.ErrLayoutExists) {
			return nil, "", errLayoutTypeExists
		}
		return nil, "", err
	}

	s.logger.Info().Str("type", string(layout.Type)).Msg("Layout created")
	return layout, fmt.Sprintf("%s created successfully", layout.Type), nil
}

// applyCombined sets whichever parts of a combined layout the request provides
func (s *LayoutService) applyCombined(ctx context.Context, layout *models.Layout, req *dto.LayoutRequest) error {
	if image, title, subtitle := bannerInput(req); image != "" && title != "" && subtitle != "" {
		old := layout.Banner
		banner, err := s.uploadBanner(ctx, image, title, subtitle)
		if err != nil {
			return err
		}
		layout.Banner = banner
		if old != nil && old.Image.PublicID != "" && old.Image.PublicID != banner.Image.PublicID {
			s.destroy(ctx, old.Image.PublicID)
		}
	}
	if req.Faq != nil {
		layout.Faq = req.Faq
	}
	if req.Categories != nil {
		layout.Categories = req.Categories
	}
	return nil
}

func (s *LayoutService) destroy(ctx context.Context, publicID string) {
	if err := s.images.Destroy(ctx, publicID); err != nil {
		s.logger.Warn().Err(err).Str("publicID", publicID).Msg("Failed to delete layout image")
	}
}

// EditLayout updates an existing block. It returns the update message.
func (s *LayoutService) EditLayout(ctx context.Context, req *dto.LayoutRequest) (*models.Layout, string, error) {
	if req.Type == "" {
		return nil, "", errLayoutTypeRequired
	}
	if !req.Type.Valid() {
		return nil, "", errLayoutTypeUnknown
	}

	layout, err := s.layoutRepo.GetByType(ctx, req.Type)
	if err != nil {
		return nil, "", notFound(err, apperrors.ErrLayoutNotFound, errLayoutNotFound)
	}

	var message string
	switch req.Type {
	case models.LayoutBanner:
		image, title, subtitle := bannerInput(req)
		if image == "" || title == "" || subtitle == "" {
			return nil, "", errBannerFields
		}
		if layout.Banner != nil && layout.Banner.Image.URL == image {
			// same picture, only the texts change
			layout.Banner.Title, layout.Banner.Subtitle = title, subtitle
		} else {
			if layout.Banner != nil && layout.Banner.Image.PublicID != "" {
				s.destroy(ctx, layout.Banner.Image.PublicID)
			}
			banner, err := s.uploadBanner(ctx, image, title, subtitle)
			if err != nil {
				return nil, "", err
			}
			layout.Banner = banner
		}
		message = "Banner updated successfully"
	case models.LayoutFaq:
		if len(req.Faq) == 0 {
			return nil, "", errFaqRequired
		}
		layout.Faq = req.Faq
		message = "FAQ updated successfully"
	case models.LayoutCategory:
		if len(req.Categories) == 0 {
			return nil, "", errCategoriesRequired
		}
		layout.Categories = req.Categories
		message = "Categories updated successfully"
	case models.LayoutAll:
		if err := s.applyCombined(ctx, layout, req); err != nil {
			return nil, "", err
		}
		message = "Layout updated successfully"
	}

	if err := s.layoutRepo.Update(ctx, layout); err != nil {
		return nil, "", notFound(err, apperrors.ErrLayoutNotFound, errLayoutNotFound)
	}
	return layout, message, nil
}

// GetLayoutByType returns the block of the given type
func (s *LayoutService) GetLayoutByType(ctx context.Context, layoutType models.LayoutType) (*models.Layout, error) {
	if layoutType == "" {
		return nil, errLayoutTypeRequired
	}
	layout, err := s.layoutRepo.GetByType(ctx, layoutType)
	if err != nil {
		return nil, notFound(err, apperrors.ErrLayoutNotFound, errLayoutNotFound)
	}
	return layout, nil
}
