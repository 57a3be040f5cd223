package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/db"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/dberrors"
)

const layoutsTypeConstraint = "layouts_type_key"

// ILayoutRepository defines the interface for layout database operations
type ILayoutRepository interface {
	Create(ctx context.Context, layout *models.Layout) error
	GetByType(ctx context.Context, layoutType models.LayoutType) (*models.Layout, error)
	Update(ctx context.Context, layout *models.Layout) error
}

// LayoutRepository keeps one row per layout type
type LayoutRepository struct {
	db db.Querier
}

var _ ILayoutRepository = (*LayoutRepository)(nil)

// NewLayoutRepository creates a new LayoutRepository
func NewLayoutRepository(q db.Querier) *LayoutRepository {
	return &LayoutRepository{db: q}
}

// Create inserts a layout; a second row of the same type fails with ErrLayoutExists
func (r *LayoutRepository) Create(ctx context.Context, layout *models.Layout) error {
	faq, err := jsonArray(layout.Faq)
	if err != nil {
		return err
	}
	categories, err := jsonArray(layout.Categories)
	if err != nil {
		return err
	}
	banner, err := jsonNullable(layout.Banner)
	if err != nil {
		return err
	}

	query, args, err := psql.Insert("layouts").
		Columns("type", "faq", "categories", "banner").
		Values(string(layout.Type), faq, categories, banner).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create layout query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&layout.ID, &layout.CreatedAt, &layout.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, layoutsTypeConstraint) {
			return apperrors.ErrLayoutExists
		}
		return fmt.Errorf("error creating layout: %w", err)
	}
	return nil
}

// GetByType retrieves the layout block of the given type
func (r *LayoutRepository) GetByType(ctx context.Context, layoutType models.LayoutType) (*models.Layout, error) {
	query, args, err := psql.Select("id", "type", "faq", "categories", "banner", "created_at", "updated_at").
		From("layouts").
		Where(squirrel.Eq{"type": string(layoutType)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build layout query: %w", err)
	}

	layout := &models.Layout{}
	var typ string
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&layout.ID, &typ, &layout.Faq, &layout.Categories, &layout.Banner, &layout.CreatedAt, &layout.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLayoutNotFound
		}
		return nil, fmt.Errorf("error fetching layout: %w", err)
	}
	layout.Type = models.LayoutType(typ)
	return layout, nil
}

// Update writes every content column of the layout
func (r *LayoutRepository) Update(ctx context.Context, layout *models.Layout) error {
	faq, err := jsonArray(layout.Faq)
	if err != nil {
		return err
	}
	categories, err := jsonArray(layout.Categories)
	if err != nil {
		return err
	}
	banner, err := jsonNullable(layout.Banner)
	if err != nil {
		return err
	}

	query, args, err := psql.Update("layouts").
		Set("faq", faq).
		Set("categories", categories).
		Set("banner", banner).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": layout.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update layout query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&layout.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrLayoutNotFound
		}
		return fmt.Errorf("error updating layout: %w", err)
	}
	return nil
}
