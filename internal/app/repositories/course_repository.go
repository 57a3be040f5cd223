package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/db"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/logger"
)

// CourseMutation edits a locked course in place
type CourseMutation func(course *models.Course) error

// ICourseRepository defines the interface for course database operations
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	ListAll(ctx context.Context) ([]*models.Course, error)
	Mutate(ctx context.Context, id int64, fn CourseMutation) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}

// CourseRepository stores courses with their nested collections in jsonb columns
type CourseRepository struct {
	db db.Querier
}

var _ ICourseRepository = (*CourseRepository)(nil)

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(q db.Querier) *CourseRepository {
	return &CourseRepository{db: q}
}

var courseColumns = []string{
	"id", "name", "description", "categories", "price", "estimated_price", "thumbnail",
	"tags", "level", "demo_url", "benefits", "prerequisites", "reviews", "course_data",
	"ratings", "purchased", "created_at", "updated_at",
}

func scanCourse(row rowScanner) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Categories, &c.Price, &c.EstimatedPrice, &c.Thumbnail,
		&c.Tags, &c.Level, &c.DemoURL, &c.Benefits, &c.Prerequisites, &c.Reviews, &c.CourseData,
		&c.Ratings, &c.Purchased, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// courseDocument is the encoded form of every jsonb column
type courseDocument struct {
	thumbnail     []byte
	benefits      []byte
	prerequisites []byte
	reviews       []byte
	courseData    []byte
}

func encodeCourse(c *models.Course) (*courseDocument, error) {
	var (
		doc courseDocument
		err error
	)
	if doc.thumbnail, err = jsonNullable(c.Thumbnail); err != nil {
		return nil, err
	}
	if doc.benefits, err = jsonArray(c.Benefits); err != nil {
		return nil, err
	}
	if doc.prerequisites, err = jsonArray(c.Prerequisites); err != nil {
		return nil, err
	}
	if doc.reviews, err = jsonArray(c.Reviews); err != nil {
		return nil, err
	}
	if doc.courseData, err = jsonArray(c.CourseData); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create inserts a course and fills in ID and timestamps
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	doc, err := encodeCourse(course)
	if err != nil {
		return err
	}

	query, args, err := psql.Insert("courses").
		Columns("name", "description", "categories", "price", "estimated_price", "thumbnail",
			"tags", "level", "demo_url", "benefits", "prerequisites", "reviews", "course_data",
			"ratings", "purchased").
		Values(course.Name, course.Description, course.Categories, course.Price, course.EstimatedPrice, doc.thumbnail,
			course.Tags, course.Level, course.DemoURL, doc.benefits, doc.prerequisites, doc.reviews, doc.courseData,
			course.Ratings, course.Purchased).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt); err != nil {
		logger.Error().Err(err).Str("name", course.Name).Msg("Error creating course")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

func getCourse(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*models.Course, error) {
	builder := psql.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course query: %w", err)
	}

	course, err := scanCourse(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error fetching course: %w", err)
	}
	return course, nil
}

// GetByID retrieves a full course document
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return getCourse(ctx, r.db, id, false)
}

// ListAll returns every course, newest first
func (r *CourseRepository) ListAll(ctx context.Context) ([]*models.Course, error) {
	query, args, err := psql.Select(courseColumns...).From("courses").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// Mutate loads the course with a row lock, applies fn and writes the result back
// in the same transaction. Concurrent mutations of one course run one after another.
func (r *CourseRepository) Mutate(ctx context.Context, id int64, fn CourseMutation) (*models.Course, error) {
	var result *models.Course

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		course, err := getCourse(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := fn(course); err != nil {
			return err
		}
		if err := saveCourse(ctx, tx, course); err != nil {
			return err
		}
		result = course
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func saveCourse(ctx context.Context, tx pgx.Tx, c *models.Course) error {
	doc, err := encodeCourse(c)
	if err != nil {
		return err
	}

	query, args, err := psql.Update("courses").
		SetMap(map[string]any{
			"name":            c.Name,
			"description":     c.Description,
			"categories":      c.Categories,
			"price":           c.Price,
			"estimated_price": c.EstimatedPrice,
			"thumbnail":       doc.thumbnail,
			"tags":            c.Tags,
			"level":           c.Level,
			"demo_url":        c.DemoURL,
			"benefits":        doc.benefits,
			"prerequisites":   doc.prerequisites,
			"reviews":         doc.reviews,
			"course_data":     doc.courseData,
			"ratings":         c.Ratings,
			"purchased":       c.Purchased,
			"updated_at":      squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&c.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("courseID", c.ID).Msg("Error updating course")
		return fmt.Errorf("error updating course: %w", err)
	}
	return nil
}

// Delete removes a course row
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// CountCreatedBetween counts courses created in [start, end)
func (r *CourseRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	return countCreatedBetween(ctx, r.db, "courses", start, end)
}
