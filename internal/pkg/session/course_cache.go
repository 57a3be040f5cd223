package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yigit/learnhub/internal/app/models"
)

const allCoursesKey = "courses"

// CourseCache is the read-through cache behind the public course catalogue
type CourseCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewCourseCache creates a course cache whose entries live for ttl
func NewCourseCache(rdb redis.Cmdable, ttl time.Duration) *CourseCache {
	return &CourseCache{rdb: rdb, ttl: ttl}
}

func courseKey(id int64) string {
	return fmt.Sprintf("course-%d", id)
}

// GetCourse returns the cached preview of a course, if any
func (c *CourseCache) GetCourse(ctx context.Context, id int64) (*models.CoursePreview, bool, error) {
	var preview models.CoursePreview
	found, err := getJSON(ctx, c.rdb, courseKey(id), &preview)
	if err != nil || !found {
		return nil, false, err
	}
	return &preview, true, nil
}

// SetCourse caches the preview of a single course
func (c *CourseCache) SetCourse(ctx context.Context, preview *models.CoursePreview) error {
	return setJSON(ctx, c.rdb, courseKey(preview.ID), preview, c.ttl)
}

// GetCourses returns the cached catalogue, if any
func (c *CourseCache) GetCourses(ctx context.Context) ([]models.CoursePreview, bool, error) {
	var previews []models.CoursePreview
	found, err := getJSON(ctx, c.rdb, allCoursesKey, &previews)
	if err != nil || !found {
		return nil, false, err
	}
	return previews, true, nil
}

// SetCourses caches the whole catalogue
func (c *CourseCache) SetCourses(ctx context.Context, previews []models.CoursePreview) error {
	return setJSON(ctx, c.rdb, allCoursesKey, previews, c.ttl)
}

// Invalidate drops the catalogue and the given course entries
func (c *CourseCache) Invalidate(ctx context.Context, courseIDs ...int64) error {
	keys := []string{allCoursesKey}
	for _, id := range courseIDs {
		keys = append(keys, courseKey(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate course cache: %w", err)
	}
	return nil
}
