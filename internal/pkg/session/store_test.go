package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnhub/internal/app/models"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStoreSaveGetDelete(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewStore(client, time.Hour)
	ctx := context.Background()

	user := &models.User{
		ID:         5,
		Name:       "Ada",
		Email:      "ada@example.com",
		Password:   "hash",
		Role:       models.RoleUser,
		IsVerified: true,
		Courses:    []models.EnrolledCourse{{CourseID: 11}},
	}
	require.NoError(t, store.Save(ctx, user))

	assert.Equal(t, time.Hour, mr.TTL("5"))
	raw, err := mr.Get("5")
	require.NoError(t, err)
	assert.NotContains(t, raw, "hash")

	got, err := store.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.True(t, got.IsEnrolled(11))
	assert.Empty(t, got.Password)

	require.NoError(t, store.Delete(ctx, 5))
	_, err = store.Get(ctx, 5)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreEntryExpiresWithRefreshLifetime(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewStore(client, 7*24*time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.User{ID: 1}))
	mr.FastForward(7*24*time.Hour + time.Second)

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCourseCacheRoundTripKeepsPayload(t *testing.T) {
	_, client := newTestRedis(t)
	cache := NewCourseCache(client, time.Hour)
	ctx := context.Background()

	price := 49.5
	course := &models.Course{
		ID:             3,
		Name:           "Go in practice",
		Price:          29.99,
		EstimatedPrice: &price,
		Thumbnail:      &models.Image{PublicID: "courses/x", URL: "http://cdn/x.png"},
		Benefits:       []models.TitledItem{{Title: "Concurrency"}},
		CourseData:     []models.CourseContent{{ID: "c1", Title: "Intro", VideoURL: "hidden"}},
		Reviews:        []models.Review{{ID: "r1", Rating: 4, User: models.UserSummary{ID: 2, Name: "Bob"}}},
		Ratings:        4,
		CreatedAt:      time.Date(2025, 3, 1, 10, 0, 0, 123000000, time.UTC),
		UpdatedAt:      time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	preview := course.Preview()

	_, found, err := cache.GetCourse(ctx, 3)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.SetCourse(ctx, &preview))
	cached, found, err := cache.GetCourse(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)

	want, err := json.Marshal(preview)
	require.NoError(t, err)
	got, err := json.Marshal(cached)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestCourseCacheInvalidate(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewCourseCache(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.SetCourses(ctx, []models.CoursePreview{{ID: 1}, {ID: 2}}))
	require.NoError(t, cache.SetCourse(ctx, &models.CoursePreview{ID: 1}))
	require.NoError(t, cache.SetCourse(ctx, &models.CoursePreview{ID: 2}))

	list, found, err := cache.GetCourses(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, list, 2)

	require.NoError(t, cache.Invalidate(ctx, 1))

	assert.False(t, mr.Exists("courses"))
	assert.False(t, mr.Exists("course-1"))
	assert.True(t, mr.Exists("course-2"))
}
