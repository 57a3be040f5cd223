package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/email"
)

type courseFixture struct {
	svc     *CourseService
	courses *fakeCourseRepo
	notes   *fakeNotificationRepo
	mailer  *fakeMailer
	images  *fakeImages
	redis   *testRedis
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()
	f := &courseFixture{
		courses: newFakeCourseRepo(),
		notes:   &fakeNotificationRepo{},
		mailer:  &fakeMailer{},
		images:  &fakeImages{},
		redis:   newTestRedis(t),
	}
	notifier := NewNotificationService(f.notes, nil, zerolog.Nop())
	f.svc = NewCourseService(f.courses, f.redis.cache, f.images, f.mailer, notifier, zerolog.Nop())
	return f
}

func courseRequest(thumbnail string) *dto.CourseRequest {
	return &dto.CourseRequest{
		Name:        "Go in practice",
		Description: "Services, tooling and tests",
		Price:       29.99,
		Thumbnail:   json.RawMessage(thumbnail),
		Tags:        "go,backend",
		Level:       "Intermediate",
		DemoURL:     "demo-1",
		Benefits:    []models.TitledItem{{Title: "Concurrency"}},
		CourseData: []models.CourseContent{{
			Title:        "Intro",
			VideoURL:     "video-1",
			VideoSection: "Basics",
			Links:        []models.Link{{Title: "docs", URL: "https://go.dev"}},
		}},
	}
}

func (f *courseFixture) seed(t *testing.T) *models.Course {
	t.Helper()
	course, err := f.svc.CreateCourse(context.Background(), courseRequest(`"data:image/png;base64,AAAA"`))
	require.NoError(t, err)
	return course
}

func buyer(id, courseID int64) *models.User {
	return &models.User{
		ID:      id,
		Name:    "Buyer",
		Email:   "buyer@example.com",
		Role:    models.RoleUser,
		Courses: []models.EnrolledCourse{{CourseID: courseID}},
	}
}

func TestCreateCourseUploadsInlineThumbnail(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)

	require.NotNil(t, course.Thumbnail)
	assert.Equal(t, "courses/img-1", course.Thumbnail.PublicID)
	require.Len(t, course.CourseData, 1)
	_, err := uuid.Parse(course.CourseData[0].ID)
	assert.NoError(t, err)
	assert.NotNil(t, course.CourseData[0].Questions)
	assert.Empty(t, course.Reviews)
}

func TestCreateCourseKeepsThumbnailObject(t *testing.T) {
	f := newCourseFixture(t)

	course, err := f.svc.CreateCourse(context.Background(), courseRequest(`{"public_id":"courses/x","url":"http://cdn/x.png"}`))
	require.NoError(t, err)
	assert.Equal(t, &models.Image{PublicID: "courses/x", URL: "http://cdn/x.png"}, course.Thumbnail)
	assert.Zero(t, f.images.uploaded)
}

func TestCreateCourseRejectsInvalidThumbnail(t *testing.T) {
	f := newCourseFixture(t)

	for _, raw := range []string{`42`, `["a"]`, `"bad"`} {
		_, err := f.svc.CreateCourse(context.Background(), courseRequest(raw))
		requireAppError(t, err, http.StatusBadRequest, "Invalid thumbnail format")
	}
}

func TestGetSingleCourseServesSameContentFromCache(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)
	ctx := context.Background()

	miss, err := f.svc.GetSingleCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.True(t, f.redis.mr.Exists("course-1"))

	hit, err := f.svc.GetSingleCourse(ctx, course.ID)
	require.NoError(t, err)

	missJSON, err := json.Marshal(miss)
	require.NoError(t, err)
	hitJSON, err := json.Marshal(hit)
	require.NoError(t, err)
	assert.JSONEq(t, string(missJSON), string(hitJSON))
	assert.NotContains(t, string(hitJSON), "video-1")
}

func TestGetAllCoursesUsesListCache(t *testing.T) {
	f := newCourseFixture(t)
	f.seed(t)
	f.seed(t)
	ctx := context.Background()

	list, err := f.svc.GetAllCourses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.True(t, f.redis.mr.Exists("courses"))

	f.courses.mu.Lock()
	delete(f.courses.courses, 1)
	f.courses.mu.Unlock()

	cached, err := f.svc.GetAllCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestGetSingleCourseNotFound(t *testing.T) {
	f := newCourseFixture(t)

	_, err := f.svc.GetSingleCourse(context.Background(), 99)
	requireAppError(t, err, http.StatusNotFound, "Course not found")
}

func TestEditCourseReplacesThumbnailAndKeepsQuestions(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)
	ctx := context.Background()
	asker := buyer(7, course.ID)
	contentID := course.CourseData[0].ID

	_, err := f.svc.AddQuestion(ctx, asker, &dto.AddQuestionRequest{Question: "Why?", CourseID: "1", ContentID: contentID})
	require.NoError(t, err)
	_, err = f.svc.GetSingleCourse(ctx, course.ID)
	require.NoError(t, err)

	name := "Go in production"
	req := &dto.EditCourseRequest{
		Name:       &name,
		Thumbnail:  json.RawMessage(`"data:image/png;base64,BBBB"`),
		CourseData: []models.CourseContent{{ID: contentID, Title: "Intro, revised"}},
	}

	edited, err := f.svc.EditCourse(ctx, course.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Go in production", edited.Name)
	assert.Equal(t, "courses/img-2", edited.Thumbnail.PublicID)
	assert.Equal(t, []string{"courses/img-1"}, f.images.destroyed)
	require.Len(t, edited.CourseData, 1)
	assert.Len(t, edited.CourseData[0].Questions, 1)
	assert.False(t, f.redis.mr.Exists("course-1"))
}

func TestEditCourseWithoutThumbnailKeepsExisting(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)

	description := "Updated description"
	edited, err := f.svc.EditCourse(context.Background(), course.ID, &dto.EditCourseRequest{Description: &description})
	require.NoError(t, err)
	assert.Equal(t, course.Thumbnail, edited.Thumbnail)
	assert.Empty(t, f.images.destroyed)
}

func TestEditCourseKeepsOmittedFields(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)

	price := 49.5
	edited, err := f.svc.EditCourse(context.Background(), course.ID, &dto.EditCourseRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 49.5, edited.Price)
	assert.Equal(t, "Go in practice", edited.Name)
	assert.Equal(t, "Intermediate", edited.Level)
	require.Len(t, edited.Benefits, 1)
	assert.Equal(t, "Concurrency", edited.Benefits[0].Title)
	require.Len(t, edited.CourseData, 1)
	assert.Equal(t, course.CourseData[0].ID, edited.CourseData[0].ID)
}

func TestEditCourseRejectsBlankName(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)

	blank := "   "
	_, err := f.svc.EditCourse(context.Background(), course.ID, &dto.EditCourseRequest{Name: &blank})
	requireAppError(t, err, http.StatusBadRequest, "Course name cannot be empty")

	stored, err := f.svc.GetSingleCourse(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go in practice", stored.Name)
}

func TestGetCourseContentRequiresPurchase(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)
	ctx := context.Background()

	_, err := f.svc.GetCourseContent(ctx, buyer(5, 999), course.ID)
	requireAppError(t, err, http.StatusBadRequest, "Please buy this course to access the content")

	content, err := f.svc.GetCourseContent(ctx, buyer(5, course.ID), course.ID)
	require.NoError(t, err)
	require.Len(t, content, 1)
	assert.Equal(t, "video-1", content[0].VideoURL)

	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	_, err = f.svc.GetCourseContent(ctx, admin, course.ID)
	assert.NoError(t, err)
}

func TestAddQuestionValidatesTarget(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)
	ctx := context.Background()
	user := buyer(3, course.ID)

	_, err := f.svc.AddQuestion(ctx, user, &dto.AddQuestionRequest{CourseID: "1", ContentID: course.CourseData[0].ID})
	requireAppError(t, err, http.StatusBadRequest, "Question is required")

	_, err = f.svc.AddQuestion(ctx, user, &dto.AddQuestionRequest{Question: "?", CourseID: "1", ContentID: "nope"})
	requireAppError(t, err, http.StatusBadRequest, "Invalid content id")

	_, err = f.svc.AddQuestion(ctx, user, &dto.AddQuestionRequest{Question: "?", CourseID: "1", ContentID: uuid.NewString()})
	requireAppError(t, err, http.StatusNotFound, "Content not found")

	_, err = f.svc.AddQuestion(ctx, user, &dto.AddQuestionRequest{Question: "?", CourseID: "42", ContentID: course.CourseData[0].ID})
	requireAppError(t, err, http.StatusNotFound, "Course not found")
}

func TestAddAnswerNotifiesSelfAndMailsOthers(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)
	ctx := context.Background()
	asker := buyer(7, course.ID)
	asker.Email = "asker@example.com"
	contentID := course.CourseData[0].ID

	withQuestion, err := f.svc.AddQuestion(ctx, asker, &dto.AddQuestionRequest{Question: "Why?", CourseID: "1", ContentID: contentID})
	require.NoError(t, err)
	questionID := withQuestion.CourseData[0].Questions[0].ID

	_, err = f.svc.AddAnswer(ctx, asker, &dto.AddAnswerRequest{Answer: "Never mind", CourseID: "1", ContentID: contentID, QuestionID: questionID})
	require.NoError(t, err)
	assert.Empty(t, f.mailer.sent)
	assert.Equal(t, []string{"New Question Received", "New Question Reply Received"}, f.notes.titles())

	admin := &models.User{ID: 1, Name: "Admin", Role: models.RoleAdmin}
	answered, err := f.svc.AddAnswer(ctx, admin, &dto.AddAnswerRequest{Answer: "Because", CourseID: "1", ContentID: contentID, QuestionID: questionID})
	require.NoError(t, err)
	assert.Len(t, answered.CourseData[0].Questions[0].CommentReplies, 2)

	mail := f.mailer.last()
	assert.Equal(t, "asker@example.com", mail.to)
	assert.Equal(t, email.TemplateQuestionReply, mail.template)
	assert.Len(t, f.notes.titles(), 2)

	_, err = f.svc.AddAnswer(ctx, admin, &dto.AddAnswerRequest{Answer: "x", CourseID: "1", ContentID: contentID, QuestionID: uuid.NewString()})
	requireAppError(t, err, http.StatusBadRequest, "Invalid question id")
}

func TestAddReviewOncePerBuyerAndRoundsRating(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)
	ctx := context.Background()

	for i, rating := range []float64{5, 4, 4} {
		_, err := f.svc.AddReview(ctx, buyer(int64(10+i), course.ID), course.ID, &dto.AddReviewRequest{Review: "ok", Rating: rating})
		require.NoError(t, err)
	}

	stored, err := f.courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Reviews, 3)
	assert.Equal(t, 4.3, stored.Ratings)

	_, err = f.svc.AddReview(ctx, buyer(10, course.ID), course.ID, &dto.AddReviewRequest{Review: "again", Rating: 1})
	requireAppError(t, err, http.StatusBadRequest, "You have already reviewed this course")

	stored, err = f.courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Reviews, 3)
	assert.Contains(t, f.notes.titles(), "New Review Received")
}

func TestAddReviewRequiresPurchaseAndValidRating(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)
	ctx := context.Background()

	_, err := f.svc.AddReview(ctx, buyer(3, 999), course.ID, &dto.AddReviewRequest{Rating: 5})
	requireAppError(t, err, http.StatusBadRequest, "You are not eligible to access this course")

	_, err = f.svc.AddReview(ctx, buyer(3, course.ID), course.ID, &dto.AddReviewRequest{Rating: 6})
	requireAppError(t, err, http.StatusBadRequest, "Rating must be between 1 and 5")
}

func TestAddReplyToReview(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)
	ctx := context.Background()
	admin := &models.User{ID: 1, Name: "Admin", Role: models.RoleAdmin}

	reviewed, err := f.svc.AddReview(ctx, buyer(3, course.ID), course.ID, &dto.AddReviewRequest{Review: "good", Rating: 5})
	require.NoError(t, err)
	reviewID := reviewed.Reviews[0].ID

	replied, err := f.svc.AddReplyToReview(ctx, admin, &dto.AddReviewReplyRequest{Comment: "Thanks", CourseID: "1", ReviewID: reviewID})
	require.NoError(t, err)
	require.Len(t, replied.Reviews[0].CommentReplies, 1)
	assert.Equal(t, "Thanks", replied.Reviews[0].CommentReplies[0].Comment)

	_, err = f.svc.AddReplyToReview(ctx, admin, &dto.AddReviewReplyRequest{Comment: "Thanks", CourseID: "1", ReviewID: "missing"})
	requireAppError(t, err, http.StatusNotFound, "Review not found")
}

func TestDeleteCourseDestroysThumbnail(t *testing.T) {
	f := newCourseFixture(t)
	course := f.seed(t)
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteCourse(ctx, course.ID))
	assert.Equal(t, []string{"courses/img-1"}, f.images.destroyed)

	_, err := f.svc.GetSingleCourse(ctx, course.ID)
	requireAppError(t, err, http.StatusNotFound, "Course not found")

	err = f.svc.DeleteCourse(ctx, course.ID)
	requireAppError(t, err, http.StatusNotFound, "Course not found")
}
