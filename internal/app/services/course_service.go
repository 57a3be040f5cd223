package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/email"
	"github.com/yigit/learnhub/internal/pkg/filestorage"
)

const courseThumbnailFolder = "courses"

var (
	errInvalidThumbnail = apperrors.NewBadRequestError("Invalid thumbnail format")
	errEmptyCourseName  = apperrors.NewBadRequestError("Course name cannot be empty")
	errContentNotFound  = apperrors.NewNotFoundError("Content not found")
)

// CourseService handles course content, discussions and reviews
type CourseService struct {
	courseRepo repositories.ICourseRepository
	cache      CourseCache
	images     filestorage.ImageStore
	mailer     email.EmailService
	notifier   Notifier
	logger     zerolog.Logger
	now        func() time.Time
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo repositories.ICourseRepository,
	cache CourseCache,
	images filestorage.ImageStore,
	mailer email.EmailService,
	notifier Notifier,
	logger zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		cache:      cache,
		images:     images,
		mailer:     mailer,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// thumbnailInput is the decoded form of the polymorphic thumbnail field
type thumbnailInput struct {
	present bool
	image   *models.Image
	upload  string
}

func parseThumbnail(raw json.RawMessage) (thumbnailInput, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return thumbnailInput{}, nil
	}

	switch trimmed[0] {
	case '"':
		var data string
		if err := json.Unmarshal(trimmed, &data); err != nil || data == "" {
			return thumbnailInput{}, errInvalidThumbnail
		}
		return thumbnailInput{present: true, upload: data}, nil
	case '{':
		var img models.Image
		if err := json.Unmarshal(trimmed, &img); err != nil {
			return thumbnailInput{}, errInvalidThumbnail
		}
		return thumbnailInput{present: true, image: &img}, nil
	}
	return thumbnailInput{}, errInvalidThumbnail
}

// resolveThumbnail uploads inline images and returns the reference to store
func (s *CourseService) resolveThumbnail(ctx context.Context, in thumbnailInput) (*models.Image, error) {
	if in.upload == "" {
		return in.image, nil
	}
	img, err := s.images.Upload(ctx, in.upload, courseThumbnailFolder)
	if err != nil {
		if errors.Is(err, filestorage.ErrInvalidImage) {
			return nil, errInvalidThumbnail
		}
		return nil, err
	}
	return img, nil
}

func (s *CourseService) destroyImage(ctx context.Context, img *models.Image) {
	if img == nil || img.PublicID == "" {
		return
	}
	if err := s.images.Destroy(ctx, img.PublicID); err != nil {
		s.logger.Warn().Err(err).Str("publicID", img.PublicID).Msg("Failed to delete image")
	}
}

func (s *CourseService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("courseID", id).Msg("Failed to invalidate course cache")
	}
}

// normalizeContent gives every content item an id and non-nil collections
func normalizeContent(items []models.CourseContent) []models.CourseContent {
	if items == nil {
		return []models.CourseContent{}
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if items[i].Links == nil {
			items[i].Links = []models.Link{}
		}
		if items[i].Questions == nil {
			items[i].Questions = []models.Comment{}
		}
	}
	return items
}

func titled(items []models.TitledItem) []models.TitledItem {
	if items == nil {
		return []models.TitledItem{}
	}
	return items
}

func applyCourseFields(course *models.Course, req *dto.CourseRequest) {
	course.Name = strings.TrimSpace(req.Name)
	course.Description = req.Description
	course.Categories = req.Categories
	course.Price = req.Price
	course.EstimatedPrice = req.EstimatedPrice
	course.Tags = req.Tags
	course.Level = req.Level
	course.DemoURL = req.DemoURL
	course.Benefits = titled(req.Benefits)
	course.Prerequisites = titled(req.Prerequisites)
}

// applyCourseEdit copies the fields present in req onto course
func applyCourseEdit(course *models.Course, req *dto.EditCourseRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return errEmptyCourseName
		}
		course.Name = name
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Categories != nil {
		course.Categories = *req.Categories
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.EstimatedPrice != nil {
		course.EstimatedPrice = req.EstimatedPrice
	}
	if req.Tags != nil {
		course.Tags = *req.Tags
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.DemoURL != nil {
		course.DemoURL = *req.DemoURL
	}
	if req.Benefits != nil {
		course.Benefits = req.Benefits
	}
	if req.Prerequisites != nil {
		course.Prerequisites = req.Prerequisites
	}
	return nil
}

// CreateCourse stores a new course
func (s *CourseService) CreateCourse(ctx context.Context, req *dto.CourseRequest) (*models.Course, error) {
	thumb, err := parseThumbnail(req.Thumbnail)
	if err != nil {
		return nil, err
	}
	img, err := s.resolveThumbnail(ctx, thumb)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Thumbnail:  img,
		Reviews:    []models.Review{},
		CourseData: normalizeContent(req.CourseData),
	}
	applyCourseFields(course, req)

	if err := s.courseRepo.Create(ctx, course); err != nil {
		if thumb.upload != "" {
			s.destroyImage(ctx, img)
		}
		return nil, err
	}

	s.invalidate(ctx, course.ID)
	s.logger.Info().Int64("courseID", course.ID).Msg("Course created")
	return course, nil
}

// EditCourse updates the fields present in req. Questions of content items that keep
// their id survive when the request omits them.
func (s *CourseService) EditCourse(ctx context.Context, id int64, req *dto.EditCourseRequest) (*models.Course, error) {
	thumb, err := parseThumbnail(req.Thumbnail)
	if err != nil {
		return nil, err
	}
	img, err := s.resolveThumbnail(ctx, thumb)
	if err != nil {
		return nil, err
	}

	var replaced *models.Image
	course, err := s.courseRepo.Mutate(ctx, id, func(course *models.Course) error {
		previous := make(map[string]models.CourseContent, len(course.CourseData))
		for _, cc := range course.CourseData {
			previous[cc.ID] = cc
		}

		if err := applyCourseEdit(course, req); err != nil {
			return err
		}
		if req.CourseData != nil {
			for i := range req.CourseData {
				if old, ok := previous[req.CourseData[i].ID]; ok && req.CourseData[i].Questions == nil {
					req.CourseData[i].Questions = old.Questions
				}
			}
			course.CourseData = normalizeContent(req.CourseData)
		}

		if thumb.present {
			if course.Thumbnail != nil && (img == nil || course.Thumbnail.PublicID != img.PublicID) {
				replaced = course.Thumbnail
			}
			course.Thumbnail = img
		}
		return nil
	})
	if err != nil {
		if thumb.upload != "" {
			s.destroyImage(ctx, img)
		}
		return nil, notFound(err, apperrors.ErrCourseNotFound, errCourseNotFound)
	}

	if thumb.upload != "" {
		s.destroyImage(ctx, replaced)
	}
	s.invalidate(ctx, id)
	return course, nil
}

// GetSingleCourse returns the public projection of a course through the cache
func (s *CourseService) GetSingleCourse(ctx context.Context, id int64) (*models.CoursePreview, error) {
	cached, found, err := s.cache.GetCourse(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Int64("courseID", id).Msg("Course cache read failed")
	}
	if found {
		return cached, nil
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCourseNotFound, errCourseNotFound)
	}

	preview := course.Preview()
	if err := s.cache.SetCourse(ctx, &preview); err != nil {
		s.logger.Warn().Err(err).Int64("courseID", id).Msg("Course cache write failed")
	}
	return &preview, nil
}

// GetAllCourses returns the public projection of every course, newest first, through the cache
func (s *CourseService) GetAllCourses(ctx context.Context) ([]models.CoursePreview, error) {
	cached, found, err := s.cache.GetCourses(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Course list cache read failed")
	}
	if found {
		return cached, nil
	}

	courses, err := s.courseRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	previews := make([]models.CoursePreview, 0, len(courses))
	for _, c := range courses {
		previews = append(previews, c.Preview())
	}
	if err := s.cache.SetCourses(ctx, previews); err != nil {
		s.logger.Warn().Err(err).Msg("Course list cache write failed")
	}
	return previews, nil
}

// GetAdminAllCourses returns the full documents, newest first
func (s *CourseService) GetAdminAllCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.ListAll(ctx)
}

// GetCourseContent returns the full content list to buyers and admins
func (s *CourseService) GetCourseContent(ctx context.Context, user *models.User, id int64) ([]models.CourseContent, error) {
	if !user.IsAdmin() && !user.IsEnrolled(id) {
		return nil, apperrors.NewBadRequestError("Please buy this course to access the content")
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrCourseNotFound, errCourseNotFound)
	}
	return course.CourseData, nil
}

func newComment(user *models.User, text string, at time.Time) models.Comment {
	return models.Comment{
		ID:             uuid.NewString(),
		User:           user.Summary(),
		Comment:        text,
		CommentReplies: []models.Comment{},
		CreatedAt:      at,
	}
}

func parseCourseID(raw string) (int64, error) {
	id, err := ParseID(raw)
	if err != nil {
		return 0, apperrors.NewBadRequestError("Invalid course id")
	}
	return id, nil
}

func validSubID(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil
}

// AddQuestion appends a question to a content item
func (s *CourseService) AddQuestion(ctx context.Context, user *models.User, req *dto.AddQuestionRequest) (*models.Course, error) {
	question := strings.TrimSpace(req.Question)
	switch {
	case question == "":
		return nil, apperrors.NewBadRequestError("Question is required")
	case req.CourseID == "":
		return nil, apperrors.NewBadRequestError("Course ID is required")
	case req.ContentID == "":
		return nil, apperrors.NewBadRequestError("Content ID is required")
	}
	if !validSubID(req.ContentID) {
		return nil, apperrors.NewBadRequestError("Invalid content id")
	}
	courseID, err := parseCourseID(req.CourseID)
	if err != nil {
		return nil, err
	}

	var contentTitle string
	course, err := s.courseRepo.Mutate(ctx, courseID, func(course *models.Course) error {
		content := course.FindContent(req.ContentID)
		if content == nil {
			return errContentNotFound
		}
		content.Questions = append(content.Questions, newComment(user, question, s.now()))
		contentTitle = content.Title
		return nil
	})
	if err != nil {
		return nil, notFound(err, apperrors.ErrCourseNotFound, errCourseNotFound)
	}

	s.invalidate(ctx, courseID)
	s.notifier.Notify(ctx, user.ID, "New Question Received", fmt.Sprintf("You have a new question in %s", contentTitle))
	return course, nil
}

// AddAnswer appends a reply to a question. The asker is told by notification when answering
// their own question and by email otherwise.
func (s *CourseService) AddAnswer(ctx context.Context, user *models.User, req *dto.AddAnswerRequest) (*models.Course, error) {
	answer := strings.TrimSpace(req.Answer)
	switch {
	case answer == "":
		return nil, apperrors.NewBadRequestError("Answer is required")
	case req.CourseID == "":
		return nil, apperrors.NewBadRequestError("Course ID is required")
	case req.ContentID == "":
		return nil, apperrors.NewBadRequestError("Content ID is required")
	case req.QuestionID == "":
		return nil, apperrors.NewBadRequestError("Question ID is required")
	}
	if !validSubID(req.ContentID) {
		return nil, apperrors.NewBadRequestError("Invalid content id")
	}
	if !validSubID(req.QuestionID) {
		return nil, apperrors.NewBadRequestError("Invalid question id")
	}
	courseID, err := parseCourseID(req.CourseID)
	if err != nil {
		return nil, err
	}

	var (
		contentTitle string
		asker        models.UserSummary
	)
	course, err := s.courseRepo.Mutate(ctx, courseID, func(course *models.Course) error {
		content := course.FindContent(req.ContentID)
		if content == nil {
			return errContentNotFound
		}
		question := content.FindQuestion(req.QuestionID)
		if question == nil {
			return apperrors.NewBadRequestError("Invalid question id")
		}
		question.CommentReplies = append(question.CommentReplies, newComment(user, answer, s.now()))
		contentTitle = content.Title
		asker = question.User
		return nil
	})
	if err != nil {
		return nil, notFound(err, apperrors.ErrCourseNotFound, errCourseNotFound)
	}

	s.invalidate(ctx, courseID)

	if asker.ID == user.ID {
		s.notifier.Notify(ctx, user.ID, "New Question Reply Received",
			fmt.Sprintf("You have a new question reply in %s", contentTitle))
	} else if err := s.mailer.SendQuestionReply(ctx, asker.Email, asker.Name, contentTitle); err != nil {
		s.logger.Error().Err(err).Int64("courseID", courseID).Msg("Failed to send question reply email")
	}
	return course, nil
}

// AddReview records the single review a buyer may leave and recomputes the rating
func (s *CourseService) AddReview(ctx context.Context, user *models.User, courseID int64, req *dto.AddReviewRequest) (*models.Course, error) {
	if !user.IsEnrolled(courseID) {
		return nil, apperrors.NewBadRequestError("You are not eligible to access this course")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.NewBadRequestError("Rating must be between 1 and 5")
	}

	course, err := s.courseRepo.Mutate(ctx, courseID, func(course *models.Course) error {
		if course.HasReviewFrom(user.ID) {
			return apperrors.NewBadRequestError("You have already reviewed this course")
		}
		course.AddReview(models.Review{
			ID:             uuid.NewString(),
			User:           user.Summary(),
			Rating:         req.Rating,
			Comment:        strings.TrimSpace(req.Review),
			CommentReplies: []models.Comment{},
			CreatedAt:      s.now(),
		})
		return nil
	})
	if err != nil {
		return nil, notFound(err, apperrors.ErrCourseNotFound, errCourseNotFound)
	}

	s.invalidate(ctx, courseID)
	s.notifier.Notify(ctx, user.ID, "New Review Received",
		fmt.Sprintf("%s has given a review in %s", user.Name, course.Name))
	return course, nil
}

// AddReplyToReview appends an admin reply to a review
func (s *CourseService) AddReplyToReview(ctx context.Context, user *models.User, req *dto.AddReviewReplyRequest) (*models.Course, error) {
	comment := strings.TrimSpace(req.Comment)
	switch {
	case comment == "":
		return nil, apperrors.NewBadRequestError("Comment is required")
	case req.CourseID == "":
		return nil, apperrors.NewBadRequestError("Course ID is required")
	case req.ReviewID == "":
		return nil, apperrors.NewBadRequestError("Review ID is required")
	}
	courseID, err := parseCourseID(req.CourseID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.Mutate(ctx, courseID, func(course *models.Course) error {
		review := course.FindReview(req.ReviewID)
		if review == nil {
			return apperrors.NewNotFoundError("Review not found")
		}
		review.CommentReplies = append(review.CommentReplies, newComment(user, comment, s.now()))
		return nil
	})
	if err != nil {
		return nil, notFound(err, apperrors.ErrCourseNotFound, errCourseNotFound)
	}

	s.invalidate(ctx, courseID)
	return course, nil
}

// DeleteCourse removes a course and its thumbnail
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return notFound(err, apperrors.ErrCourseNotFound, errCourseNotFound)
	}
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return notFound(err, apperrors.ErrCourseNotFound, errCourseNotFound)
	}

	s.invalidate(ctx, id)
	s.destroyImage(ctx, course.Thumbnail)
	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}
