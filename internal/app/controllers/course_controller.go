package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/middleware"
)

// CourseController handles course catalogue, content and discussion endpoints
type CourseController struct {
	courseService CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// pathID parses the :id parameter or answers 400
func pathID(ctx *gin.Context) (int64, bool) {
	id, err := services.ParseID(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return 0, false
	}
	return id, true
}

// CreateCourse handles course creation
// @Summary Create a course
// @Tags courses
// @Security BearerAuth
// @Param request body dto.CourseRequest true "Course"
// @Success 201 {object} dto.CourseResponse
// @Router /create-course [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.CourseResponse{Success: true, Message: "Course created successfully", Course: course})
}

// EditCourse updates the fields sent in the body
// @Summary Edit a course
// @Tags courses
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.EditCourseRequest true "Fields to change"
// @Success 200 {object} dto.CourseResponse
// @Router /edit-course/{id} [put]
func (c *CourseController) EditCourse(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req dto.EditCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.EditCourse(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CourseResponse{Success: true, Message: "Course updated successfully", Course: course})
}

// GetSingleCourse returns the public view of a course
// @Summary Get a course
// @Tags courses
// @Param id path int true "Course ID"
// @Success 200 {object} dto.CoursePreviewResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /get-course/{id} [get]
func (c *CourseController) GetSingleCourse(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	course, err := c.courseService.GetSingleCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CoursePreviewResponse{Success: true, Course: course})
}

// GetAllCourses returns the public catalogue
// @Summary List courses
// @Tags courses
// @Success 200 {object} dto.CoursePreviewsResponse
// @Router /get-courses [get]
func (c *CourseController) GetAllCourses(ctx *gin.Context) {
	courses, err := c.courseService.GetAllCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CoursePreviewsResponse{Success: true, Courses: courses})
}

// GetAdminAllCourses returns every full course document
func (c *CourseController) GetAdminAllCourses(ctx *gin.Context) {
	courses, err := c.courseService.GetAdminAllCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CoursesResponse{Success: true, Courses: courses})
}

// GetCourseContent returns the buyer-only content of a course
func (c *CourseController) GetCourseContent(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	content, err := c.courseService.GetCourseContent(ctx.Request.Context(), user, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CourseContentResponse{Success: true, Content: content})
}

// AddQuestion asks a question on a content item
func (c *CourseController) AddQuestion(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.AddQuestionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.AddQuestion(ctx.Request.Context(), user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CourseResponse{Success: true, Message: "Question added successfully", Course: course})
}

// AddAnswer replies to a question
func (c *CourseController) AddAnswer(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.AddAnswerRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.AddAnswer(ctx.Request.Context(), user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CourseResponse{Success: true, Message: "Answer added successfully", Course: course})
}

// AddReview rates a purchased course
func (c *CourseController) AddReview(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req dto.AddReviewRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.AddReview(ctx.Request.Context(), user, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CourseResponse{Success: true, Message: "Review added successfully", Course: course})
}

// AddReplyToReview answers a review
func (c *CourseController) AddReplyToReview(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.AddReviewReplyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.AddReplyToReview(ctx.Request.Context(), user, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CourseResponse{Success: true, Message: "Reply added successfully", Course: course})
}

// DeleteCourse removes a course
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("courseID", id).Msg("Course removed by admin")
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Course deleted successfully"))
}
