package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/middleware"
)

// AnalyticsController serves the admin dashboard series
type AnalyticsController struct {
	analyticsService AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// GetUsersAnalytics counts registrations over the last 12 months
func (c *AnalyticsController) GetUsersAnalytics(ctx *gin.Context) {
	series, err := c.analyticsService.UsersAnalytics(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.AnalyticsResponse{Success: true, Users: series})
}

// GetCoursesAnalytics counts created courses over the last 12 months
func (c *AnalyticsController) GetCoursesAnalytics(ctx *gin.Context) {
	series, err := c.analyticsService.CoursesAnalytics(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.AnalyticsResponse{Success: true, Courses: series})
}

// GetOrdersAnalytics counts orders over the last 12 months
func (c *AnalyticsController) GetOrdersAnalytics(ctx *gin.Context) {
	series, err := c.analyticsService.OrdersAnalytics(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.AnalyticsResponse{Success: true, Orders: series})
}
