package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/middleware"
)

// LayoutController handles the landing page blocks
type LayoutController struct {
	layoutService LayoutService
}

// NewLayoutController creates a new LayoutController
func NewLayoutController(layoutService LayoutService) *LayoutController {
	return &LayoutController{layoutService: layoutService}
}

// CreateLayout creates the block of a type
// @Summary Create a layout block
// @Tags layout
// @Security BearerAuth
// @Param request body dto.LayoutRequest true "Layout"
// @Success 201 {object} dto.LayoutResponse
// @Router /create-layout [post]
func (c *LayoutController) CreateLayout(ctx *gin.Context) {
	var req dto.LayoutRequest
	if !bindJSON(ctx, &req) {
		return
	}

	layout, message, err := c.layoutService.CreateLayout(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.LayoutResponse{Success: true, Message: message, Layout: layout})
}

// EditLayout updates the block of a type
func (c *LayoutController) EditLayout(ctx *gin.Context) {
	var req dto.LayoutRequest
	if !bindJSON(ctx, &req) {
		return
	}

	layout, message, err := c.layoutService.EditLayout(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.LayoutResponse{Success: true, Message: message, Layout: layout})
}

// GetLayoutByType returns a block for the public site
// @Summary Get a layout block
// @Tags layout
// @Param type path string true "Banner, Faq, Category or Layout"
// @Success 200 {object} dto.LayoutResponse
// @Router /get-layout/{type} [get]
func (c *LayoutController) GetLayoutByType(ctx *gin.Context) {
	layout, err := c.layoutService.GetLayoutByType(ctx.Request.Context(), models.LayoutType(ctx.Param("type")))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.LayoutResponse{Success: true, Layout: layout})
}
