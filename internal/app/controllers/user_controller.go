package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/middleware"
)

// UserController handles profile and admin user management
type UserController struct {
	userService UserService
}

// NewUserController creates a new user controller
func NewUserController(userService UserService) *UserController {
	return &UserController{userService: userService}
}

// GetUserInfo returns the authenticated user
// @Summary Current user
// @Tags users
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Router /me [get]
func (c *UserController) GetUserInfo(ctx *gin.Context) {
	current, ok := currentUser(ctx)
	if !ok {
		return
	}

	user, err := c.userService.GetUserInfo(ctx.Request.Context(), current.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.UserResponse{Success: true, User: user})
}

// UpdateUserInfo changes name and/or email
func (c *UserController) UpdateUserInfo(ctx *gin.Context) {
	current, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.UpdateUserInfoRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.UpdateUserInfo(ctx.Request.Context(), current.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.UserResponse{Success: true, Message: "User updated successfully", User: user})
}

// UpdatePassword changes the password of a local account
func (c *UserController) UpdatePassword(ctx *gin.Context) {
	current, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.UpdatePasswordRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.UpdatePassword(ctx.Request.Context(), current.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.UserResponse{Success: true, Message: "Password updated successfully", User: user})
}

// UpdateAvatar replaces the profile picture
func (c *UserController) UpdateAvatar(ctx *gin.Context) {
	current, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.UpdateAvatarRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.UpdateAvatar(ctx.Request.Context(), current.ID, req.Avatar)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.UserResponse{Success: true, Message: "Profile picture updated successfully", User: user})
}

// GetAllUsers lists every user for admins
// @Summary List users
// @Tags admin
// @Security BearerAuth
// @Success 200 {object} dto.UsersResponse
// @Router /get-all-users [get]
func (c *UserController) GetAllUsers(ctx *gin.Context) {
	users, err := c.userService.GetAllUsers(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.UsersResponse{Success: true, Users: users})
}

// UpdateUserRole promotes or demotes a user
func (c *UserController) UpdateUserRole(ctx *gin.Context) {
	var req dto.UpdateUserRoleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.UpdateUserRole(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.UserResponse{Success: true, Message: "User role updated successfully", User: user})
}

// DeleteUser removes an account
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("User deleted successfully"))
}
