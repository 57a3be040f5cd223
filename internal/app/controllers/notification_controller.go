package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/middleware"
)

// NotificationController handles the admin notification feed
type NotificationController struct {
	notificationService NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// GetNotifications lists every notification, newest first
func (c *NotificationController) GetNotifications(ctx *gin.Context) {
	notifications, err := c.notificationService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NotificationsResponse{Success: true, Notifications: notifications})
}

// UpdateNotification marks a notification read
func (c *NotificationController) UpdateNotification(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	notifications, err := c.notificationService.MarkRead(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NotificationsResponse{Success: true, Notifications: notifications})
}

// DeleteNotifications removes the read notifications
func (c *NotificationController) DeleteNotifications(ctx *gin.Context) {
	if err := c.notificationService.DeleteRead(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("All notifications deleted successfully"))
}
