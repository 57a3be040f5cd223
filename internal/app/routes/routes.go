package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/controllers"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/middleware"
	"github.com/yigit/learnhub/internal/pkg/websocket"
)

// Controllers groups every handler set mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Course       *controllers.CourseController
	Order        *controllers.OrderController
	Notification *controllers.NotificationController
	Layout       *controllers.LayoutController
	Analytics    *controllers.AnalyticsController

	// Metrics serves the Prometheus exposition, admin only. Nil leaves /metrics unmounted.
	Metrics http.Handler
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	handlers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	wsHandler *websocket.Handler,
) {
	v1 := router.Group("/api/v1")

	v1.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "API is working"})
	})

	authenticated := authMiddleware.IsAuthenticated()
	admin := authMiddleware.AuthorizeRoles(models.RoleAdmin)

	// --- Public Auth routes ---
	public := v1.Group("")
	public.Use(rateLimiter.Handler())
	{
		public.POST("/register", handlers.Auth.Register)
		public.POST("/activate-user", handlers.Auth.ActivateUser)
		public.POST("/login", handlers.Auth.Login)
		public.GET("/login", handlers.Auth.Login)
		public.POST("/refresh", handlers.Auth.RefreshToken)
		public.GET("/refresh", handlers.Auth.RefreshToken)
		public.POST("/social-auth", handlers.Auth.SocialAuth)
	}
	v1.POST("/logout", handlers.Auth.Logout)
	v1.GET("/logout", handlers.Auth.Logout)

	// --- Public catalogue routes ---
	v1.GET("/get-course/:id", handlers.Course.GetSingleCourse)
	v1.GET("/get-courses", handlers.Course.GetAllCourses)
	v1.GET("/get-layout/:type", handlers.Layout.GetLayoutByType)

	// --- Authenticated routes ---
	user := v1.Group("")
	user.Use(authenticated)
	{
		user.GET("/me", handlers.User.GetUserInfo)
		user.PUT("/update-user-info", handlers.User.UpdateUserInfo)
		user.PUT("/update-user-password", handlers.User.UpdatePassword)
		user.PUT("/update-avatar", handlers.User.UpdateAvatar)

		user.GET("/get-course-content/:id", handlers.Course.GetCourseContent)
		user.PUT("/add-question", handlers.Course.AddQuestion)
		user.PUT("/add-answer", handlers.Course.AddAnswer)
		user.PUT("/add-review/:id", handlers.Course.AddReview)

		user.POST("/create-order", handlers.Order.CreateOrder)
	}

	// --- Admin routes ---
	adminGroup := v1.Group("")
	adminGroup.Use(authenticated, admin)
	{
		adminGroup.GET("/get-all-users", handlers.User.GetAllUsers)
		adminGroup.PUT("/update-user-role", handlers.User.UpdateUserRole)
		adminGroup.DELETE("/delete-user/:id", handlers.User.DeleteUser)

		adminGroup.POST("/create-course", handlers.Course.CreateCourse)
		adminGroup.PUT("/edit-course/:id", handlers.Course.EditCourse)
		adminGroup.PUT("/add-reply-to-review", handlers.Course.AddReplyToReview)
		adminGroup.GET("/get-all-courses", handlers.Course.GetAdminAllCourses)
		adminGroup.DELETE("/delete-course/:id", handlers.Course.DeleteCourse)

		adminGroup.GET("/get-all-orders", handlers.Order.GetAllOrders)

		adminGroup.GET("/get-all-notifications", handlers.Notification.GetNotifications)
		adminGroup.PUT("/update-notification/:id", handlers.Notification.UpdateNotification)
		adminGroup.DELETE("/delete-all-notifications", handlers.Notification.DeleteNotifications)

		adminGroup.POST("/create-layout", handlers.Layout.CreateLayout)
		adminGroup.PUT("/edit-layout", handlers.Layout.EditLayout)

		adminGroup.GET("/get-users-analytics", handlers.Analytics.GetUsersAnalytics)
		adminGroup.GET("/get-courses-analytics", handlers.Analytics.GetCoursesAnalytics)
		adminGroup.GET("/get-orders-analytics", handlers.Analytics.GetOrdersAnalytics)

		adminGroup.GET("/ws/notifications", wsHandler.HandleConnection)
	}

	if handlers.Metrics != nil {
		router.GET("/metrics", authenticated, admin, gin.WrapH(handlers.Metrics))
	}
}
