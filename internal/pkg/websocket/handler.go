package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
)

// UserResolver returns the authenticated user stored on the request
type UserResolver func(c *gin.Context) (*models.User, bool)

// Handler upgrades admin requests to notification streams
type Handler struct {
	hub         *Hub
	currentUser UserResolver
	logger      zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, currentUser UserResolver, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:         hub,
		currentUser: currentUser,
		logger:      logger,
	}
}

// HandleConnection godoc
// @Summary Stream new notifications to an admin dashboard
// @Tags notifications, websocket
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Router /ws/notifications [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		// auth middleware runs first, so this only happens on misconfigured routes
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 16),
		userID: user.ID,
		logger: h.logger,
	}
	if !h.hub.attach(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
