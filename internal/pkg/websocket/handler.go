package websocket

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/devrim/hostelhub/internal/app/auth"
	"github.com/devrim/hostelhub/internal/app/events"
	"github.com/devrim/hostelhub/internal/app/models"
	"github.com/devrim/hostelhub/internal/middleware"
)

// Handler for WebSocket connections
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// topicsFor maps a resolved scope onto event topics. Managers follow their
// own hostel's stream, owners follow the aggregate owners stream unless
// they narrowed to one hostel. Everyone receives system broadcasts.
func topicsFor(user *models.User, scope auth.AccessScope) []string {
	topics := []string{events.TopicGlobal}
	if scope.Unrestricted {
		return append(topics, events.TopicOwners)
	}
	if scope.HostelID != nil {
		topics = append(topics, events.TenantTopic(*scope.HostelID))
		if user.Role == models.RoleOwner {
			topics = append(topics, events.TopicOwners)
		}
	}
	return topics
}

// HandleConnection godoc
// @Summary Establish a WebSocket connection for real-time events
// @Description Upgrades the HTTP connection to a WebSocket stream of tenant events. Pass the JWT via the token query parameter.
// @Tags websocket
// @Produce json
// @Security BearerAuth
// @Param token query string false "JWT access token"
// @Param hostel_id query int false "Narrow to one hostel (owners)"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.ErrorResponse "JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Manager without an assigned hostel"
// @Router /ws/events [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	user, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not found in context",
		})
		return
	}

	var requested *int64
	if raw := c.Query("hostel_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "hostel_id must be a number",
			})
			return
		}
		requested = &id
	}

	scope, err := auth.Resolve(user, requested)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("userID", user.ID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: user.ID,
		topics: topicsFor(user, scope),
		logger: h.logger,
	}
	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("userID", user.ID).
		Strs("topics", client.topics).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
