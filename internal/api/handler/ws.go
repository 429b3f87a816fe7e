package handler

import (
	"net/http"
	"strings"

	"endgame/backend/internal/gamehub"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The game client is served from another origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// tokenFromRequest reads a bearer token from the Authorization header or,
// since browsers cannot set headers on a websocket upgrade, from ?token=.
func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return c.Query("token")
}

// ServeWebSocket upgrades the request and hands the connection to the hub.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	var anonID string
	if tokenString := tokenFromRequest(c); tokenString != "" {
		id, err := h.validateAndGetAnonID(tokenString)
		if err != nil {
			h.log.Debug("Rejected websocket token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}
		anonID = id
	} else if h.auth.Required {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	} else {
		anonID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already answered the request.
		h.log.Warn("Websocket upgrade failed", "error", err)
		return
	}

	client := gamehub.NewWebSocketClient(conn, h.Hub, anonID, h.sendBuffer, h.log)
	if err := h.Hub.Register(client); err != nil {
		h.log.Warn("Refusing connection", "player_id", anonID, "error", err)
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}
	client.Run()
}
