package conversation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"leadnurture/internal/pkg/jwt"
	"leadnurture/internal/pkg/response"
)

// WorkspaceLookup reports whether a workspace is still open.
type WorkspaceLookup interface {
	Exists(workspaceID string) bool
}

// WSHandler upgrades console clients to the workspace event stream.
type WSHandler struct {
	hub        *Hub
	jwt        *jwt.Service
	workspaces WorkspaceLookup
	upgrader   websocket.Upgrader
	log        zerolog.Logger
}

// NewWSHandler creates the websocket handler. allowOrigin decides which
// browser origins may connect; nil allows any.
func NewWSHandler(hub *Hub, jwtService *jwt.Service, workspaces WorkspaceLookup, allowOrigin func(origin string) bool, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:        hub,
		jwt:        jwtService,
		workspaces: workspaces,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowOrigin == nil {
					return true
				}
				return allowOrigin(origin)
			},
		},
		log: log,
	}
}

// HandleWebSocket handles GET /api/v1/ws?token=CONSOLE_TOKEN
//
// Browsers cannot set headers on websocket requests, so the console token
// travels in the query string.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}
	if !h.workspaces.Exists(claims.WorkspaceID) {
		response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Workspace not found")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.log.Debug().Str("workspace_id", claims.WorkspaceID).Msg("websocket connected")
	h.hub.ServeWS(conn, claims.WorkspaceID)
	h.log.Debug().Str("workspace_id", claims.WorkspaceID).Msg("websocket disconnected")
}
