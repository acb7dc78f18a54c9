package workspace

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/domain/campaign"
	"leadnurture/internal/domain/conversation"
	"leadnurture/internal/domain/lead"
	"leadnurture/internal/pkg/response"
)

// Attach resolves the workspace named by the console token and exposes its
// state to the domain handlers. It runs after the JWT middleware.
func Attach(registry *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetString(auth.WorkspaceIDKey)
		ws, ok := registry.Get(id)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "NO_WORKSPACE", "Session is no longer active, please log in again")
			c.Abort()
			return
		}

		c.Set(auth.SessionKey, ws.Session)
		c.Set(lead.SessionKey, ws.Filter)
		c.Set(campaign.OrchestratorKey, ws.Campaign)
		c.Set(conversation.ControllerKey, ws.Conversation)
		c.Next()
	}
}
