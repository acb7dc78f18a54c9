package conversation

import "github.com/gin-gonic/gin"

// RegisterRoutes registers conversation routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	conversations := r.Group("/conversations")
	{
		conversations.GET("", handler.List)
		conversations.POST("/:id/open", handler.Open)
		conversations.GET("/current", handler.Current)
		conversations.PUT("/current/input", handler.SetInput)
		conversations.POST("/current/send", handler.Send)
		conversations.POST("/current/messages/:local_id/retry", handler.Retry)
		conversations.POST("/current/close", handler.Close)
	}
}

// RegisterWSRoutes registers the event stream route
func RegisterWSRoutes(r *gin.RouterGroup, handler *WSHandler) {
	r.GET("/ws", handler.HandleWebSocket)
}
