package lead

import "github.com/gin-gonic/gin"

// RegisterRoutes registers lead filtering routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	leads := r.Group("/leads")
	{
		leads.GET("/vocabulary", handler.Vocabulary)
		leads.POST("/refresh", handler.Refresh)
		leads.GET("/filter", handler.GetFilter)
		leads.PATCH("/filter", handler.UpdateFilter)
		leads.DELETE("/filter", handler.ClearFilter)
	}
}
