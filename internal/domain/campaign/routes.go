package campaign

import "github.com/gin-gonic/gin"

// RegisterRoutes registers campaign routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	campaigns := r.Group("/campaigns")
	{
		campaigns.POST("/draft", handler.CreateDraft)
		campaigns.GET("/draft", handler.GetDraft)
		campaigns.PATCH("/draft", handler.UpdateDraft)
		campaigns.POST("/draft/submit", handler.Submit)
		campaigns.POST("/draft/retry-nurture", handler.RetryNurture)
		campaigns.GET("/metrics", handler.Metrics)
		campaigns.GET("/commits", handler.Commits)
	}
}
