package shortlist

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the shortlist route under /leads
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/leads/shortlist", handler.Create)
}
