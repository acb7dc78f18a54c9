package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"leadnurture/internal/domain/auth"
	"leadnurture/internal/pkg/jwt"
	"leadnurture/internal/pkg/response"
)

// JWTAuth validates the console session token and exposes the workspace it
// names. The workspace itself is resolved by a later middleware.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(auth.WorkspaceIDKey, claims.WorkspaceID)
		c.Set(auth.UsernameKey, claims.Username)
		c.Next()
	}
}
