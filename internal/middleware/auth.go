// Package middleware provides HTTP middleware for the content service.
package middleware

import (
	"net/http"
	"strings"

	"github.com/contenthub/content-service/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID is the gin context key holding the authenticated user id.
	ContextUserID = "user_id"
	// ContextUsername is the gin context key holding the authenticated username.
	ContextUsername = "username"
)

// RequireAuth validates the bearer token and stores the subject identity in
// the request context. Requests without a valid token are rejected before
// any handler runs; the response does not say which check failed.
func RequireAuth(jwtService service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// UserID returns the authenticated user id stored by RequireAuth.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

func extractBearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
