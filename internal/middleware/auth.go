package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xpense/xpense/internal/auth"
)

// usernameKey is the gin context key for the authenticated username.
const usernameKey = "username"

// Username extracts the authenticated username from the request context.
// Returns empty string if the request is unauthenticated.
func Username(c *gin.Context) string {
	return c.GetString(usernameKey)
}

// RequireAuth returns a middleware that validates Bearer tokens and
// aborts unauthenticated requests before any ledger check runs.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		username, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(usernameKey, username)
		c.Next()
	}
}
