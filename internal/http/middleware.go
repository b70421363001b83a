package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quizbank/internal/auth"
)

const bearerPrefix = "Bearer "

// contextUserIDKey is the gin context key the middleware stores the
// authenticated subject id under.
const contextUserIDKey = "userID"

// authMiddleware rejects requests without a valid bearer token and attaches
// the token's subject id to the request context. It depends only on the
// header value, the clock and the signing secret, so it is safe to share
// across concurrent requests.
func authMiddleware(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
			return
		}

		subject, err := tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Token expired"})
			case errors.Is(err, auth.ErrTokenMalformed):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid token"})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			}
			return
		}

		c.Set(contextUserIDKey, subject)
		c.Next()
	}
}

// userIDFromContext returns the subject id set by authMiddleware.
func userIDFromContext(c *gin.Context) (string, bool) {
	id, ok := c.Get(contextUserIDKey)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok && s != ""
}
