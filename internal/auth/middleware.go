package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// TokenHeader is the header the web client sends its token in.
	TokenHeader = "x-auth-token"

	userIDKey = "user_id"
)

// JWTMiddleware rejects requests without a valid token and stores the caller's
// id in the gin context.
func JWTMiddleware(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is not valid"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if token := c.GetHeader(TokenHeader); token != "" {
		return token
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	// Browsers cannot set headers on a WebSocket handshake.
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query("token")
	}
	return ""
}

// GetUserID returns the authenticated user id set by JWTMiddleware.
func GetUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}

// SetUserID is used by tests and internal callers to act as a user.
func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}
