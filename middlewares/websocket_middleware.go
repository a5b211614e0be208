package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/zest-order/utils"
)

// WebSocketAuthMiddleware reads the token from the query string; browsers
// cannot set headers on a websocket handshake.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// Validasi token
		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextToken, token)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}
