package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const DebugTokenHeader = "X-Debug-Token"

// DebugToken guards the debug surface. The configured value is a bcrypt
// hash; an empty hash rejects every request.
func DebugToken(hash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(DebugTokenHeader)
		if hash == "" || token == "" ||
			bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_debug_token"})
			return
		}
		c.Next()
	}
}
