package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextUserEmail = "userEmail"
	ContextUserName  = "userName"
)

// Actor is the authenticated caller as read from the token claims.
type Actor struct {
	ID    string
	Role  string
	Email string
	Name  string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// AuthMiddleware validates an HS256 bearer token. Tokens are issued by the
// identity provider; only the claims sub, role, email and name are read.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {

			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, _ := claims["sub"].(string)
		if strings.TrimSpace(userID) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}
		role, _ := claims["role"].(string)
		if role == "" {
			role = models.RoleClient
		}
		email, _ := claims["email"].(string)
		name, _ := claims["name"].(string)

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)
		c.Set(ContextUserEmail, email)
		c.Set(ContextUserName, name)

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func ActorFrom(c *gin.Context) Actor {
	return Actor{
		ID:    c.GetString(ContextUserID),
		Role:  c.GetString(ContextUserRole),
		Email: c.GetString(ContextUserEmail),
		Name:  c.GetString(ContextUserName),
	}
}
