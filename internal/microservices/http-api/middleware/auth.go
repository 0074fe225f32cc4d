package middleware

import (
	"net/http"
	"strings"

	"revivalhub/internal/microservices/http-api/service"
	"revivalhub/internal/shared"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// AuthMiddleware is a Gin middleware for JWT authentication of API requests
// It checks for the presence and validity of a JWT token in the Authorization header
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header", "code": "UNAUTHORIZED"})
			c.Abort()
			return
		}

		// format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format", "code": "UNAUTHORIZED"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "UNAUTHORIZED"})
			c.Abort()
			return
		}

		// userID is read by the request logger
		c.Set("userID", claims.UserID)
		c.Set(actorKey, shared.Actor{UserID: claims.UserID, Username: claims.Username})

		c.Next()
	}
}

// ActorFrom returns the verified caller set by AuthMiddleware.
func ActorFrom(c *gin.Context) (shared.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return shared.Actor{}, false
	}
	actor, ok := v.(shared.Actor)
	if !ok || !actor.Valid() {
		return shared.Actor{}, false
	}
	return actor, true
}
