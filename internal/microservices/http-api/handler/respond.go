package handler

import (
	"net/http"

	"revivalhub/internal/apperrors"
	"revivalhub/internal/microservices/http-api/middleware"
	"revivalhub/internal/shared"

	"github.com/gin-gonic/gin"
)

// respondError writes {"error", "code"} with the status for err's kind.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{
		"error": apperrors.MessageOf(err),
		"code":  string(apperrors.KindOf(err)),
	})
}

func requireActor(c *gin.Context) (shared.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated", "code": "UNAUTHORIZED"})
		return shared.Actor{}, false
	}
	return actor, true
}
