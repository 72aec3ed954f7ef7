package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/detailing-scheduler/internal/middleware"
)

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

// GetMe echoes the caller as the API sees it.
func (h *MeHandler) GetMe(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    actor.ID,
			"name":  actor.Name,
			"email": actor.Email,
			"role":  actor.Role,
		},
	})
}
