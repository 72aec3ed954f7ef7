package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/detailing-scheduler/internal/middleware"
	"github.com/BruksfildServices01/detailing-scheduler/internal/usecase/calendarsync"
)

type CalendarSyncHandler struct {
	settings *calendarsync.Service
}

func NewCalendarSyncHandler(settings *calendarsync.Service) *CalendarSyncHandler {
	return &CalendarSyncHandler{settings: settings}
}

type CalendarSyncRequest struct {
	Enabled    bool   `json:"enabled"`
	CalendarID string `json:"calendar_id"`
	// RefreshToken is the Google OAuth refresh token obtained by the
	// frontend consent flow. Omit to keep the stored one.
	RefreshToken *string `json:"refresh_token"`
}

func (h *CalendarSyncHandler) Get(c *gin.Context) {
	s, err := h.settings.Get(c.Request.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_load_calendar_sync")
		return
	}
	httpresp.OK(c, s)
}

func (h *CalendarSyncHandler) Update(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req CalendarSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	s, err := h.settings.Update(c.Request.Context(), calendarsync.UpdateInput{
		ActorID:      actor.ID,
		Email:        actor.Email,
		Name:         actor.Name,
		Enabled:      req.Enabled,
		CalendarID:   req.CalendarID,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_calendar_sync")
		return
	}
	httpresp.OK(c, s)
}
