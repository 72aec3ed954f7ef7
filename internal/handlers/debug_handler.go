package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/detailing-scheduler/internal/reminder"
	ucNotification "github.com/BruksfildServices01/detailing-scheduler/internal/usecase/notification"
)

type JobRunner interface {
	RunNow(ctx context.Context, name string) (reminder.Report, error)
}

// DebugHandler lets operators fire jobs and notifications by hand.
type DebugHandler struct {
	jobs   JobRunner
	sendUC *ucNotification.SendNotification
}

func NewDebugHandler(jobs JobRunner, sendUC *ucNotification.SendNotification) *DebugHandler {
	return &DebugHandler{jobs: jobs, sendUC: sendUC}
}

type SendNotificationRequest struct {
	Type          string `json:"type" binding:"required"`
	AppointmentID string `json:"appointment_id" binding:"required"`
}

func (h *DebugHandler) RunJob(c *gin.Context) {
	name := c.Param("name")

	rep, err := h.jobs.RunNow(c.Request.Context(), name)
	switch {
	case errors.Is(err, reminder.ErrUnknownJob):
		httperr.FromError(c, httperr.ErrBusiness("unknown_job"), "")
		return
	case errors.Is(err, reminder.ErrJobRunning):
		httperr.FromError(c, httperr.ErrBusiness("job_running"), "")
		return
	case err != nil:
		httperr.Internal(c, "job_failed", err.Error())
		return
	}

	httpresp.OK(c, gin.H{"job": name, "report": rep})
}

func (h *DebugHandler) SendNotification(c *gin.Context) {
	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	res, err := h.sendUC.Execute(c.Request.Context(), req.Type, req.AppointmentID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_send_notification")
		return
	}

	httpresp.OK(c, res)
}
