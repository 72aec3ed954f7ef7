package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/detailing-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	availabilityUC *ucAppointment.GetAvailability
	createUC       *ucAppointment.CreateAppointment
}

func NewPublicHandler(
	availabilityUC *ucAppointment.GetAvailability,
	createUC *ucAppointment.CreateAppointment,
) *PublicHandler {
	return &PublicHandler{
		availabilityUC: availabilityUC,
		createUC:       createUC,
	}
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	from := c.Query("from")
	if from == "" {
		from = c.Query("date")
	}
	if from == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter from is required.")
		return
	}

	days, err := h.availabilityUC.Execute(c.Request.Context(), ucAppointment.AvailabilityInput{
		From: from,
		To:   c.Query("to"),
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_load_availability")
		return
	}

	httpresp.List(c, days)
}

////////////////////////////////////////////////////////
// GUEST BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), req.input(models.GuestUserID))
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_appointment")
		return
	}

	c.JSON(http.StatusCreated, ap)
}
