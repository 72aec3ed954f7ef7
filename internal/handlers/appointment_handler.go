package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/detailing-scheduler/internal/middleware"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/detailing-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC       *ucAppointment.CreateAppointment
	rescheduleUC   *ucAppointment.RescheduleAppointment
	changeStatusUC *ucAppointment.ChangeStatus
	listByUserUC   *ucAppointment.ListAppointmentsByUser
	listByDateUC   *ucAppointment.ListAppointmentsByDate
	listByMonthUC  *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	rescheduleUC *ucAppointment.RescheduleAppointment,
	changeStatusUC *ucAppointment.ChangeStatus,
	listByUserUC *ucAppointment.ListAppointmentsByUser,
	listByDateUC *ucAppointment.ListAppointmentsByDate,
	listByMonthUC *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:       createUC,
		rescheduleUC:   rescheduleUC,
		changeStatusUC: changeStatusUC,
		listByUserUC:   listByUserUC,
		listByDateUC:   listByDateUC,
		listByMonthUC:  listByMonthUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	Service  string   `json:"service"`
	Services []string `json:"services"`
	Category string   `json:"category"`

	Date     string `json:"date" binding:"required"`      // YYYY-MM-DD
	TimeSlot string `json:"time_slot" binding:"required"` // HH:MM

	Address        models.Address  `json:"address"`
	EstimatedPrice decimal.Decimal `json:"estimated_price"`
	Notes          string          `json:"notes"`
	EmailReminders bool            `json:"email_reminders"`
}

func (r CreateAppointmentRequest) input(userID string) ucAppointment.CreateAppointmentInput {
	return ucAppointment.CreateAppointmentInput{
		UserID:         userID,
		UserEmail:      r.Email,
		UserName:       r.Name,
		UserPhone:      r.Phone,
		Service:        r.Service,
		Services:       r.Services,
		Category:       r.Category,
		Date:           r.Date,
		TimeSlot:       r.TimeSlot,
		Address:        r.Address,
		EstimatedPrice: r.EstimatedPrice,
		Notes:          r.Notes,
		EmailReminders: r.EmailReminders,
	}
}

type RescheduleRequest struct {
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CUSTOMER
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	// the token is the source of truth for who is booking
	if req.Email == "" {
		req.Email = actor.Email
	}
	if req.Name == "" {
		req.Name = actor.Name
	}

	ap, err := h.createUC.Execute(c.Request.Context(), req.input(actor.ID))
	if err != nil {
		httperr.FromError(c, err, "failed_to_create_appointment")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	list, err := h.listByUserUC.Execute(c.Request.Context(), actor.ID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, list)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), ucAppointment.RescheduleAppointmentInput{
		AppointmentID: c.Param("id"),
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		Date:          req.Date,
		TimeSlot:      req.TimeSlot,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_reschedule_appointment")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	// body is optional
	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.changeStatusUC.Execute(c.Request.Context(), ucAppointment.ChangeStatusInput{
		AppointmentID: c.Param("id"),
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		Status:        "cancelled",
		Reason:        req.Reason,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_cancel_appointment")
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// ADMIN
// ======================================================

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.changeStatusUC.Execute(c.Request.Context(), ucAppointment.ChangeStatusInput{
		AppointmentID: c.Param("id"),
		ActorID:       actor.ID,
		ActorRole:     actor.Role,
		Status:        req.Status,
		Reason:        req.Reason,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_change_status")
		return
	}

	httpresp.OK(c, ap)
}

// List answers ?date=YYYY-MM-DD or ?year=&month=.
func (h *AppointmentHandler) List(c *gin.Context) {
	if date := c.Query("date"); date != "" {
		list, err := h.listByDateUC.Execute(c.Request.Context(), date)
		if err != nil {
			httperr.FromError(c, err, "failed_to_list_appointments")
			return
		}
		httpresp.List(c, list)
		return
	}

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_date", "Provide date or year and month.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	list, err := h.listByMonthUC.Execute(c.Request.Context(), year, month)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_appointments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}
