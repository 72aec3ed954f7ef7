package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

var businessStatus = map[string]int{
	"appointment_not_found":  http.StatusNotFound,
	"notification_not_found": http.StatusNotFound,
	"blocked_slot_not_found": http.StatusNotFound,
	"forbidden":              http.StatusForbidden,
	"slot_full":              http.StatusConflict,
	"slot_blocked":           http.StatusConflict,
	"slot_already_blocked":   http.StatusConflict,
	"closed_day":             http.StatusConflict,
	"invalid_transition":     http.StatusConflict,
	"not_editable":           http.StatusConflict,
	"unknown_job":            http.StatusNotFound,
	"job_running":            http.StatusConflict,
}

var businessMessage = map[string]string{
	"appointment_not_found":  "Appointment not found.",
	"notification_not_found": "Notification not found.",
	"blocked_slot_not_found": "Blocked slot not found.",
	"forbidden":              "Not allowed for this account.",
	"slot_full":              "This time slot is fully booked.",
	"slot_blocked":           "This time slot is unavailable.",
	"slot_already_blocked":   "This time slot is already blocked.",
	"closed_day":             "We are closed on this day.",
	"invalid_transition":     "Status change not allowed.",
	"not_editable":           "Only pending appointments can be rescheduled.",
	"invalid_date":           "Invalid date.",
	"invalid_time":           "Invalid time.",
	"invalid_range":          "Invalid date range.",
	"invalid_status":         "Invalid status.",
	"unknown_slot":           "Unknown time slot.",
	"invalid_email":          "Invalid email address.",
	"date_in_past":           "Date is in the past.",
	"service_required":       "Select at least one service.",
	"unknown_job":            "Unknown job.",
	"unknown_notification":   "Unknown notification type.",
	"job_running":            "Job is already running.",
}

// FromError writes err as an HTTP response. Business errors map to 4xx with
// their code, anything else is a 500 with fallbackCode.
func FromError(c *gin.Context, err error, fallbackCode string) {
	if be, ok := AsBusiness(err); ok {
		status, found := businessStatus[be.Code]
		if !found {
			status = http.StatusBadRequest
		}
		msg, found := businessMessage[be.Code]
		if !found {
			msg = be.Code
		}
		Write(c, status, be.Code, msg)
		return
	}
	Internal(c, fallbackCode, "Internal error.")
}
