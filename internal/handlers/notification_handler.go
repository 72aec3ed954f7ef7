package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/detailing-scheduler/internal/middleware"
	ucNotification "github.com/BruksfildServices01/detailing-scheduler/internal/usecase/notification"
)

type NotificationHandler struct {
	inbox *ucNotification.Inbox
}

func NewNotificationHandler(inbox *ucNotification.Inbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// List accepts an optional ?read=true|false filter.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.ActorFrom(c).ID

	var read *bool
	if v := c.Query("read"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			httperr.BadRequest(c, "invalid_read_filter", "read must be true or false.")
			return
		}
		read = &b
	}

	list, err := h.inbox.List(c.Request.Context(), userID, read)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_notifications")
		return
	}

	httpresp.List(c, list)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.inbox.UnreadCount(c.Request.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		httperr.FromError(c, err, "failed_to_count_notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.inbox.MarkRead(c.Request.Context(), middleware.ActorFrom(c).ID, c.Param("id")); err != nil {
		httperr.FromError(c, err, "failed_to_update_notification")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkUnread(c *gin.Context) {
	if err := h.inbox.MarkUnread(c.Request.Context(), middleware.ActorFrom(c).ID, c.Param("id")); err != nil {
		httperr.FromError(c, err, "failed_to_update_notification")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.inbox.Delete(c.Request.Context(), middleware.ActorFrom(c).ID, c.Param("id")); err != nil {
		httperr.FromError(c, err, "failed_to_delete_notification")
		return
	}
	c.Status(http.StatusNoContent)
}
