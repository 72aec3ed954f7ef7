package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

type AuditLogReader interface {
	ListAuditLogs(ctx context.Context, entityID string, limit int) ([]models.AuditLog, error)
}

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs AuditLogReader
}

func NewAuditLogsHandler(logs AuditLogReader) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

// List returns the newest entries, optionally for one entity.
func (h *AuditLogsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	logs, err := h.logs.ListAuditLogs(c.Request.Context(), c.Query("entity_id"), limit)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Failed to list audit logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"limit": limit,
		"total": len(logs),
		"logs":  logs,
	})
}
