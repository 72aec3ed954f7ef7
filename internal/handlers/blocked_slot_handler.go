package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/detailing-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/detailing-scheduler/internal/usecase/appointment"
)

type BlockedSlotHandler struct {
	blockUC   *ucAppointment.BlockSlot
	unblockUC *ucAppointment.UnblockSlot
	listUC    *ucAppointment.ListBlockedSlots
}

func NewBlockedSlotHandler(
	blockUC *ucAppointment.BlockSlot,
	unblockUC *ucAppointment.UnblockSlot,
	listUC *ucAppointment.ListBlockedSlots,
) *BlockedSlotHandler {
	return &BlockedSlotHandler{
		blockUC:   blockUC,
		unblockUC: unblockUC,
		listUC:    listUC,
	}
}

type BlockSlotRequest struct {
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
	Reason   string `json:"reason"`
}

func (h *BlockedSlotHandler) List(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter from is required.")
		return
	}
	if to == "" {
		to = from
	}

	list, err := h.listUC.Execute(c.Request.Context(), from, to)
	if err != nil {
		httperr.FromError(c, err, "failed_to_list_blocked_slots")
		return
	}

	httpresp.List(c, list)
}

func (h *BlockedSlotHandler) Create(c *gin.Context) {
	var req BlockSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.blockUC.Execute(c.Request.Context(), ucAppointment.BlockSlotInput{
		Date:     req.Date,
		TimeSlot: req.TimeSlot,
		Reason:   req.Reason,
		ActorID:  middleware.ActorFrom(c).ID,
	})
	if err != nil {
		httperr.FromError(c, err, "failed_to_block_slot")
		return
	}

	c.JSON(http.StatusCreated, b)
}

func (h *BlockedSlotHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return
	}

	if err := h.unblockUC.Execute(c.Request.Context(), uint(id), middleware.ActorFrom(c).ID); err != nil {
		httperr.FromError(c, err, "failed_to_unblock_slot")
		return
	}

	c.Status(http.StatusNoContent)
}
