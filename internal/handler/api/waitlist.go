package api

import (
	"errors"
	"net/http"

	reqdto "dormwash/internal/handler/dto/request"
	resdto "dormwash/internal/handler/dto/response"
	"dormwash/internal/handler/httperr"
	"dormwash/internal/usecase/commands"
	"dormwash/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WaitlistHandler struct {
	waitlistCommands commands.WaitlistCommands
	waitlistQueries  queries.WaitlistQueries
}

func NewWaitlistHandler(waitlistCommands commands.WaitlistCommands, waitlistQueries queries.WaitlistQueries) *WaitlistHandler {
	return &WaitlistHandler{
		waitlistCommands: waitlistCommands,
		waitlistQueries:  waitlistQueries,
	}
}

func (h *WaitlistHandler) JoinWaitlist(c *gin.Context) {
	machineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid machine ID format", nil)
		return
	}

	var req reqdto.JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.waitlistCommands.Join(c.Request.Context(), req.MemberID, machineID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrMachineNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Machine not found", nil)
		case errors.Is(err, commands.ErrMachineIdle):
			httperr.AbortWithError(c, http.StatusConflict, err, "Machine is free, reserve it directly", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	status := http.StatusCreated
	if result.AlreadyWaiting {
		status = http.StatusOK
	}
	c.JSON(status, resdto.JoinWaitlistResponse{
		Entry:          resdto.FromWaitEntrySnapshot(result.Entry),
		AlreadyWaiting: result.AlreadyWaiting,
	})
}

func (h *WaitlistHandler) LeaveWaitlist(c *gin.Context) {
	machineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid machine ID format", nil)
		return
	}

	memberID, err := uuid.Parse(c.Query("member_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid or missing member_id", nil)
		return
	}

	if err := h.waitlistCommands.Leave(c.Request.Context(), memberID, machineID); err != nil {
		switch {
		case errors.Is(err, commands.ErrWaitEntryNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Wait entry not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *WaitlistHandler) PeekWaitlist(c *gin.Context) {
	machineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid machine ID format", nil)
		return
	}

	views, err := h.waitlistQueries.PeekAll(c.Request.Context(), machineID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromWaitEntryViews(views))
}
