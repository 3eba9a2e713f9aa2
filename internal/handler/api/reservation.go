package api

import (
	"errors"
	"net/http"

	reqdto "dormwash/internal/handler/dto/request"
	resdto "dormwash/internal/handler/dto/response"
	"dormwash/internal/handler/httperr"
	"dormwash/internal/infra"
	"dormwash/internal/usecase/commands"
	"dormwash/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	ledger             commands.LedgerCommands
	reservationQueries queries.ReservationQueries
}

func NewReservationHandler(ledger commands.LedgerCommands, reservationQueries queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		ledger:             ledger,
		reservationQueries: reservationQueries,
	}
}

func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	snap, err := h.ledger.Create(c.Request.Context(), req.MemberID, req.MachineID, req.StartTime, req.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrMachineNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Machine not found", nil)
		case errors.Is(err, commands.ErrInvalidTimeSlot):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid time slot", nil)
		case errors.Is(err, commands.ErrReservationConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Machine already reserved for this slot", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationSnapshot(snap))
}

func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func (h *ReservationHandler) ListMemberReservations(c *gin.Context) {
	memberID, err := uuid.Parse(c.Query("member_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid or missing member_id", nil)
		return
	}

	views, err := h.reservationQueries.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	actor, err := uuid.Parse(c.Query("member_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid or missing member_id", nil)
		return
	}

	if err := h.ledger.Cancel(c.Request.Context(), id, actor); err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
