package api

import (
	"net/http"

	resdto "dormwash/internal/handler/dto/response"
	"dormwash/internal/handler/httperr"
	"dormwash/internal/infra"
	"dormwash/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MachineHandler struct {
	machineQueries queries.MachineQueries
}

func NewMachineHandler(machineQueries queries.MachineQueries) *MachineHandler {
	return &MachineHandler{
		machineQueries: machineQueries,
	}
}

func (h *MachineHandler) ListMachines(c *gin.Context) {
	var filter queries.MachineFilter
	if building := c.Query("building"); building != "" {
		filter.Building = &building
	}
	if kind := c.Query("kind"); kind != "" {
		filter.Kind = &kind
	}

	views, err := h.machineQueries.List(c.Request.Context(), filter)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromMachineViews(views))
}

func (h *MachineHandler) GetMachine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid machine ID format", nil)
		return
	}

	view, err := h.machineQueries.Get(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Machine not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromMachineView(view))
}
