package response

import (
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"dormwash/internal/usecase/queries"
)

type MachineResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Building string    `json:"building"`
	Kind     string    `json:"kind"`
	Occupied bool      `json:"occupied"`
}

func FromMachineView(view *queries.MachineView) *MachineResponse {
	var resp MachineResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromMachineViews(views []*queries.MachineView) []*MachineResponse {
	resps := make([]*MachineResponse, len(views))
	for i, view := range views {
		resps[i] = FromMachineView(view)
	}
	return resps
}
