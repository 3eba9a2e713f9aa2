package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"dormwash/internal/usecase/commands"
	"dormwash/internal/usecase/queries"
)

type ReservationResponse struct {
	ID        uuid.UUID `json:"id"`
	MemberID  uuid.UUID `json:"member_id"`
	MachineID uuid.UUID `json:"machine_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
}

func FromReservationSnapshot(snap *commands.ReservationSnapshot) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, snap)
	return &resp
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromReservationViews(views []*queries.ReservationView) []*ReservationResponse {
	resps := make([]*ReservationResponse, len(views))
	for i, view := range views {
		resps[i] = FromReservationView(view)
	}
	return resps
}
