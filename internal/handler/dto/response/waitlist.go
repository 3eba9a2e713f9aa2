package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"dormwash/internal/usecase/commands"
	"dormwash/internal/usecase/queries"
)

type WaitEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	MemberID  uuid.UUID `json:"member_id"`
	MachineID uuid.UUID `json:"machine_id"`
	JoinedAt  time.Time `json:"joined_at"`
	Position  int       `json:"position,omitempty"`
}

type JoinWaitlistResponse struct {
	Entry          *WaitEntryResponse `json:"entry"`
	AlreadyWaiting bool               `json:"already_waiting"`
}

func FromWaitEntrySnapshot(snap *commands.WaitEntrySnapshot) *WaitEntryResponse {
	var resp WaitEntryResponse
	_ = copier.Copy(&resp, snap)
	return &resp
}

func FromWaitEntryView(view *queries.WaitEntryView) *WaitEntryResponse {
	var resp WaitEntryResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromWaitEntryViews(views []*queries.WaitEntryView) []*WaitEntryResponse {
	resps := make([]*WaitEntryResponse, len(views))
	for i, view := range views {
		resps[i] = FromWaitEntryView(view)
	}
	return resps
}
