package request

import (
	"github.com/google/uuid"
)

type JoinWaitlistRequest struct {
	MemberID uuid.UUID `json:"member_id" binding:"required"`
}
