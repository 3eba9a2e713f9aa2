package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	MemberID  uuid.UUID `json:"member_id" binding:"required"`
	MachineID uuid.UUID `json:"machine_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}
