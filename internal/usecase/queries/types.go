package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type MachineView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Building string    `json:"building"`
	Kind     string    `json:"kind"`
	Occupied bool      `json:"occupied"`
}

type ReservationView struct {
	ID        uuid.UUID `json:"id"`
	MemberID  uuid.UUID `json:"member_id"`
	MachineID uuid.UUID `json:"machine_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
}

type WaitEntryView struct {
	ID        uuid.UUID `json:"id"`
	MemberID  uuid.UUID `json:"member_id"`
	MachineID uuid.UUID `json:"machine_id"`
	JoinedAt  time.Time `json:"joined_at"`
	Position  int       `json:"position"`
}

type MachineFilter struct {
	Building *string
	Kind     *string
}

type MachineReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MachineView, error)
	List(ctx context.Context, filter MachineFilter) ([]*MachineView, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]*ReservationView, error)
	OccupiedAt(ctx context.Context, machineID uuid.UUID, t time.Time) (bool, error)
}

type WaitlistReadStore interface {
	// ListByMachine returns the queue in promotion order without
	// mutating it.
	ListByMachine(ctx context.Context, machineID uuid.UUID) ([]*WaitEntryView, error)
}
