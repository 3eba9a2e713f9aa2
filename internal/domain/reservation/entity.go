package reservation

import (
	"time"

	"github.com/google/uuid"
)

// Reservation is an exclusive time window binding one member to one machine.
// There is no update: changing a reservation is cancel plus recreate.
type Reservation struct {
	id        uuid.UUID
	memberID  uuid.UUID
	machineID uuid.UUID
	slot      TimeSlot
	createdAt time.Time
}

func NewReservation(memberID, machineID uuid.UUID, slot TimeSlot, now time.Time) *Reservation {
	return &Reservation{
		id:        uuid.New(),
		memberID:  memberID,
		machineID: machineID,
		slot:      slot,
		createdAt: now,
	}
}

func ReconstructReservation(id, memberID, machineID uuid.UUID, slot TimeSlot, createdAt time.Time) *Reservation {
	return &Reservation{
		id:        id,
		memberID:  memberID,
		machineID: machineID,
		slot:      slot,
		createdAt: createdAt,
	}
}

// HasExpired reports whether the window's end instant has been reached.
// The end itself counts as expired, matching the half-open slot.
func (r *Reservation) HasExpired(now time.Time) bool {
	return !now.Before(r.slot.End())
}

// IsActiveAt reports whether the reservation occupies its machine at t.
func (r *Reservation) IsActiveAt(t time.Time) bool {
	return r.slot.Contains(t)
}

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) MemberID() uuid.UUID  { return r.memberID }
func (r *Reservation) MachineID() uuid.UUID { return r.machineID }
func (r *Reservation) Slot() TimeSlot       { return r.slot }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
