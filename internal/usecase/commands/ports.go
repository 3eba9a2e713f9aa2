package commands

import (
	"context"
	"time"

	"dormwash/internal/domain/reservation"
	"dormwash/internal/domain/resource"
	"dormwash/internal/domain/waitlist"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on read-side query types
type MachineSnapshot struct {
	ID       uuid.UUID
	Name     string
	Building string
	Kind     resource.Kind
}

type ReservationSnapshot struct {
	ID        uuid.UUID
	MemberID  uuid.UUID
	MachineID uuid.UUID
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
}

type WaitEntrySnapshot struct {
	ID        uuid.UUID
	MemberID  uuid.UUID
	MachineID uuid.UUID
	JoinedAt  time.Time
	Seq       int64
}

type MachineRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MachineSnapshot, error)
}

type ReservationRepository interface {
	Insert(ctx context.Context, res *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	// Delete removes the reservation; a second delete of the same id
	// reports KindNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
	// Overlapping returns reservations on the machine whose half-open
	// windows intersect [start, end).
	Overlapping(ctx context.Context, machineID uuid.UUID, start, end time.Time) ([]ReservationSnapshot, error)
	// OccupiedAt reports whether some reservation window contains t.
	OccupiedAt(ctx context.Context, machineID uuid.UUID, t time.Time) (bool, error)
	// DeleteExpired removes and returns every reservation on the machine
	// whose end instant is at or before now.
	DeleteExpired(ctx context.Context, machineID uuid.UUID, now time.Time) ([]ReservationSnapshot, error)
	// MachinesWithExpired lists machines holding at least one reservation
	// due for expiry, for the sweep loop.
	MachinesWithExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type WaitlistRepository interface {
	// Insert persists the entry, assigning the monotonic seq, and returns
	// the stored form. A live (member, machine) duplicate reports
	// KindDuplicateKey.
	Insert(ctx context.Context, entry *waitlist.Entry) (*waitlist.Entry, error)
	FindByMemberAndMachine(ctx context.Context, memberID, machineID uuid.UUID) (*waitlist.Entry, error)
	Delete(ctx context.Context, memberID, machineID uuid.UUID) error
	// PopFront atomically removes and returns the earliest entry for the
	// machine. It returns (nil, nil) when the queue is empty; an entry is
	// never returned twice.
	PopFront(ctx context.Context, machineID uuid.UUID) (*waitlist.Entry, error)
}

type EventLabel string

const (
	EventPreStart EventLabel = "pre_start"
	EventStart    EventLabel = "start"
)

// ScheduledEvent is the boundary type toward the reminder scheduler.
// Produced once per reservation lifecycle step, never mutated.
type ScheduledEvent struct {
	ReservationID uuid.UUID
	MemberID      uuid.UUID
	MachineID     uuid.UUID
	Label         EventLabel
	FireAt        time.Time
}

// ReminderScheduler delivers events at-least-once at or after FireAt.
// Cancellation is advisory: an event already in flight may still fire, so
// consumers must tolerate a stale reminder for a canceled reservation.
type ReminderScheduler interface {
	Schedule(ctx context.Context, ev ScheduledEvent) error
	CancelForReservation(ctx context.Context, reservationID uuid.UUID) error
}
