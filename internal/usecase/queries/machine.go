package queries

import (
	"context"

	"dormwash/internal/pkg/clock"

	"github.com/google/uuid"
)

type MachineQueries interface {
	Get(ctx context.Context, id uuid.UUID) (*MachineView, error)
	List(ctx context.Context, filter MachineFilter) ([]*MachineView, error)
}

type machineQueriesImpl struct {
	machines     MachineReadStore
	reservations ReservationReadStore
	clock        clock.Clock
}

func NewMachineQueries(machines MachineReadStore, reservations ReservationReadStore, clk clock.Clock) MachineQueries {
	return &machineQueriesImpl{
		machines:     machines,
		reservations: reservations,
		clock:        clk,
	}
}

// Get recomputes occupancy from the live reservation set instead of
// trusting a stored flag, so the answer can never drift.
func (q *machineQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*MachineView, error) {
	view, err := q.machines.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	occupied, err := q.reservations.OccupiedAt(ctx, id, q.clock.Now())
	if err != nil {
		return nil, err
	}
	view.Occupied = occupied
	return view, nil
}

func (q *machineQueriesImpl) List(ctx context.Context, filter MachineFilter) ([]*MachineView, error) {
	views, err := q.machines.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	for _, view := range views {
		occupied, err := q.reservations.OccupiedAt(ctx, view.ID, now)
		if err != nil {
			return nil, err
		}
		view.Occupied = occupied
	}
	return views, nil
}
