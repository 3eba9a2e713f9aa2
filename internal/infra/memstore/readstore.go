package memstore

import (
	"context"
	"sort"
	"time"

	"dormwash/internal/infra"
	"dormwash/internal/usecase/queries"

	"github.com/google/uuid"
)

// MachineReadStore implements queries.MachineReadStore.
type MachineReadStore struct {
	s *Store
}

func NewMachineReadStore(s *Store) *MachineReadStore {
	return &MachineReadStore{s: s}
}

func (r *MachineReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.MachineView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.machines[id]
	if !ok {
		return nil, infra.WrapRepoErr("machine not found", nil, infra.KindNotFound)
	}
	return machineView(m), nil
}

func (r *MachineReadStore) List(_ context.Context, filter queries.MachineFilter) ([]*queries.MachineView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	views := []*queries.MachineView{}
	for _, m := range r.s.machines {
		if filter.Building != nil && m.Building() != *filter.Building {
			continue
		}
		if filter.Kind != nil && m.Kind().String() != *filter.Kind {
			continue
		}
		views = append(views, machineView(m))
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Building != views[j].Building {
			return views[i].Building < views[j].Building
		}
		return views[i].Name < views[j].Name
	})
	return views, nil
}

// ReservationReadStore implements queries.ReservationReadStore.
type ReservationReadStore struct {
	s *Store
}

func NewReservationReadStore(s *Store) *ReservationReadStore {
	return &ReservationReadStore{s: s}
}

func (r *ReservationReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	res, ok := r.s.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return reservationView(res), nil
}

func (r *ReservationReadStore) ListByMember(_ context.Context, memberID uuid.UUID) ([]*queries.ReservationView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	views := []*queries.ReservationView{}
	for _, res := range r.s.reservations {
		if res.MemberID() == memberID {
			views = append(views, reservationView(res))
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Start.Before(views[j].Start) })
	return views, nil
}

func (r *ReservationReadStore) OccupiedAt(_ context.Context, machineID uuid.UUID, t time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, res := range r.s.reservations {
		if res.MachineID() == machineID && res.Slot().Contains(t) {
			return true, nil
		}
	}
	return false, nil
}

// WaitlistReadStore implements queries.WaitlistReadStore.
type WaitlistReadStore struct {
	s *Store
}

func NewWaitlistReadStore(s *Store) *WaitlistReadStore {
	return &WaitlistReadStore{s: s}
}

func (r *WaitlistReadStore) ListByMachine(_ context.Context, machineID uuid.UUID) ([]*queries.WaitEntryView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	queue := r.s.sortedQueue(machineID)
	views := make([]*queries.WaitEntryView, len(queue))
	for i, e := range queue {
		views[i] = &queries.WaitEntryView{
			ID:        e.ID(),
			MemberID:  e.MemberID(),
			MachineID: e.MachineID(),
			JoinedAt:  e.JoinedAt(),
			Position:  i + 1,
		}
	}
	return views, nil
}
