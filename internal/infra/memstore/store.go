// Package memstore is an in-memory implementation of the command and query
// ports. Unit tests run against it, and the service falls back to it when no
// database is configured, which keeps local development a single-binary
// affair.
package memstore

import (
	"sort"
	"sync"

	"dormwash/internal/domain/reservation"
	"dormwash/internal/domain/resource"
	"dormwash/internal/domain/waitlist"
	"dormwash/internal/usecase/commands"
	"dormwash/internal/usecase/queries"

	"github.com/google/uuid"
)

// Store holds the shared state; the per-aggregate repository types wrap it
// to satisfy the command and query ports.
type Store struct {
	mu           sync.RWMutex
	machines     map[uuid.UUID]*resource.Machine
	reservations map[uuid.UUID]*reservation.Reservation
	waitlists    map[uuid.UUID][]*waitlist.Entry
	seq          int64
}

func New() *Store {
	return &Store{
		machines:     make(map[uuid.UUID]*resource.Machine),
		reservations: make(map[uuid.UUID]*reservation.Reservation),
		waitlists:    make(map[uuid.UUID][]*waitlist.Entry),
	}
}

// SeedMachines registers the machine pool. Machines are never deleted, so
// there is no removal counterpart.
func (s *Store) SeedMachines(machines ...*resource.Machine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range machines {
		s.machines[m.ID()] = m
	}
}

func (s *Store) sortedQueue(machineID uuid.UUID) []*waitlist.Entry {
	queue := s.waitlists[machineID]
	sort.Slice(queue, func(i, j int) bool { return queue[i].Before(queue[j]) })
	return queue
}

func reservationSnapshot(res *reservation.Reservation) commands.ReservationSnapshot {
	return commands.ReservationSnapshot{
		ID:        res.ID(),
		MemberID:  res.MemberID(),
		MachineID: res.MachineID(),
		Start:     res.Slot().Start(),
		End:       res.Slot().End(),
		CreatedAt: res.CreatedAt(),
	}
}

func machineView(m *resource.Machine) *queries.MachineView {
	return &queries.MachineView{
		ID:       m.ID(),
		Name:     m.Name(),
		Building: m.Building(),
		Kind:     m.Kind().String(),
	}
}

func reservationView(res *reservation.Reservation) *queries.ReservationView {
	return &queries.ReservationView{
		ID:        res.ID(),
		MemberID:  res.MemberID(),
		MachineID: res.MachineID(),
		Start:     res.Slot().Start(),
		End:       res.Slot().End(),
		CreatedAt: res.CreatedAt(),
	}
}
