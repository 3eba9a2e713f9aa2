package memstore

import (
	"context"
	"sort"
	"time"

	"dormwash/internal/domain/reservation"
	"dormwash/internal/domain/waitlist"
	"dormwash/internal/infra"
	"dormwash/internal/usecase/commands"

	"github.com/google/uuid"
)

// MachineRepository implements commands.MachineRepository.
type MachineRepository struct {
	s *Store
}

func NewMachineRepository(s *Store) *MachineRepository {
	return &MachineRepository{s: s}
}

func (r *MachineRepository) FindByID(_ context.Context, id uuid.UUID) (*commands.MachineSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.machines[id]
	if !ok {
		return nil, infra.WrapRepoErr("machine not found", nil, infra.KindNotFound)
	}
	return &commands.MachineSnapshot{
		ID:       m.ID(),
		Name:     m.Name(),
		Building: m.Building(),
		Kind:     m.Kind(),
	}, nil
}

// ReservationRepository implements commands.ReservationRepository.
type ReservationRepository struct {
	s *Store
}

func NewReservationRepository(s *Store) *ReservationRepository {
	return &ReservationRepository{s: s}
}

func (r *ReservationRepository) Insert(_ context.Context, res *reservation.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.reservations {
		if existing.MachineID() == res.MachineID() && existing.Slot().Overlaps(res.Slot()) {
			return infra.WrapRepoErr("overlapping reservation", nil, infra.KindConflict)
		}
	}
	r.s.reservations[res.ID()] = res
	return nil
}

func (r *ReservationRepository) FindByID(_ context.Context, id uuid.UUID) (*commands.ReservationSnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	res, ok := r.s.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	snap := reservationSnapshot(res)
	return &snap, nil
}

func (r *ReservationRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reservations[id]; !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	delete(r.s.reservations, id)
	return nil
}

func (r *ReservationRepository) Overlapping(_ context.Context, machineID uuid.UUID, start, end time.Time) ([]commands.ReservationSnapshot, error) {
	probe, err := reservation.NewTimeSlot(start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid overlap window", err)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var snaps []commands.ReservationSnapshot
	for _, res := range r.s.reservations {
		if res.MachineID() == machineID && res.Slot().Overlaps(probe) {
			snaps = append(snaps, reservationSnapshot(res))
		}
	}
	sortSnapshots(snaps)
	return snaps, nil
}

func (r *ReservationRepository) OccupiedAt(_ context.Context, machineID uuid.UUID, t time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, res := range r.s.reservations {
		if res.MachineID() == machineID && res.Slot().Contains(t) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReservationRepository) DeleteExpired(_ context.Context, machineID uuid.UUID, now time.Time) ([]commands.ReservationSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted []commands.ReservationSnapshot
	for id, res := range r.s.reservations {
		if res.MachineID() == machineID && res.HasExpired(now) {
			deleted = append(deleted, reservationSnapshot(res))
			delete(r.s.reservations, id)
		}
	}
	sortSnapshots(deleted)
	return deleted, nil
}

func (r *ReservationRepository) MachinesWithExpired(_ context.Context, now time.Time) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, res := range r.s.reservations {
		if !res.HasExpired(now) {
			continue
		}
		if _, ok := seen[res.MachineID()]; ok {
			continue
		}
		seen[res.MachineID()] = struct{}{}
		ids = append(ids, res.MachineID())
	}
	return ids, nil
}

// WaitlistRepository implements commands.WaitlistRepository.
type WaitlistRepository struct {
	s *Store
}

func NewWaitlistRepository(s *Store) *WaitlistRepository {
	return &WaitlistRepository{s: s}
}

func (r *WaitlistRepository) Insert(_ context.Context, entry *waitlist.Entry) (*waitlist.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.waitlists[entry.MachineID()] {
		if e.MemberID() == entry.MemberID() {
			return nil, infra.WrapRepoErr("member already waiting", nil, infra.KindDuplicateKey)
		}
	}

	r.s.seq++
	stored := waitlist.ReconstructEntry(entry.ID(), entry.MemberID(), entry.MachineID(), entry.JoinedAt(), r.s.seq)
	r.s.waitlists[entry.MachineID()] = append(r.s.waitlists[entry.MachineID()], stored)
	return stored, nil
}

func (r *WaitlistRepository) FindByMemberAndMachine(_ context.Context, memberID, machineID uuid.UUID) (*waitlist.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.waitlists[machineID] {
		if e.MemberID() == memberID {
			return e, nil
		}
	}
	return nil, infra.WrapRepoErr("wait entry not found", nil, infra.KindNotFound)
}

func (r *WaitlistRepository) Delete(_ context.Context, memberID, machineID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	queue := r.s.waitlists[machineID]
	for i, e := range queue {
		if e.MemberID() == memberID {
			r.s.waitlists[machineID] = append(queue[:i:i], queue[i+1:]...)
			return nil
		}
	}
	return infra.WrapRepoErr("wait entry not found", nil, infra.KindNotFound)
}

func (r *WaitlistRepository) PopFront(_ context.Context, machineID uuid.UUID) (*waitlist.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	queue := r.s.sortedQueue(machineID)
	if len(queue) == 0 {
		return nil, nil
	}
	head := queue[0]
	r.s.waitlists[machineID] = queue[1:]
	return head, nil
}

func sortSnapshots(snaps []commands.ReservationSnapshot) {
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Start.Before(snaps[j].Start) })
}
