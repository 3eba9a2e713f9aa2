package commands

import (
	"context"
	"log/slog"

	"dormwash/internal/domain/waitlist"
	"dormwash/internal/infra"
	"dormwash/internal/pkg/clock"
	"dormwash/internal/pkg/errs"
	"dormwash/internal/pkg/keymutex"

	"github.com/google/uuid"
)

var (
	// ErrMachineIdle rejects joining the queue of a free machine; the
	// member should reserve it directly instead.
	ErrMachineIdle       = errs.New("machine is not occupied")
	ErrWaitEntryNotFound = errs.New("wait entry not found")
)

type JoinResult struct {
	Entry          *WaitEntrySnapshot
	AlreadyWaiting bool
}

type WaitlistCommands interface {
	Join(ctx context.Context, memberID, machineID uuid.UUID) (*JoinResult, error)
	Leave(ctx context.Context, memberID, machineID uuid.UUID) error
}

type waitlistImpl struct {
	machines     MachineRepository
	reservations ReservationRepository
	waitlist     WaitlistRepository
	locks        *keymutex.KeyMutex
	clock        clock.Clock
	logger       *slog.Logger
}

func NewWaitlistCommands(
	machineRepo MachineRepository,
	reservationRepo ReservationRepository,
	waitlistRepo WaitlistRepository,
	locks *keymutex.KeyMutex,
	clk clock.Clock,
	logger *slog.Logger,
) WaitlistCommands {
	return &waitlistImpl{
		machines:     machineRepo,
		reservations: reservationRepo,
		waitlist:     waitlistRepo,
		locks:        locks,
		clock:        clk,
		logger:       logger,
	}
}

func (w *waitlistImpl) Join(ctx context.Context, memberID, machineID uuid.UUID) (*JoinResult, error) {
	// Serialized with the ledger so the occupancy check cannot race a
	// cancel/expire freeing the machine.
	unlock := w.locks.Lock(machineID)
	defer unlock()

	if _, err := w.machines.FindByID(ctx, machineID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrMachineNotFound
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	occupied, err := w.reservations.OccupiedAt(ctx, machineID, w.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	if !occupied {
		return nil, ErrMachineIdle
	}

	if existing, err := w.waitlist.FindByMemberAndMachine(ctx, memberID, machineID); err == nil {
		return &JoinResult{Entry: waitEntrySnapshot(existing), AlreadyWaiting: true}, nil
	} else if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	stored, err := w.waitlist.Insert(ctx, waitlist.NewEntry(memberID, machineID, w.clock.Now(), 0))
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			existing, ferr := w.waitlist.FindByMemberAndMachine(ctx, memberID, machineID)
			if ferr != nil {
				return nil, errs.Mark(ferr, ErrStorageFailure)
			}
			return &JoinResult{Entry: waitEntrySnapshot(existing), AlreadyWaiting: true}, nil
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	w.logger.Info("member joined waitlist",
		"machine_id", machineID,
		"member_id", memberID,
		"seq", stored.Seq(),
	)
	return &JoinResult{Entry: waitEntrySnapshot(stored)}, nil
}

func (w *waitlistImpl) Leave(ctx context.Context, memberID, machineID uuid.UUID) error {
	if err := w.waitlist.Delete(ctx, memberID, machineID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrWaitEntryNotFound
		}
		return errs.Mark(err, ErrStorageFailure)
	}
	return nil
}

func waitEntrySnapshot(e *waitlist.Entry) *WaitEntrySnapshot {
	return &WaitEntrySnapshot{
		ID:        e.ID(),
		MemberID:  e.MemberID(),
		MachineID: e.MachineID(),
		JoinedAt:  e.JoinedAt(),
		Seq:       e.Seq(),
	}
}
