package commands

import (
	"context"
	"log/slog"
	"time"

	"dormwash/internal/domain/reservation"
	"dormwash/internal/infra"
	"dormwash/internal/pkg/clock"
	"dormwash/internal/pkg/config"
	"dormwash/internal/pkg/errs"
	"dormwash/internal/pkg/keymutex"

	"github.com/google/uuid"
)

var (
	ErrMachineNotFound     = errs.New("machine not found")
	ErrInvalidTimeSlot     = errs.New("invalid time slot")
	ErrReservationConflict = errs.New("reservation conflict")
	ErrReservationNotFound = errs.New("reservation not found")
	ErrStorageFailure      = errs.New("storage operation failed")
)

type LedgerCommands interface {
	Create(ctx context.Context, memberID, machineID uuid.UUID, start, end time.Time) (*ReservationSnapshot, error)
	Cancel(ctx context.Context, reservationID, actor uuid.UUID) error
	Expire(ctx context.Context, machineID uuid.UUID) error
	Overlapping(ctx context.Context, machineID uuid.UUID, start, end time.Time) ([]ReservationSnapshot, error)
}

type ledgerImpl struct {
	writer       *reservationWriter
	reservations ReservationRepository
	coordinator  *Coordinator
	locks        *keymutex.KeyMutex
	clock        clock.Clock
	logger       *slog.Logger
}

func NewLedgerCommands(
	machineRepo MachineRepository,
	reservationRepo ReservationRepository,
	coordinator *Coordinator,
	scheduler ReminderScheduler,
	locks *keymutex.KeyMutex,
	clk clock.Clock,
	cfg config.BookingConfig,
	logger *slog.Logger,
) LedgerCommands {
	return &ledgerImpl{
		writer: &reservationWriter{
			machines:     machineRepo,
			reservations: reservationRepo,
			scheduler:    scheduler,
			clock:        clk,
			preStartLead: cfg.PreStartLead,
			logger:       logger,
		},
		reservations: reservationRepo,
		coordinator:  coordinator,
		locks:        locks,
		clock:        clk,
		logger:       logger,
	}
}

func (l *ledgerImpl) Create(ctx context.Context, memberID, machineID uuid.UUID, start, end time.Time) (*ReservationSnapshot, error) {
	// The overlap check and the insert must not interleave with another
	// writer for the same machine.
	unlock := l.locks.Lock(machineID)
	defer unlock()

	return l.writer.createLocked(ctx, memberID, machineID, start, end)
}

func (l *ledgerImpl) Cancel(ctx context.Context, reservationID, actor uuid.UUID) error {
	snap, err := l.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrReservationNotFound
		}
		return errs.Mark(err, ErrStorageFailure)
	}

	unlock := l.locks.Lock(snap.MachineID)
	defer unlock()

	if err := l.reservations.Delete(ctx, reservationID); err != nil {
		// Lost a race with another cancel or the expiry sweep.
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrReservationNotFound
		}
		return errs.Mark(err, ErrStorageFailure)
	}

	l.writer.cancelReminders(ctx, reservationID)
	l.logger.Info("reservation canceled",
		"reservation_id", reservationID,
		"machine_id", snap.MachineID,
		"actor", actor,
	)

	l.coordinator.PromoteNext(ctx, snap.MachineID)
	return nil
}

func (l *ledgerImpl) Expire(ctx context.Context, machineID uuid.UUID) error {
	unlock := l.locks.Lock(machineID)
	defer unlock()

	expired, err := l.reservations.DeleteExpired(ctx, machineID, l.clock.Now())
	if err != nil {
		return errs.Mark(err, ErrStorageFailure)
	}
	if len(expired) == 0 {
		return nil
	}

	for _, snap := range expired {
		l.writer.cancelReminders(ctx, snap.ID)
		l.logger.Info("reservation expired",
			"reservation_id", snap.ID,
			"machine_id", machineID,
			"member_id", snap.MemberID,
		)
	}

	// One vacancy per freeing event: however many stale windows the sweep
	// collected, the machine is free exactly once now.
	l.coordinator.PromoteNext(ctx, machineID)
	return nil
}

func (l *ledgerImpl) Overlapping(ctx context.Context, machineID uuid.UUID, start, end time.Time) ([]ReservationSnapshot, error) {
	snaps, err := l.reservations.Overlapping(ctx, machineID, start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	return snaps, nil
}

// reservationWriter holds the admission sequence shared by direct creates
// and waitlist promotion. Callers must hold the machine's lock.
type reservationWriter struct {
	machines     MachineRepository
	reservations ReservationRepository
	scheduler    ReminderScheduler
	clock        clock.Clock
	preStartLead time.Duration
	logger       *slog.Logger
}

func (w *reservationWriter) createLocked(ctx context.Context, memberID, machineID uuid.UUID, start, end time.Time) (*ReservationSnapshot, error) {
	slot, err := reservation.NewTimeSlot(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	if _, err := w.machines.FindByID(ctx, machineID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrMachineNotFound
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	overlapping, err := w.reservations.Overlapping(ctx, machineID, start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	if len(overlapping) > 0 {
		return nil, ErrReservationConflict
	}

	res := reservation.NewReservation(memberID, machineID, slot, w.clock.Now())
	if err := w.reservations.Insert(ctx, res); err != nil {
		// Exclusion constraint backstop for stores that enforce it.
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrReservationConflict
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	w.scheduleReminders(ctx, res)

	return &ReservationSnapshot{
		ID:        res.ID(),
		MemberID:  res.MemberID(),
		MachineID: res.MachineID(),
		Start:     res.Slot().Start(),
		End:       res.Slot().End(),
		CreatedAt: res.CreatedAt(),
	}, nil
}

// scheduleReminders is best-effort: the reservation's correctness does not
// depend on reminders, so a scheduler outage degrades to a warning.
func (w *reservationWriter) scheduleReminders(ctx context.Context, res *reservation.Reservation) {
	now := w.clock.Now()
	start := res.Slot().Start()

	events := make([]ScheduledEvent, 0, 2)
	if preStart := start.Add(-w.preStartLead); !preStart.Before(now) {
		// A pre-start instant already behind us is skipped, not back-dated.
		events = append(events, ScheduledEvent{
			ReservationID: res.ID(),
			MemberID:      res.MemberID(),
			MachineID:     res.MachineID(),
			Label:         EventPreStart,
			FireAt:        preStart,
		})
	}
	events = append(events, ScheduledEvent{
		ReservationID: res.ID(),
		MemberID:      res.MemberID(),
		MachineID:     res.MachineID(),
		Label:         EventStart,
		FireAt:        start,
	})

	for _, ev := range events {
		if err := w.scheduler.Schedule(ctx, ev); err != nil {
			w.logger.Warn("reminder scheduling degraded",
				"reservation_id", ev.ReservationID,
				"label", ev.Label,
				"fire_at", ev.FireAt,
				"error", err,
			)
		}
	}
}

func (w *reservationWriter) cancelReminders(ctx context.Context, reservationID uuid.UUID) {
	if err := w.scheduler.CancelForReservation(ctx, reservationID); err != nil {
		w.logger.Warn("reminder cancellation degraded",
			"reservation_id", reservationID,
			"error", err,
		)
	}
}
