package commands

import (
	"context"
	"log/slog"
	"time"

	"dormwash/internal/pkg/clock"
	"dormwash/internal/pkg/config"

	"github.com/google/uuid"
)

// Coordinator hands a freed machine to the next waiting member. It owns no
// state of its own; it orchestrates the waitlist and the ledger's admission
// sequence.
type Coordinator struct {
	writer   *reservationWriter
	waitlist WaitlistRepository
	clock    clock.Clock
	duration time.Duration
	logger   *slog.Logger
}

func NewCoordinator(
	machineRepo MachineRepository,
	reservationRepo ReservationRepository,
	waitlistRepo WaitlistRepository,
	scheduler ReminderScheduler,
	clk clock.Clock,
	cfg config.BookingConfig,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		writer: &reservationWriter{
			machines:     machineRepo,
			reservations: reservationRepo,
			scheduler:    scheduler,
			clock:        clk,
			preStartLead: cfg.PreStartLead,
			logger:       logger,
		},
		waitlist: waitlistRepo,
		clock:    clk,
		duration: cfg.PromotionDuration,
		logger:   logger,
	}
}

// PromoteNext pops the head of the machine's queue and books the machine on
// that member's behalf, starting now. Callers must hold the machine's lock:
// the pop and the create form one critical section, so two concurrent
// freeing events can never both promote.
func (c *Coordinator) PromoteNext(ctx context.Context, machineID uuid.UUID) {
	entry, err := c.waitlist.PopFront(ctx, machineID)
	if err != nil {
		c.logger.Error("waitlist pop failed", "machine_id", machineID, "error", err)
		return
	}
	if entry == nil {
		return
	}

	start := c.clock.Now()
	snap, err := c.writer.createLocked(ctx, entry.MemberID(), machineID, start, start.Add(c.duration))
	if err != nil {
		// The entry is not re-enqueued: an automatic retry here could mask
		// an invariant violation and double-book the machine. The machine
		// stays free for a fresh direct reservation.
		c.logger.Error("promotion failed",
			"machine_id", machineID,
			"member_id", entry.MemberID(),
			"wait_entry_id", entry.ID(),
			"error", err,
		)
		return
	}

	c.logger.Info("waitlist member promoted",
		"machine_id", machineID,
		"member_id", entry.MemberID(),
		"reservation_id", snap.ID,
		"until", snap.End,
	)
}
