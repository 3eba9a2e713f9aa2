// Package sweep runs the periodic pass that retires ended reservations.
// Expiry is detected lazily at read time; the sweeper just keeps storage
// tidy and triggers promotions for machines nobody touched.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"dormwash/internal/pkg/clock"
	"dormwash/internal/usecase/commands"
)

type Sweeper struct {
	ledger       commands.LedgerCommands
	reservations commands.ReservationRepository
	clock        clock.Clock
	interval     time.Duration
	logger       *slog.Logger

	stop chan struct{}
	done chan struct{}
}

func NewSweeper(
	ledger commands.LedgerCommands,
	reservations commands.ReservationRepository,
	clk clock.Clock,
	interval time.Duration,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		ledger:       ledger,
		reservations: reservations,
		clock:        clk,
		interval:     interval,
		logger:       logger,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go s.run()
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.RunOnce(context.Background())
		}
	}
}

// RunOnce expires every machine that has at least one ended reservation.
// A failure on one machine does not stop the pass for the rest.
func (s *Sweeper) RunOnce(ctx context.Context) {
	machineIDs, err := s.reservations.MachinesWithExpired(ctx, s.clock.Now())
	if err != nil {
		s.logger.Error("sweep scan failed", "error", err)
		return
	}

	for _, machineID := range machineIDs {
		if err := s.ledger.Expire(ctx, machineID); err != nil {
			s.logger.Error("sweep expire failed", "machine_id", machineID, "error", err)
		}
	}
}
