package components

import (
	"context"
	"log/slog"

	"dormwash/internal/infra/notify"
	"dormwash/internal/infra/sweep"
	"dormwash/internal/pkg/clock"
	"dormwash/internal/pkg/config"
	"dormwash/internal/usecase/commands"

	"go.uber.org/fx"
)

// WorkerModule wires the background goroutines: the reminder scheduler and
// the expiry sweeper. Both are tied to the fx lifecycle so shutdown drains
// them before the process exits.
var WorkerModule = fx.Module("worker",
	fx.Provide(
		fx.Annotate(
			notify.NewLogSender,
			fx.As(new(notify.Sender)),
		),
		notify.NewScheduler,
		func(s *notify.Scheduler) commands.ReminderScheduler { return s },
		NewSweeper,
	),
	fx.Invoke(registerWorkers),
)

func NewSweeper(
	ledger commands.LedgerCommands,
	reservations commands.ReservationRepository,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) *sweep.Sweeper {
	return sweep.NewSweeper(ledger, reservations, clk, cfg.Booking.SweepInterval, logger)
}

func registerWorkers(lc fx.Lifecycle, scheduler *notify.Scheduler, sweeper *sweep.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			scheduler.Start()
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			scheduler.Stop()
			return nil
		},
	})
}
