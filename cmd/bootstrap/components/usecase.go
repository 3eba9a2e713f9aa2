package components

import (
	"dormwash/internal/pkg/clock"
	"dormwash/internal/pkg/config"
	"dormwash/internal/pkg/keymutex"
	"dormwash/internal/usecase/commands"
	"dormwash/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	keymutex.New,
	func(cfg config.Config) config.BookingConfig {
		return cfg.Booking
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCoordinator,
		commands.NewLedgerCommands,
		commands.NewWaitlistCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewMachineQueries,
		queries.NewReservationQueries,
		queries.NewWaitlistQueries,
	),
)
