package components

import (
	"dormwash/internal/handler"
	"dormwash/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewMachineHandler,
		api.NewReservationHandler,
		api.NewWaitlistHandler,
	),
	fx.Invoke(handler.NewRouter),
)
