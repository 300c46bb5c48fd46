package components

import (
	"tableplan/internal/handler"
	"tableplan/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewBookingHandler,
		api.NewTableHandler,
	),
	fx.Invoke(handler.NewRouter),
)
