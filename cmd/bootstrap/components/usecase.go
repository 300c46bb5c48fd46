package components

import (
	"tableplan/internal/domain/availability"
	"tableplan/internal/pkg/clock"
	"tableplan/internal/pkg/config"
	"tableplan/internal/usecase/commands"
	"tableplan/internal/usecase/queries"
	"tableplan/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewAvailabilityEngine,
	func(cfg config.Config) config.BookingConfig {
		return cfg.Booking
	},
	fx.Annotate(
		shared.NewPgxTxRunner,
		fx.As(new(shared.TxRunner)),
	),
)

// NewAvailabilityEngine builds the pure availability engine with the default
// occupying-status policy.
func NewAvailabilityEngine(cfg config.Config) *availability.QueryService {
	return availability.NewQueryService(nil, cfg.Booking.MaxCombinationSize)
}

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewTableQueries,
		queries.NewAvailabilityQueries,
	),
)
