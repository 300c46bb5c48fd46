package components

import (
	"tableplan/internal/infra/db"
	"tableplan/internal/infra/readstore"
	"tableplan/internal/infra/repository"
	"tableplan/internal/usecase/commands"
	"tableplan/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
		),
		fx.Annotate(
			repository.NewIdempotencyRepository,
			fx.As(new(commands.IdempotencyRepository)),
		),
		fx.Annotate(
			repository.NewNotificationRepository,
			fx.As(new(commands.NotificationRepository)),
		),
		// Table rows back both the engine's snapshots and the listing views
		fx.Annotate(
			readstore.NewTableReadStore,
			fx.As(new(queries.TableSnapshotReadStore)),
			fx.As(new(queries.TableViewReadStore)),
			fx.As(new(commands.TableReads)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
			fx.As(new(queries.ReservationSnapshotReadStore)),
			fx.As(new(commands.ReservationReads)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
