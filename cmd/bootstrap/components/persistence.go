package components

import (
	"marketfill/internal/infra/db"
	"marketfill/internal/infra/readstore"
	"marketfill/internal/infra/repository"
	"marketfill/internal/infra/uow"
	"marketfill/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// UnitOfWork opens transactions and hands out write repositories.
		uow.NewPostgresUoW,
		// Read stores backing the query side.
		readstore.NewOrderReadStore,
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderViewRepo)),
		),
		fx.Annotate(
			readstore.NewCustomerReadStore,
			fx.As(new(queries.CustomerReadStore)),
		),
		// Notification job repository is shared with the worker.
		repository.NewNotificationRepository,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
