package components

import (
	"context"
	"time"

	"marketfill/internal/domain/discount"
	"marketfill/internal/infra/loyalty"
	"marketfill/internal/infra/readstore"
	"marketfill/internal/pkg/clock"
	"marketfill/internal/pkg/config"
	"marketfill/internal/usecase"
	"marketfill/internal/usecase/commands"
	"marketfill/internal/usecase/queries"
	"marketfill/internal/usecase/shared"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	discount.NewDefaultComposer,
	commands.NewOfferResolver,
	fx.Annotate(
		NewLoyaltyCache,
		fx.As(new(commands.LoyaltyReader)),
	),
	func(a usecase.AuthUseCase) usecase.TokenValidator { return a },
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewFulfillmentCommands,
		usecase.NewAuthUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewCustomerQueries,
	),
)

// loyaltyCounter adapts the order read store to the cache's counter
// surface.
type loyaltyCounter struct {
	store *readstore.OrderReadStore
}

func (a loyaltyCounter) RecentOrderCount(ctx context.Context, customerID uuid.UUID, since time.Time) (int, error) {
	return a.store.CountByCustomerSince(ctx, customerID, since)
}

func NewLoyaltyCache(store *readstore.OrderReadStore, clk clock.Clock, cfg config.Config) *loyalty.Cache {
	return loyalty.NewCache(loyaltyCounter{store: store}, clk, cfg.Pipeline.LoyaltyCacheTTL)
}

func NewFulfillmentCommands(
	uow shared.UnitOfWork,
	resolver *commands.OfferResolver,
	loyaltyReader commands.LoyaltyReader,
	clk clock.Clock,
	cfg config.Config,
) commands.FulfillmentCommands {
	return commands.NewFulfillmentUseCase(uow, resolver, loyaltyReader, clk, cfg.Pipeline.TxTimeout)
}
