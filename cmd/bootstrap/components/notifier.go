package components

import (
	"context"
	"errors"
	"log/slog"

	"marketfill/internal/infra/db"
	"marketfill/internal/infra/notifier"
	"marketfill/internal/infra/repository"
	"marketfill/internal/pkg/config"
	"marketfill/internal/usecase/queries"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		NewVendorNotifier,
	),
	fx.Invoke(runVendorNotifier),
)

func NewVendorNotifier(
	dbtx db.DBTX,
	jobs *repository.NotificationRepository,
	orderQueries queries.OrderQueries,
	logger *slog.Logger,
	cfg config.Config,
) *notifier.VendorNotifier {
	return notifier.NewVendorNotifier(
		dbtx,
		jobs,
		orderQueries,
		logger,
		cfg.Notifier.PollInterval,
		cfg.Notifier.Workers,
	)
}

func runVendorNotifier(lc fx.Lifecycle, n *notifier.VendorNotifier, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := n.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("vendor notifier stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
