// Package notifier delivers vendor notifications for committed
// sub-orders. Jobs are written in the ordering transaction and only
// become claimable after it commits, so a rolled-back order never
// notifies anyone.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"marketfill/internal/infra/db"
	"marketfill/internal/infra/repository"
	"marketfill/internal/usecase/queries"
	"marketfill/internal/usecase/readmodel"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const claimBatchSize = 10

type jobPayload struct {
	SubOrderID uuid.UUID `json:"sub_order_id"`
	OrderID    uuid.UUID `json:"order_id"`
	VendorID   uuid.UUID `json:"vendor_id"`
}

type VendorNotifier struct {
	pool         db.DBTX
	jobs         *repository.NotificationRepository
	orderQueries queries.OrderQueries
	logger       *slog.Logger
	pollInterval time.Duration
	workers      int
}

func NewVendorNotifier(
	pool db.DBTX,
	jobs *repository.NotificationRepository,
	orderQueries queries.OrderQueries,
	logger *slog.Logger,
	pollInterval time.Duration,
	workers int,
) *VendorNotifier {
	return &VendorNotifier{
		pool:         pool,
		jobs:         jobs,
		orderQueries: orderQueries,
		logger:       logger,
		pollInterval: pollInterval,
		workers:      workers,
	}
}

// Run polls for queued jobs until the context is cancelled.
func (n *VendorNotifier) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := n.drainOnce(ctx); err != nil && ctx.Err() == nil {
				n.logger.Error("notification drain failed", slog.String("error", err.Error()))
			}
		}
	}
}

// drainOnce claims one batch and fans delivery out over the worker
// pool. Claiming runs on the pool connection so each job's status
// update is visible immediately, not at some enclosing commit.
func (n *VendorNotifier) drainOnce(ctx context.Context) error {
	jobs, err := n.jobs.ClaimQueued(ctx, n.pool, claimBatchSize)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n.workers)

	for _, job := range jobs {
		g.Go(func() error {
			n.deliver(ctx, job)
			return nil
		})
	}

	return g.Wait()
}

func (n *VendorNotifier) deliver(ctx context.Context, job readmodel.NotificationJobRM) {
	var payload jobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		n.markFailed(ctx, job.ID, "malformed payload: "+err.Error())
		return
	}

	subOrder, err := n.orderQueries.GetSubOrderByIDSystem(ctx, payload.SubOrderID)
	if err != nil {
		n.markFailed(ctx, job.ID, err.Error())
		return
	}

	n.logger.Info("vendor notification sent",
		slog.String("vendor_id", subOrder.VendorID.String()),
		slog.String("sub_order_id", subOrder.ID.String()),
		slog.String("message", renderVendorSummary(subOrder)),
	)

	if err := n.jobs.UpdateJobStatus(ctx, n.pool, job.ID, "sent", nil); err != nil {
		n.logger.Error("failed to mark notification job sent",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (n *VendorNotifier) markFailed(ctx context.Context, jobID uuid.UUID, reason string) {
	if err := n.jobs.UpdateJobStatus(ctx, n.pool, jobID, "failed", &reason); err != nil {
		n.logger.Error("failed to mark notification job failed",
			slog.String("job_id", jobID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// renderVendorSummary produces the human-readable order summary sent
// to the vendor.
func renderVendorSummary(subOrder *queries.SubOrderView) string {
	var items strings.Builder
	for _, line := range subOrder.Lines {
		fmt.Fprintf(&items, "  - %s (SKU: %s)\n    Quantity: %d | Unit Price: $%s | After Discount: $%s\n",
			line.ProductName,
			line.SKU,
			line.Quantity,
			line.UnitPrice.StringFixed(2),
			line.UnitFinalPrice.StringFixed(2),
		)
	}

	return fmt.Sprintf(`========================================
NEW ORDER NOTIFICATION
========================================

Dear %s,

You have received a new order! Here are the details:

ORDER INFORMATION
-----------------
Order ID: #%s
Sub-Order ID: #%s
Status: %s

ITEMS ORDERED
-------------
%s
ORDER SUMMARY
-------------
Total Items: %d
Total Price: $%s
After Discount: $%s

Please process this order at your earliest convenience.

Thank you for your partnership!

========================================`,
		subOrder.VendorName,
		subOrder.OrderID,
		subOrder.ID,
		subOrder.Status,
		items.String(),
		subOrder.SubTotalQuantity,
		subOrder.SubTotalPrice.StringFixed(2),
		subOrder.SubTotalFinalPrice.StringFixed(2),
	)
}
