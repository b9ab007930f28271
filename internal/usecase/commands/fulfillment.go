package commands

import (
	"context"
	"encoding/json"
	"time"

	"marketfill/internal/domain/discount"
	"marketfill/internal/domain/order"
	"marketfill/internal/pkg/clock"
	"marketfill/internal/pkg/errs"
	"marketfill/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	notificationKindVendorEmail = "vendor_email"
	notificationTopicSubOrder   = "sub_order_created"
)

// LoyaltyReader supplies the cached trailing-window order count and
// invalidation after commit.
type LoyaltyReader interface {
	OrderCount(ctx context.Context, customerID uuid.UUID) (int, error)
	Invalidate(customerID uuid.UUID)
}

// PurchasedLine is one flattened response line of a processed cart.
type PurchasedLine struct {
	SKU            string
	Quantity       int
	UnitPrice      decimal.Decimal
	UnitFinalPrice decimal.Decimal
}

type ProcessCartResult struct {
	OrderID    uuid.UUID
	Purchased  []PurchasedLine
	IsReplayed bool
}

type FulfillmentCommands interface {
	ProcessCart(ctx context.Context, customerID uuid.UUID, cart []order.CartLine, idempotencyKey *uuid.UUID) (*ProcessCartResult, error)
}

type fulfillmentUseCaseImpl struct {
	uow       shared.UnitOfWork
	resolver  *OfferResolver
	loyalty   LoyaltyReader
	clock     clock.Clock
	txTimeout time.Duration
}

func NewFulfillmentUseCase(
	uow shared.UnitOfWork,
	resolver *OfferResolver,
	loyalty LoyaltyReader,
	clk clock.Clock,
	txTimeout time.Duration,
) FulfillmentCommands {
	return &fulfillmentUseCaseImpl{
		uow:       uow,
		resolver:  resolver,
		loyalty:   loyalty,
		clock:     clk,
		txTimeout: txTimeout,
	}
}

func (f *fulfillmentUseCaseImpl) ProcessCart(
	ctx context.Context,
	customerID uuid.UUID,
	cart []order.CartLine,
	idempotencyKey *uuid.UUID,
) (*ProcessCartResult, error) {
	cart, err := order.NewCart(cart)
	if err != nil {
		return nil, errs.Mark(err, ErrEmptyCart)
	}

	// Advisory read outside the transaction; a lookup failure prices
	// the cart without loyalty rather than rejecting it.
	orderCount, err := f.loyalty.OrderCount(ctx, customerID)
	if err != nil {
		orderCount = 0
	}
	ec := discount.Context{CustomerID: customerID, RecentOrderCount: orderCount}

	ctx, cancel := context.WithTimeout(ctx, f.txTimeout)
	defer cancel()

	var result *ProcessCartResult
	err = f.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if idempotencyKey != nil {
			replayed, err := f.claimIdempotencyKey(ctx, tx, *idempotencyKey, customerID)
			if err != nil {
				return err
			}
			if replayed != nil {
				result = replayed
				return nil
			}
		}

		// Lines are resolved sequentially: a pgx transaction admits a
		// single writer, and the per-line work has no data dependency
		// that would change the outcome.
		resolved := make([]order.ResolvedOffer, 0, len(cart))
		for _, line := range cart {
			ro, err := f.resolver.Resolve(ctx, tx, ec, line)
			if err != nil {
				return err
			}
			resolved = append(resolved, ro)
		}

		totals := order.ComputeTotals(resolved)
		orderID, err := tx.Orders().CreateOrder(ctx, tx.DB(), customerID, cart, totals)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		for _, draft := range order.Split(resolved) {
			subOrderID, err := tx.Orders().CreateSubOrder(ctx, tx.DB(), orderID, draft)
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			for _, line := range draft.Lines {
				if err := tx.Orders().CreateOrderLine(ctx, tx.DB(), subOrderID, line); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}
			}
			if err := f.createVendorNotificationJob(ctx, tx, orderID, subOrderID, draft.VendorID); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		if idempotencyKey != nil {
			if err := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), *idempotencyKey, customerID, orderID); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		result = &ProcessCartResult{
			OrderID:   orderID,
			Purchased: toPurchasedLines(resolved),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.IsReplayed {
		f.loyalty.Invalidate(customerID)
	}

	return result, nil
}

// claimIdempotencyKey inserts the key, mapping an existing one to
// either a replay of the completed order or an in-progress rejection.
// The claim must not error on a duplicate: a failed statement would
// abort the enclosing transaction before the replay lookup runs.
func (f *fulfillmentUseCaseImpl) claimIdempotencyKey(
	ctx context.Context,
	tx shared.Tx,
	key, customerID uuid.UUID,
) (*ProcessCartResult, error) {
	claimed, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, customerID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, nil
	}

	record, err := tx.Reads().IdempotencyByKey(ctx, key, customerID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	switch record.Status {
	case "completed":
		if record.OrderID == nil {
			return nil, errs.New("completed idempotency key missing order ID")
		}
		return &ProcessCartResult{OrderID: *record.OrderID, IsReplayed: true}, nil
	case "processing":
		return nil, ErrIdempotencyInProgress
	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (f *fulfillmentUseCaseImpl) createVendorNotificationJob(
	ctx context.Context,
	tx shared.Tx,
	orderID, subOrderID, vendorID uuid.UUID,
) error {
	payload, err := json.Marshal(map[string]any{
		"sub_order_id": subOrderID,
		"order_id":     orderID,
		"vendor_id":    vendorID,
	})
	if err != nil {
		return err
	}

	return tx.Notifications().CreateJob(ctx, tx.DB(), notificationKindVendorEmail, notificationTopicSubOrder, payload, f.clock.Now())
}

func toPurchasedLines(resolved []order.ResolvedOffer) []PurchasedLine {
	purchased := make([]PurchasedLine, len(resolved))
	for i, ro := range resolved {
		purchased[i] = PurchasedLine{
			SKU:            ro.SKU,
			Quantity:       ro.Quantity,
			UnitPrice:      ro.UnitPrice,
			UnitFinalPrice: ro.UnitFinalPrice,
		}
	}
	return purchased
}
