package repository

import (
	"context"
	"encoding/json"

	"marketfill/internal/domain/order"
	"marketfill/internal/infra"
	"marketfill/internal/infra/db"
	"marketfill/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	createOrderSQL = `
		INSERT INTO orders (customer_id, cart, total_price, total_final_price, total_quantity, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	createSubOrderSQL = `
		INSERT INTO sub_orders (order_id, vendor_id, sub_total_price, sub_total_final_price, sub_total_quantity, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	createOrderLineSQL = `
		INSERT INTO order_lines (sub_order_id, product_id, vendor_id, offer_id, quantity, unit_price, unit_final_price, discounts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

type OrderRepository struct{}

func NewOrderRepository() shared.OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, tx db.DBTX, customerID uuid.UUID, cart []order.CartLine, totals order.Totals) (uuid.UUID, error) {
	cartJSON, err := json.Marshal(cart)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to marshal cart snapshot", err)
	}

	var orderID uuid.UUID
	err = tx.QueryRow(ctx, createOrderSQL,
		customerID, cartJSON, totals.TotalPrice, totals.TotalFinalPrice, totals.TotalQuantity, order.StatusPending.String(),
	).Scan(&orderID)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order", err)
	}

	return orderID, nil
}

func (r *OrderRepository) CreateSubOrder(ctx context.Context, tx db.DBTX, orderID uuid.UUID, draft order.SubOrderDraft) (uuid.UUID, error) {
	var subOrderID uuid.UUID
	err := tx.QueryRow(ctx, createSubOrderSQL,
		orderID, draft.VendorID, draft.SubTotalPrice, draft.SubTotalFinalPrice, draft.SubTotalQuantity, order.StatusPending.String(),
	).Scan(&subOrderID)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create sub order", err)
	}

	return subOrderID, nil
}

func (r *OrderRepository) CreateOrderLine(ctx context.Context, tx db.DBTX, subOrderID uuid.UUID, line order.ResolvedOffer) error {
	discountsJSON, err := json.Marshal(line.Breakdown)
	if err != nil {
		return infra.WrapRepoErr("failed to marshal discount breakdown", err)
	}

	_, err = tx.Exec(ctx, createOrderLineSQL,
		subOrderID, line.ProductID, line.VendorID, line.OfferID, line.Quantity, line.UnitPrice, line.UnitFinalPrice, discountsJSON,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create order line", err)
	}

	return nil
}
