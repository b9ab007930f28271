package readstore

import (
	"context"
	"time"

	"marketfill/internal/infra"
	"marketfill/internal/infra/db"
	"marketfill/internal/pkg/pgconv"
	"marketfill/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	orderByIDSQL = `
		SELECT id, customer_id, cart, total_price, total_final_price, total_quantity, status, created_at
		FROM orders
		WHERE id = $1`

	subOrdersByOrderIDSQL = `
		SELECT so.id, so.order_id, so.vendor_id, v.name,
		       so.sub_total_price, so.sub_total_final_price, so.sub_total_quantity, so.status
		FROM sub_orders so
		JOIN vendors v ON v.id = so.vendor_id
		WHERE so.order_id = $1
		ORDER BY so.vendor_id`

	subOrderByIDSQL = `
		SELECT so.id, so.order_id, so.vendor_id, v.name,
		       so.sub_total_price, so.sub_total_final_price, so.sub_total_quantity, so.status
		FROM sub_orders so
		JOIN vendors v ON v.id = so.vendor_id
		WHERE so.id = $1`

	linesBySubOrderIDSQL = `
		SELECT ol.id, ol.product_id, p.sku, p.name, ol.vendor_id,
		       ol.quantity, ol.unit_price, ol.unit_final_price, ol.discounts
		FROM order_lines ol
		JOIN products p ON p.id = ol.product_id
		WHERE ol.sub_order_id = $1
		ORDER BY ol.created_at, ol.id`

	recentOrderCountSQL = `
		SELECT count(*)
		FROM orders
		WHERE customer_id = $1 AND created_at >= $2`
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	rows, err := r.db.Query(ctx, orderByIDSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order by ID", err)
	}

	view, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (queries.OrderView, error) {
		var v queries.OrderView
		err := row.Scan(&v.ID, &v.CustomerID, &v.Cart, &v.TotalPrice, &v.TotalFinalPrice, &v.TotalQuantity, &v.Status, &v.CreatedAt)
		return v, err
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to collect order by ID", err)
	}

	subOrders, err := r.findSubOrders(ctx, id)
	if err != nil {
		return nil, err
	}
	view.SubOrders = subOrders

	return &view, nil
}

func (r *OrderReadStore) FindSubOrderByID(ctx context.Context, id uuid.UUID) (*queries.SubOrderView, error) {
	rows, err := r.db.Query(ctx, subOrderByIDSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find sub order by ID", err)
	}

	view, err := pgx.CollectExactlyOneRow(rows, scanSubOrder)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("sub order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to collect sub order by ID", err)
	}

	lines, err := r.findLines(ctx, view.ID)
	if err != nil {
		return nil, err
	}
	view.Lines = lines

	return &view, nil
}

func (r *OrderReadStore) CountByCustomerSince(ctx context.Context, customerID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, recentOrderCountSQL, customerID, since).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count recent orders", err)
	}
	return count, nil
}

func (r *OrderReadStore) findSubOrders(ctx context.Context, orderID uuid.UUID) ([]queries.SubOrderView, error) {
	rows, err := r.db.Query(ctx, subOrdersByOrderIDSQL, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find sub orders", err)
	}

	subOrders, err := pgx.CollectRows(rows, scanSubOrder)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to collect sub orders", err)
	}

	for i := range subOrders {
		lines, err := r.findLines(ctx, subOrders[i].ID)
		if err != nil {
			return nil, err
		}
		subOrders[i].Lines = lines
	}

	return subOrders, nil
}

func (r *OrderReadStore) findLines(ctx context.Context, subOrderID uuid.UUID) ([]queries.OrderLineView, error) {
	rows, err := r.db.Query(ctx, linesBySubOrderIDSQL, subOrderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order lines", err)
	}

	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (queries.OrderLineView, error) {
		var v queries.OrderLineView
		err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.ProductName, &v.VendorID, &v.Quantity, &v.UnitPrice, &v.UnitFinalPrice, &v.Discounts)
		return v, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to collect order lines", err)
	}

	return lines, nil
}

func scanSubOrder(row pgx.CollectableRow) (queries.SubOrderView, error) {
	var v queries.SubOrderView
	err := row.Scan(&v.ID, &v.OrderID, &v.VendorID, &v.VendorName, &v.SubTotalPrice, &v.SubTotalFinalPrice, &v.SubTotalQuantity, &v.Status)
	return v, err
}
